package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/SscSPs/roomie_ledger/internal/dto"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
)

const (
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// ledgerHandler serves the computed household ledger.
type ledgerHandler struct {
	settlementService portssvc.SettlementSvcFacade
	originPatterns    []string
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(settlementService portssvc.SettlementSvcFacade, originPatterns []string) *ledgerHandler {
	return &ledgerHandler{settlementService: settlementService, originPatterns: originPatterns}
}

// getLedger godoc
// @Summary Get the household ledger
// @Description Balances, monthly spend and decorated expenses as seen by the caller
// @Tags ledger
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Balances unavailable"
// @Security BearerAuth
// @Router /households/{householdID}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	householdID := c.Param("householdID")

	viewerID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.settlementService.GetLedger(c.Request.Context(), householdID, viewerID)
	if err != nil {
		respondError(c, logger, err, "Balances unavailable")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(*snapshot))
}

// streamLedger godoc
// @Summary Stream the household ledger
// @Description Upgrades to a websocket and pushes a full ledger frame after every change
// @Tags ledger
// @Param   householdID path string true "Household ID"
// @Param   access_token query string false "Bearer token for clients that cannot set headers"
// @Success 101 {object} dto.LedgerResponse "One frame per change"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Security BearerAuth
// @Router /households/{householdID}/ledger/stream [get]
func (h *ledgerHandler) streamLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	householdID := c.Param("householdID")

	viewerID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.settlementService.Subscribe(c.Request.Context(), householdID, viewerID)
	if err != nil {
		respondError(c, logger, err, "Failed to open ledger stream")
		return
	}
	defer view.Close()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		logger.Warn("websocket accept failed", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow()

	// frames sent by the client are ignored; reading detects the close
	ctx := conn.CloseRead(c.Request.Context())
	logger.Debug("ledger stream opened", slog.String("household_id", householdID))

	status, reason := pumpLedger(ctx, conn, view)
	if err := conn.Close(status, reason); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("ledger stream closed", slog.String("error", err.Error()))
	}
}

// pumpLedger writes one frame per coalesced view change until the view
// fails, the client leaves or the view is closed.
func pumpLedger(ctx context.Context, conn *websocket.Conn, view portssvc.HouseholdView) (websocket.StatusCode, string) {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case _, open := <-view.Changes():
			if !open {
				return websocket.StatusGoingAway, "view closed"
			}
			snapshot := view.Snapshot()
			if snapshot.State == portssvc.ViewIdle || snapshot.State == portssvc.ViewLoading {
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := wsjson.Write(writeCtx, conn, dto.ToLedgerResponse(snapshot))
			cancel()
			if err != nil {
				return websocket.StatusInternalError, "write failed"
			}
			if snapshot.State == portssvc.ViewFailed {
				return websocket.StatusTryAgainLater, "balances unavailable"
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return websocket.StatusGoingAway, "ping failed"
			}
		case <-ctx.Done():
			return websocket.StatusNormalClosure, ""
		}
	}
}

// registerLedgerRoutes registers ledger specific routes under a household group
func registerLedgerRoutes(household *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade, originPatterns []string) {
	h := newLedgerHandler(settlementService, originPatterns)

	household.GET("/ledger", h.getLedger)
	household.GET("/ledger/stream", h.streamLedger)
}
