package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/SscSPs/roomie_ledger/internal/dto"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// householdHandler exposes the membership resolver.
type householdHandler struct {
	membershipService portssvc.MembershipSvc
}

func newHouseholdHandler(membershipService portssvc.MembershipSvc) *householdHandler {
	return &householdHandler{membershipService: membershipService}
}

// getHousehold godoc
// @Summary Get a household and its members
// @Tags households
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {object} dto.HouseholdResponse
// @Failure 404 {object} map[string]string "Household not found"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Security BearerAuth
// @Router /households/{householdID} [get]
func (h *householdHandler) getHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	householdID := c.Param("householdID")

	household, members, err := h.membershipService.GetHousehold(c.Request.Context(), householdID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve household")
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseholdResponse(household, members))
}
