package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/SscSPs/roomie_ledger/internal/dto"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to household expenses.
type expenseHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(settlementService portssvc.SettlementSvcFacade) *expenseHandler {
	return &expenseHandler{settlementService: settlementService}
}

// createExpense godoc
// @Summary Record a shared expense
// @Description Validates the expense and appends it to the household. The payer defaults to the caller.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   expense body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.CreateExpenseResponse
// @Failure 400 {object} map[string]string "Invalid request or failed field check"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Household not found"
// @Failure 409 {object} map[string]string "Write rejected by store"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Security BearerAuth
// @Router /households/{householdID}/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	householdID := c.Param("householdID")

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	callerID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		logger.Error("Member ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if req.PayerID == "" {
		req.PayerID = callerID
	}

	expenseID, err := h.settlementService.CreateExpense(c.Request.Context(), householdID, req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created successfully", slog.String("household_id", householdID), slog.String("expense_id", expenseID))
	c.JSON(http.StatusCreated, dto.CreateExpenseResponse{ExpenseID: expenseID})
}

// setPaymentStatus godoc
// @Summary Mark a debtor's share as paid or unpaid
// @Description Only the payer of the expense may change its payment status.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   expenseID path string true "Expense ID"
// @Param   debtorID path string true "Debtor member ID"
// @Param   status body dto.SetPaymentStatusRequest true "Payment status"
// @Success 204 "Updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Caller is not the payer"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Debtor is not a participant"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Security BearerAuth
// @Router /households/{householdID}/expenses/{expenseID}/payments/{debtorID} [put]
func (h *expenseHandler) setPaymentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	householdID := c.Param("householdID")
	expenseID := c.Param("expenseID")
	debtorID := c.Param("debtorID")

	var req dto.SetPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	err := h.settlementService.SetPaymentStatus(c.Request.Context(), householdID, expenseID, debtorID, *req.Paid)
	if err != nil {
		respondError(c, logger, err, "Failed to update payment status")
		return
	}

	logger.Info("Payment status updated",
		slog.String("expense_id", expenseID),
		slog.String("debtor_id", debtorID),
		slog.Bool("paid", *req.Paid))
	c.Status(http.StatusNoContent)
}

// listExpenses godoc
// @Summary List household expenses
// @Description Returns a page of expenses, newest first, decorated for the caller
// @Tags expenses
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Security BearerAuth
// @Router /households/{householdID}/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	householdID := c.Param("householdID")

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	viewerID, _ := middleware.GetMemberIDFromContext(c)
	page, err := h.settlementService.ListExpenses(c.Request.Context(), householdID, viewerID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToListExpensesResponse(page))
}

// registerExpenseRoutes registers expense specific routes under a household group
func registerExpenseRoutes(household *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newExpenseHandler(settlementService)

	expenses := household.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.PUT("/:expenseID/payments/:debtorID", h.setPaymentStatus)
	}
}
