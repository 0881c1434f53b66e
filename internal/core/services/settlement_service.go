package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/SscSPs/roomie_ledger/internal/utils/pagination"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	ErrViewClosed   = errors.New("household view is closed")
	ErrViewNotReady = errors.New("household view did not become ready in time")
)

// SettlementOptions tunes the settlement controller.
type SettlementOptions struct {
	WriteTimeout     time.Duration // 0 disables the per-write timeout
	ViewReadyTimeout time.Duration // 0 waits as long as the caller's ctx allows
	Location         *time.Location
	Tracer           trace.Tracer
	Now              func() time.Time
}

// settlementService is the settlement controller: it validates and forwards
// writes, and opens household views that recompute the ledger on every snapshot.
type settlementService struct {
	BaseService
	expenseRepo    portsrepo.ExpenseRepositoryFacade
	membershipRepo portsrepo.MembershipReader
	opts           SettlementOptions
}

// NewSettlementService creates a new settlement controller.
func NewSettlementService(expenseRepo portsrepo.ExpenseRepositoryFacade, membershipRepo portsrepo.MembershipReader, opts SettlementOptions) portssvc.SettlementSvcFacade {
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &settlementService{
		BaseService:    newBaseService("settlement"),
		expenseRepo:    expenseRepo,
		membershipRepo: membershipRepo,
		opts:           opts,
	}
}

func (s *settlementService) startSpan(ctx context.Context, name, householdID string) (context.Context, trace.Span) {
	return s.opts.Tracer.Start(ctx, "settlement."+name, trace.WithAttributes(attribute.String("household.id", householdID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *settlementService) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.WriteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.WriteTimeout)
}

// validateNewExpense returns the first failing field, checked in a fixed order.
func validateNewExpense(input domain.NewExpenseInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("title", "must not be blank")
	}
	if !input.Amount.IsPositive() {
		return apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if input.OccurredAt.IsZero() {
		return apperrors.NewValidationError("occurredAt", "is required")
	}
	if len(input.ParticipantIDs) == 0 {
		return apperrors.NewValidationError("participantIds", "must not be empty")
	}
	seen := make(map[string]struct{}, len(input.ParticipantIDs))
	for _, p := range input.ParticipantIDs {
		if strings.TrimSpace(p) == "" {
			return apperrors.NewValidationError("participantIds", "must not contain blank ids")
		}
		if _, dup := seen[p]; dup {
			return apperrors.NewValidationError("participantIds", "must not contain duplicates")
		}
		seen[p] = struct{}{}
	}
	if strings.TrimSpace(input.PayerID) == "" {
		return apperrors.NewValidationError("payerId", "is required")
	}
	return nil
}

// CreateExpense validates input and appends a new expense to the household.
func (s *settlementService) CreateExpense(ctx context.Context, householdID string, input domain.NewExpenseInput) (id string, err error) {
	ctx, span := s.startSpan(ctx, "CreateExpense", householdID)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(householdID) == "" {
		return "", apperrors.NewValidationError("householdId", "is required")
	}
	if err := validateNewExpense(input); err != nil {
		s.LogDebug(ctx, "expense rejected by local checks", slog.String("household_id", householdID), slog.String("error", err.Error()))
		return "", err
	}

	creator, ok := s.ActorID(ctx)
	if !ok {
		creator = input.PayerID
	}
	now := s.opts.Now().UTC()

	var description *string
	if d := strings.TrimSpace(input.Description); d != "" {
		description = &d
	}

	expense := domain.Expense{
		HouseholdID:    householdID,
		Title:          strings.TrimSpace(input.Title),
		Amount:         input.Amount,
		Description:    description,
		OccurredAt:     input.OccurredAt,
		PayerID:        input.PayerID,
		ParticipantIDs: append([]string(nil), input.ParticipantIDs...),
		PaymentStatus:  domain.InitialPaymentStatus(input.PayerID, input.ParticipantIDs),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	id, err = s.expenseRepo.AppendExpense(writeCtx, householdID, expense)
	if err != nil {
		s.LogError(ctx, err, "failed to append expense", slog.String("household_id", householdID))
		return "", fmt.Errorf("failed to create expense: %w", err)
	}

	span.SetAttributes(attribute.String("expense.id", id))
	s.LogInfo(ctx, "expense created",
		slog.String("household_id", householdID),
		slog.String("expense_id", id),
		slog.String("payer_id", input.PayerID),
		slog.Int("participants", len(input.ParticipantIDs)))
	return id, nil
}

// SetPaymentStatus updates one debtor's entry on one expense. The acting
// member comes from ctx; the store decides whether that member may write.
func (s *settlementService) SetPaymentStatus(ctx context.Context, householdID, expenseID, debtorID string, paid bool) (err error) {
	ctx, span := s.startSpan(ctx, "SetPaymentStatus", householdID)
	span.SetAttributes(attribute.String("expense.id", expenseID), attribute.Bool("paid", paid))
	defer func() { endSpan(span, err) }()

	switch {
	case strings.TrimSpace(householdID) == "":
		return apperrors.NewValidationError("householdId", "is required")
	case strings.TrimSpace(expenseID) == "":
		return apperrors.NewValidationError("expenseId", "is required")
	case strings.TrimSpace(debtorID) == "":
		return apperrors.NewValidationError("debtorId", "is required")
	}

	actor, ok := s.ActorID(ctx)
	if !ok {
		return apperrors.NewValidationError("actor", "no authenticated member")
	}

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	err = s.expenseRepo.UpdatePaymentStatus(writeCtx, householdID, expenseID, debtorID, paid, actor, s.opts.Now().UTC())
	if err != nil {
		s.LogError(ctx, err, "failed to update payment status",
			slog.String("household_id", householdID),
			slog.String("expense_id", expenseID),
			slog.String("debtor_id", debtorID),
			slog.Bool("paid", paid))
		return fmt.Errorf("failed to set payment status: %w", err)
	}

	s.LogInfo(ctx, "payment status updated",
		slog.String("household_id", householdID),
		slog.String("expense_id", expenseID),
		slog.String("debtor_id", debtorID),
		slog.Bool("paid", paid))
	return nil
}

// ListExpenses returns one page of expenses, newest first.
func (s *settlementService) ListExpenses(ctx context.Context, householdID, viewerID string, limit int, nextToken *string) (page *portssvc.ExpensePage, err error) {
	ctx, span := s.startSpan(ctx, "ListExpenses", householdID)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(householdID) == "" {
		return nil, apperrors.NewValidationError("householdId", "is required")
	}
	limit = pagination.ClampLimit(limit, defaultPageSize, maxPageSize)

	expenses, token, err := s.expenseRepo.ListExpensesPage(ctx, householdID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list expenses", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	names := domain.MemberNames(s.loadMembers(ctx, householdID))
	lines := make([]portssvc.ExpenseLine, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, decorate(e, viewerID, names, false))
	}
	return &portssvc.ExpensePage{Expenses: lines, NextToken: token}, nil
}

// loadMembers resolves membership for labelling. A failure only costs the
// display names, so it is logged and the raw ids are shown instead.
func (s *settlementService) loadMembers(ctx context.Context, householdID string) []domain.Member {
	members, err := s.membershipRepo.GetMembers(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "failed to resolve household members", slog.String("household_id", householdID))
		return nil
	}
	return members
}

// Subscribe opens a live view of the household for viewerID.
func (s *settlementService) Subscribe(ctx context.Context, householdID, viewerID string) (view portssvc.HouseholdView, err error) {
	spanCtx, span := s.startSpan(ctx, "Subscribe", householdID)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(householdID) == "" {
		return nil, apperrors.NewValidationError("householdId", "is required")
	}

	v := newHouseholdView(s, householdID, viewerID, s.GetLogger(ctx))
	v.setLoading()

	sub, err := s.expenseRepo.SubscribeExpenses(ctx, householdID)
	if err != nil {
		s.LogError(spanCtx, err, "failed to open expense subscription", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to subscribe to household %s: %w", householdID, err)
	}
	v.start(ctx, sub)

	s.LogDebug(spanCtx, "household view opened", slog.String("household_id", householdID), slog.String("viewer_id", viewerID))
	return v, nil
}

// GetLedger opens a view, waits for its first snapshot and closes it again.
func (s *settlementService) GetLedger(ctx context.Context, householdID, viewerID string) (*portssvc.ViewSnapshot, error) {
	view, err := s.Subscribe(ctx, householdID, viewerID)
	if err != nil {
		return nil, err
	}
	defer view.Close()

	waitCtx := ctx
	if s.opts.ViewReadyTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.opts.ViewReadyTimeout)
		defer cancel()
	}

	if err := view.Ready(waitCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, ErrViewNotReady)
		}
		return nil, err
	}

	snapshot := view.Snapshot()
	return &snapshot, nil
}
