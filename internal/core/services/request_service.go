package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
)

// requestService implements the money-request lifecycle: create, decide,
// and the two funding paths that spawn the money transaction.
type requestService struct {
	requestRepo      portsrepo.MoneyRequestRepositoryFacade
	transactionRepo  portsrepo.MoneyTransactionRepositoryFacade
	proofSvc         portssvc.ProofSvcFacade
	friendshipSvc    portssvc.FriendshipSvcFacade
	notifier         portssvc.NotifierSvc
	maxRequestAmount decimal.Decimal
}

// NewRequestService creates a new money-request service.
func NewRequestService(
	requestRepo portsrepo.MoneyRequestRepositoryFacade,
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade,
	proofSvc portssvc.ProofSvcFacade,
	friendshipSvc portssvc.FriendshipSvcFacade,
	notifier portssvc.NotifierSvc,
	maxRequestAmount decimal.Decimal,
) portssvc.RequestSvcFacade {
	return &requestService{
		requestRepo:      requestRepo,
		transactionRepo:  transactionRepo,
		proofSvc:         proofSvc,
		friendshipSvc:    friendshipSvc,
		notifier:         notifier,
		maxRequestAmount: maxRequestAmount,
	}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

// CreateRequest records a pending money request from requestor to lender.
func (s *requestService) CreateRequest(ctx context.Context, req dto.CreateMoneyRequestRequest, requestorID string) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.LenderID == requestorID {
		return nil, fmt.Errorf("%w: cannot request money from yourself", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if s.maxRequestAmount.IsPositive() && req.Amount.GreaterThan(s.maxRequestAmount) {
		return nil, fmt.Errorf("%w: amount exceeds the maximum of %s", apperrors.ErrValidation, s.maxRequestAmount.String())
	}

	paymentType := domain.PaymentType(req.PaymentType)
	emiDetails, err := validateEMIDetails(paymentType, req.EMIDetails)
	if err != nil {
		return nil, err
	}

	friends, err := s.friendshipSvc.AreFriends(ctx, requestorID, req.LenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !friends {
		return nil, fmt.Errorf("%w: money can only be requested from friends", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	request := domain.MoneyRequest{
		RequestID:   uuid.NewString(),
		RequestorID: requestorID,
		LenderID:    req.LenderID,
		Amount:      req.Amount,
		Description: req.Description,
		PaymentType: paymentType,
		EMIDetails:  emiDetails,
		Status:      domain.RequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestorID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestorID,
		},
	}

	if err := s.requestRepo.SaveRequest(ctx, request); err != nil {
		logger.Error("Failed to save money request", slog.String("requestor_id", requestorID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save money request: %w", err)
	}

	logger.Info("Money request created", slog.String("request_id", request.RequestID), slog.String("lender_id", request.LenderID))
	s.notifyQuietly(ctx, request.LenderID, domain.NotifyRequestCreated, "New money request",
		fmt.Sprintf("A friend asked you for %s", request.Amount.String()), &request.Amount, nil, &request.RequestID)

	return &request, nil
}

// DecideRequest applies the lender's approve/reject decision.
func (s *requestService) DecideRequest(ctx context.Context, requestID string, actingUserID string, req dto.DecideMoneyRequestRequest) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Decision == "REJECT" && (req.RejectionReason == nil || *req.RejectionReason == "") {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx)

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money request: %w", err)
	}
	if request.RoleOf(actingUserID) != domain.RoleLender {
		return nil, fmt.Errorf("%w: only the lender can decide a request", apperrors.ErrForbidden)
	}
	if request.IsDecided() {
		return nil, fmt.Errorf("%w: request is already %s", apperrors.ErrConflict, request.Status)
	}

	now := time.Now().UTC()
	event := domain.NotifyRequestApproved
	title := "Request approved"
	switch req.Decision {
	case "APPROVE":
		request.Status = domain.RequestApproved
	case "REJECT":
		request.Status = domain.RequestRejected
		request.RejectionReason = req.RejectionReason
		request.RejectedAt = &now
		event = domain.NotifyRequestRejected
		title = "Request rejected"
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, req.Decision)
	}
	request.LastUpdatedAt = now
	request.LastUpdatedBy = actingUserID

	if err := s.requestRepo.UpdateRequestInTx(ctx, tx, *request, domain.RequestPending); err != nil {
		return nil, fmt.Errorf("failed to update money request: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Money request decided", slog.String("request_id", requestID), slog.String("status", string(request.Status)))
	s.notifyQuietly(ctx, request.RequestorID, event, title,
		fmt.Sprintf("Your request for %s was %s", request.Amount.String(), string(request.Status)), &request.Amount, nil, &request.RequestID)

	return request, nil
}

// ApproveAndPay atomically approves a pending request, records the money-sent
// proof and creates the funded transaction. This is the primary funding path.
func (s *requestService) ApproveAndPay(ctx context.Context, requestID string, actingUserID string, req dto.ApproveAndPayRequest) (*domain.MoneyTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx)

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money request: %w", err)
	}
	if request.RoleOf(actingUserID) != domain.RoleLender {
		return nil, fmt.Errorf("%w: only the lender can fund a request", apperrors.ErrForbidden)
	}
	if request.IsDecided() {
		return nil, fmt.Errorf("%w: request is already %s", apperrors.ErrConflict, request.Status)
	}

	now := time.Now().UTC()
	request.Status = domain.RequestApproved
	request.LastUpdatedAt = now
	request.LastUpdatedBy = actingUserID
	if err := s.requestRepo.UpdateRequestInTx(ctx, tx, *request, domain.RequestPending); err != nil {
		return nil, fmt.Errorf("failed to update money request: %w", err)
	}

	txn, err := s.fundRequestInTx(ctx, tx, request, actingUserID, req.Proof, now)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Request approved and funded", slog.String("request_id", requestID), slog.String("transaction_id", txn.TransactionID))
	s.notifyQuietly(ctx, request.RequestorID, domain.NotifyMoneySent, "Money sent",
		fmt.Sprintf("Your friend sent you %s", request.Amount.String()), &request.Amount, &txn.TransactionID, &request.RequestID)

	return txn, nil
}

// SendMoney funds a previously approved request (the two-step path).
func (s *requestService) SendMoney(ctx context.Context, requestID string, actingUserID string, req dto.SendMoneyRequest) (*domain.MoneyTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// A transaction for this request must not exist yet; an approved request
	// spawns exactly one.
	if _, err := s.transactionRepo.FindTransactionByRequestID(ctx, requestID); err == nil {
		return nil, fmt.Errorf("%w: request is already funded", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing transaction: %w", err)
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx)

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money request: %w", err)
	}
	if request.RoleOf(actingUserID) != domain.RoleLender {
		return nil, fmt.Errorf("%w: only the lender can fund a request", apperrors.ErrForbidden)
	}
	if request.Status != domain.RequestApproved {
		return nil, fmt.Errorf("%w: only an approved request can be funded, current status is %s", apperrors.ErrConflict, request.Status)
	}

	now := time.Now().UTC()
	txn, err := s.fundRequestInTx(ctx, tx, request, actingUserID, req.Proof, now)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Approved request funded", slog.String("request_id", requestID), slog.String("transaction_id", txn.TransactionID))
	s.notifyQuietly(ctx, request.RequestorID, domain.NotifyMoneySent, "Money sent",
		fmt.Sprintf("Your friend sent you %s", request.Amount.String()), &request.Amount, &txn.TransactionID, &request.RequestID)

	return txn, nil
}

// GetRequestByID retrieves a request visible to the given user.
func (s *requestService) GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money request: %w", err)
	}
	if request.RoleOf(requestingUserID) == "" {
		return nil, fmt.Errorf("%w: request belongs to other users", apperrors.ErrForbidden)
	}
	return request, nil
}

// ListRequests retrieves a paginated list of the user's requests in the given
// role, defaulting to requests the user sent.
func (s *requestService) ListRequests(ctx context.Context, userID string, params dto.ListMoneyRequestsParams) (*dto.ListMoneyRequestsResponse, error) {
	role := domain.RoleRequestor
	if params.Role == string(domain.RoleLender) {
		role = domain.RoleLender
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	requests, nextToken, err := s.requestRepo.ListRequestsByUser(ctx, userID, role, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list money requests: %w", err)
	}

	return &dto.ListMoneyRequestsResponse{
		Requests:  dto.ToMoneyRequestResponses(requests),
		NextToken: nextToken,
	}, nil
}

// fundRequestInTx creates the MONEY_SENT transaction for an approved request
// and records its money-sent proof, all inside the caller's tx.
func (s *requestService) fundRequestInTx(ctx context.Context, tx pgx.Tx, request *domain.MoneyRequest, lenderID string, proof dto.ProofMetadata, now time.Time) (*domain.MoneyTransaction, error) {
	txn := domain.MoneyTransaction{
		TransactionID:          uuid.NewString(),
		RequestID:              request.RequestID,
		RequestorID:            request.RequestorID,
		LenderID:               request.LenderID,
		Amount:                 request.Amount,
		Status:                 domain.TxnMoneySent,
		RepaymentAmount:        decimal.Zero,
		PendingRepaymentAmount: decimal.Zero,
		MoneySentAt:            &now,
		PaymentType:            request.PaymentType,
		EMIDetails:             request.EMIDetails,
		Version:                1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     lenderID,
			LastUpdatedAt: now,
			LastUpdatedBy: lenderID,
		},
	}

	if err := s.transactionRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("failed to save money transaction: %w", err)
	}
	if _, err := s.proofSvc.RecordProofInTx(ctx, tx, txn.TransactionID, lenderID, domain.ProofMoneySent, proof); err != nil {
		return nil, err
	}
	return &txn, nil
}

// notifyQuietly dispatches a notification and only logs on failure; delivery
// never vetoes a lifecycle transition.
func (s *requestService) notifyQuietly(ctx context.Context, recipientID string, event domain.NotificationEvent, title, body string, amount *decimal.Decimal, transactionID, requestID *string) {
	if err := s.notifier.Notify(ctx, recipientID, event, title, body, amount, transactionID, requestID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to dispatch notification",
			slog.String("recipient_id", recipientID), slog.String("event", string(event)), slog.String("error", err.Error()))
	}
}

// validateEMIDetails enforces the "present iff EMI" rule and the schedule
// bounds.
func validateEMIDetails(paymentType domain.PaymentType, details *dto.EMIDetailsRequest) (*domain.EMIDetails, error) {
	switch paymentType {
	case domain.PaymentEMI:
		if details == nil {
			return nil, fmt.Errorf("%w: emiDetails are required for EMI requests", apperrors.ErrValidation)
		}
	case domain.PaymentFull, domain.PaymentInstallments, domain.PaymentFlexible:
		if details != nil {
			return nil, fmt.Errorf("%w: emiDetails are only allowed for EMI requests", apperrors.ErrValidation)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown payment type %q", apperrors.ErrValidation, paymentType)
	}

	if details.NumberOfInstallments < 1 || details.NumberOfInstallments > 24 {
		return nil, fmt.Errorf("%w: numberOfInstallments must be between 1 and 24", apperrors.ErrValidation)
	}
	if !details.InstallmentAmount.IsPositive() {
		return nil, fmt.Errorf("%w: installmentAmount must be positive", apperrors.ErrValidation)
	}
	frequency := domain.EMIFrequency(details.Frequency)
	switch frequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyQuarterly:
	default:
		return nil, fmt.Errorf("%w: unknown EMI frequency %q", apperrors.ErrValidation, details.Frequency)
	}

	return &domain.EMIDetails{
		NumberOfInstallments: details.NumberOfInstallments,
		InstallmentAmount:    details.InstallmentAmount,
		Frequency:            frequency,
	}, nil
}
