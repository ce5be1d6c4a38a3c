package service

import (
	"context"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/apperr"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/mailer"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/gateway"
	pktNats "ai-imagegen-be/pkg/nats"

	"github.com/google/uuid"
)

type IPaymentService interface {
	Initiate(ctx context.Context, userId uuid.UUID, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error)
	Verify(ctx context.Context, userId uuid.UUID, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, gatewayName string, body []byte, headers map[string]string) error
	ListTransactions(ctx context.Context, userId uuid.UUID, limit, offset int) ([]dto.PaymentTransactionResponse, error)
	GetTransaction(ctx context.Context, userId uuid.UUID, transactionId string) (*dto.PaymentTransactionResponse, error)
	Refund(ctx context.Context, transactionId string) (*dto.PaymentTransactionResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	gatewayFactory gateway.Factory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gatewayFactory gateway.Factory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		gatewayFactory: gatewayFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func toTransactionResponse(txn *entity.PaymentTransaction) *dto.PaymentTransactionResponse {
	return &dto.PaymentTransactionResponse{
		Id:            txn.Id,
		TransactionId: txn.TransactionId,
		Gateway:       txn.Gateway,
		Amount:        txn.Amount,
		Credits:       txn.Credits,
		Status:        string(txn.Status),
		CreatedAt:     txn.CreatedAt,
		CompletedAt:   txn.CompletedAt,
	}
}

func (s *paymentService) Initiate(ctx context.Context, userId uuid.UUID, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	gw, err := s.gatewayFactory.Get(req.Gateway)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	transactionId := gateway.NewTransactionId(gw.Name())

	result, err := gw.Initiate(ctx, gateway.InitiateRequest{
		TransactionId: transactionId,
		Amount:        req.Amount,
		Credits:       req.Credits,
		UserName:      user.FullName,
		UserEmail:     user.Email,
		ReturnURL:     req.ReturnURL,
	})
	if err != nil {
		return nil, apperr.AdapterFailure(gw.Name(), err)
	}

	txn := &entity.PaymentTransaction{
		Id:            uuid.New(),
		UserId:        userId,
		TransactionId: transactionId,
		Gateway:       gw.Name(),
		Amount:        req.Amount,
		Credits:       req.Credits,
		Status:        entity.PaymentStatusPending,
		GatewayData:   result.GatewayData,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := uow.PaymentRepository().Create(ctx, txn); err != nil {
		return nil, err
	}

	return &dto.InitiatePaymentResponse{
		TransactionId: transactionId,
		Gateway:       gw.Name(),
		Amount:        req.Amount,
		Credits:       req.Credits,
		Status:        string(entity.PaymentStatusPending),
		PaymentURL:    result.PaymentURL,
		GatewayData:   result.GatewayData,
	}, nil
}

func (s *paymentService) Verify(ctx context.Context, userId uuid.UUID, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	txn, err := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: req.TransactionId})
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperr.NotFound("transaction")
	}
	if txn.UserId != userId {
		return nil, apperr.ErrForbidden
	}

	// Only a pending transaction can be verified; anything the webhook or
	// an earlier verify already settled is rejected outright.
	if txn.Status != entity.PaymentStatusPending {
		return nil, apperr.ErrAlreadyProcessed
	}

	gw, err := s.gatewayFactory.Get(txn.Gateway)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	result, err := gw.Verify(ctx, txn.TransactionId, req.GatewayData)
	if err != nil {
		return nil, apperr.AdapterFailure(gw.Name(), err)
	}

	if !result.Succeeded {
		if _, err := s.settle(ctx, txn, entity.PaymentStatusFailed, result.GatewayData); err != nil {
			return nil, err
		}
		txn.Status = entity.PaymentStatusFailed
		return &dto.VerifyPaymentResponse{
			TransactionId: txn.TransactionId,
			Status:        string(entity.PaymentStatusFailed),
		}, nil
	}

	settled, err := s.settle(ctx, txn, entity.PaymentStatusCompleted, result.GatewayData)
	if err != nil {
		return nil, err
	}
	if !settled {
		// Lost the race against the webhook; the credits were already
		// added there.
		txn, err = uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: req.TransactionId})
		if err != nil || txn == nil {
			return nil, apperr.ErrAlreadyProcessed
		}
	} else {
		txn.Status = entity.PaymentStatusCompleted
	}

	return s.verifyResponse(ctx, uow, txn)
}

func (s *paymentService) verifyResponse(ctx context.Context, uow unitofwork.UnitOfWork, txn *entity.PaymentTransaction) (*dto.VerifyPaymentResponse, error) {
	creditsAdded := 0
	if txn.Status == entity.PaymentStatusCompleted {
		creditsAdded = txn.Credits
	}

	total := 0
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: txn.UserId})
	if err == nil && profile != nil {
		total = profile.Credits
	}

	return &dto.VerifyPaymentResponse{
		TransactionId: txn.TransactionId,
		Status:        string(txn.Status),
		CreditsAdded:  creditsAdded,
		TotalCredits:  total,
	}, nil
}

// settle flips a pending transaction to its terminal status and, on
// success, adds the purchased credits. The conditional update means the
// credits are added exactly once no matter how many callbacks race, and
// because only the winner merges its gateway data, concurrent callbacks
// cannot clobber each other's keys.
func (s *paymentService) settle(ctx context.Context, txn *entity.PaymentTransaction, status entity.PaymentStatus, data map[string]any) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	settled, err := uow.PaymentRepository().SettleIfPending(ctx, txn.TransactionId, status)
	if err != nil {
		return false, err
	}
	if !settled {
		return false, nil
	}

	if len(data) > 0 {
		if err := uow.PaymentRepository().MergeGatewayData(ctx, txn.TransactionId, data); err != nil {
			return false, err
		}
	}

	if status == entity.PaymentStatusCompleted {
		if err := uow.ProfileRepository().Credit(ctx, txn.UserId, txn.Credits); err != nil {
			return false, err
		}
	}

	if err := uow.Commit(); err != nil {
		return false, err
	}

	if status == entity.PaymentStatusCompleted {
		s.afterSettlement(ctx, txn)
	}

	return true, nil
}

func (s *paymentService) afterSettlement(ctx context.Context, txn *entity.PaymentTransaction) {
	if s.eventPublisher != nil {
		event := events.New(events.PaymentCompleted, map[string]interface{}{
			"transaction_id": txn.TransactionId,
			"user_id":        txn.UserId,
			"gateway":        txn.Gateway,
			"amount":         txn.Amount,
			"credits":        txn.Credits,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.log.Warn("payment", "Failed to publish PAYMENT_COMPLETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: txn.UserId})
	if err != nil || user == nil {
		return
	}

	go func() {
		if emailErr := s.emailService.SendPaymentReceipt(user.Email, txn.TransactionId, txn.Credits, txn.Amount); emailErr != nil {
			s.log.Error("payment", "Failed to send payment receipt", map[string]interface{}{"error": emailErr.Error()})
		}
	}()
}

// HandleWebhook settles a transaction from a gateway callback. Webhooks
// retry, and a user can verify at the same time, so everything here has
// to tolerate duplicates.
func (s *paymentService) HandleWebhook(ctx context.Context, gatewayName string, body []byte, headers map[string]string) error {
	gw, err := s.gatewayFactory.Get(gatewayName)
	if err != nil {
		return apperr.Validation(err.Error())
	}

	event, err := gw.ParseWebhook(body, headers)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	if event.Ignored {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	txn, err := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: event.TransactionId})
	if err != nil {
		return err
	}
	if txn == nil {
		s.log.Warn("payment", "Webhook for unknown transaction", map[string]interface{}{
			"gateway":        gatewayName,
			"transaction_id": event.TransactionId,
		})
		return apperr.NotFound("transaction")
	}

	status := entity.PaymentStatusFailed
	if event.Succeeded {
		status = entity.PaymentStatusCompleted
	}

	settled, err := s.settle(ctx, txn, status, event.Raw)
	if err != nil {
		return err
	}
	if !settled {
		s.log.Info("payment", "Webhook replay for settled transaction", map[string]interface{}{
			"transaction_id": txn.TransactionId,
		})
	}

	return nil
}

func (s *paymentService) ListTransactions(ctx context.Context, userId uuid.UUID, limit, offset int) ([]dto.PaymentTransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txns, err := uow.PaymentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PaymentTransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, *toTransactionResponse(txn))
	}
	return responses, nil
}

func (s *paymentService) GetTransaction(ctx context.Context, userId uuid.UUID, transactionId string) (*dto.PaymentTransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	txn, err := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: transactionId})
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperr.NotFound("transaction")
	}
	if txn.UserId != userId {
		return nil, apperr.ErrForbidden
	}

	return toTransactionResponse(txn), nil
}

// Refund reverses a completed purchase: the gateway refund is initiated,
// the purchased credits are taken back, and the transaction moves to
// refunded. A user who already spent the credits cannot be refunded.
func (s *paymentService) Refund(ctx context.Context, transactionId string) (*dto.PaymentTransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	txn, err := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: transactionId})
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperr.NotFound("transaction")
	}
	if txn.Status != entity.PaymentStatusCompleted {
		return nil, apperr.ErrAlreadyProcessed
	}

	gw, err := s.gatewayFactory.Get(txn.Gateway)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	refundData, err := gw.Refund(ctx, txn.TransactionId, txn.Amount)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	debited, err := uow.ProfileRepository().Debit(ctx, txn.UserId, txn.Credits)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, apperr.ErrInsufficientCredits
	}

	refunded, err := uow.PaymentRepository().MarkRefunded(ctx, txn.TransactionId)
	if err != nil {
		return nil, err
	}
	if !refunded {
		return nil, apperr.ErrAlreadyProcessed
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := uow.PaymentRepository().MergeGatewayData(ctx, txn.TransactionId, refundData); err != nil {
		s.log.Warn("payment", "Failed to record refund data", map[string]interface{}{
			"transaction_id": txn.TransactionId,
			"error":          err.Error(),
		})
	}

	txn.Status = entity.PaymentStatusRefunded
	return toTransactionResponse(txn), nil
}
