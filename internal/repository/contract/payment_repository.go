package contract

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"
)

type PaymentRepository interface {
	Create(ctx context.Context, txn *entity.PaymentTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MergeGatewayData deep-merges data into the stored gateway payload
	// without touching the transaction status.
	MergeGatewayData(ctx context.Context, transactionId string, data map[string]any) error

	// SettleIfPending flips a pending transaction to the given terminal
	// status. Returns false when the transaction was no longer pending,
	// in which case nothing was changed.
	SettleIfPending(ctx context.Context, transactionId string, status entity.PaymentStatus) (bool, error)

	// MarkRefunded flips a completed transaction to refunded. Returns
	// false when the transaction was not in the completed state.
	MarkRefunded(ctx context.Context, transactionId string) (bool, error)
}
