package checkout

import (
	"context"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/publisher"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"go.uber.org/zap"
)

// Recorder stores a successful transaction and announces it. Neither step
// can fail the checkout; errors are logged for reconciliation.
type Recorder struct {
	store repository.DocumentStore
	pub   publisher.Publisher
	log   *zap.Logger
}

func NewRecorder(store repository.DocumentStore, pub publisher.Publisher, log *zap.Logger) *Recorder {
	return &Recorder{store: store, pub: pub, log: log}
}

func (r *Recorder) Record(ctx context.Context, tx domain.TransactionRecord) {
	if err := r.store.Write(ctx, repository.CollectionTransactions, tx.ID, tx); err != nil {
		r.log.Error("failed to write transaction record",
			zap.String("transaction_id", tx.ID),
			zap.String("reference", tx.Reference),
			zap.Error(err))
	}
	if err := r.pub.PublishTransaction(ctx, tx); err != nil {
		r.log.Error("failed to publish transaction",
			zap.String("transaction_id", tx.ID),
			zap.Error(err))
	}
}
