package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"bancoapi/internal/config"
	"bancoapi/internal/infrastructure/cache"
	"bancoapi/internal/model"
	"bancoapi/internal/repository"
	"bancoapi/pkg/cpf"
	"bancoapi/pkg/idgen"
	"bancoapi/pkg/metrics"

	"gorm.io/gorm"
)

// TransferService executes balance movements between two accounts. Each
// execution runs in one database transaction holding row locks on both
// accounts; the transaction is the only concurrency primitive. The engine
// is deliberately not idempotent: resubmitting an identical request
// creates a second transfer.
type TransferService struct {
	db           *gorm.DB
	cfg          *config.Config
	accountRepo  *repository.AccountRepository
	transferRepo *repository.TransferRepository
	outboxRepo   *repository.OutboxRepository
	accountCache *cache.AccountCache
}

func NewTransferService(db *gorm.DB, cfg *config.Config, accountCache *cache.AccountCache) *TransferService {
	return &TransferService{
		db:           db,
		cfg:          cfg,
		accountRepo:  repository.NewAccountRepository(db),
		transferRepo: repository.NewTransferRepository(db),
		outboxRepo:   repository.NewOutboxRepository(db),
		accountCache: accountCache,
	}
}

type TransferRequest struct {
	SourceCPF string
	TargetCPF string
	Amount    int64 // minor units
}

// Execute validates and commits one transfer.
//
// Order of checks: structural validation, then same-account, then (inside
// the transaction, against locked rows) account existence and funds. A
// same-account request is always reported as such, even when it would
// also fail the funds check.
func (s *TransferService) Execute(ctx context.Context, req *TransferRequest) (*model.Transfer, error) {
	if err := validateTransferRequest(req); err != nil {
		metrics.TransfersTotal.WithLabelValues(metrics.ResultValidationError).Inc()
		return nil, err
	}
	if req.SourceCPF == req.TargetCPF {
		metrics.TransfersTotal.WithLabelValues(metrics.ResultSameAccount).Inc()
		return nil, ErrSameAccount
	}

	var transfer *model.Transfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock both rows in stable CPF order so two opposing transfers
		// cannot deadlock each other.
		first, second := req.SourceCPF, req.TargetCPF
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*model.Account, 2)
		for _, accountCPF := range []string{first, second} {
			account, err := s.accountRepo.GetByCPFForUpdate(ctx, tx, accountCPF)
			if err != nil {
				return err
			}
			locked[accountCPF] = account
		}
		source := locked[req.SourceCPF]
		target := locked[req.TargetCPF]

		// Strictly-greater check against the pre-mutation balance: a
		// transfer of the full balance is allowed.
		if req.Amount > source.Balance {
			return ErrInsufficientFunds
		}

		target.Balance += req.Amount
		source.Balance -= req.Amount

		if err := s.accountRepo.SetBalance(ctx, tx, target.CPF, target.Balance); err != nil {
			return err
		}
		if err := s.accountRepo.SetBalance(ctx, tx, source.CPF, source.Balance); err != nil {
			return err
		}

		transfer = &model.Transfer{
			ReferenceNo: idgen.TransferReferenceNo(),
			SourceCPF:   req.SourceCPF,
			TargetCPF:   req.TargetCPF,
			Amount:      req.Amount,
		}
		if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		return s.outboxRepo.Create(ctx, tx, s.completedMessage(transfer))
	})
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(transferResultLabel(err)).Inc()
		return nil, err
	}

	s.accountCache.Invalidate(ctx, req.SourceCPF, req.TargetCPF)
	metrics.TransfersTotal.WithLabelValues(metrics.ResultCommitted).Inc()
	metrics.TransferredUnits.Add(float64(req.Amount))
	log.Printf("transfer committed: ref=%s, source=%s, target=%s, amount=%d",
		transfer.ReferenceNo, transfer.SourceCPF, transfer.TargetCPF, transfer.Amount)
	return transfer, nil
}

func (s *TransferService) completedMessage(transfer *model.Transfer) *model.OutboxMessage {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":           transfer.ID,
		"reference_no": transfer.ReferenceNo,
		"source_cpf":   transfer.SourceCPF,
		"target_cpf":   transfer.TargetCPF,
		"value":        transfer.Amount,
		"date":         transfer.CreatedAt.Format(time.RFC3339),
	})
	return &model.OutboxMessage{
		MessageKey: transfer.ReferenceNo,
		Topic:      s.cfg.Kafka.Topic.TransferCompleted,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
}

func validateTransferRequest(req *TransferRequest) error {
	if !cpf.Valid(req.SourceCPF) {
		return invalidField("source_cpf", "must be a valid cpf")
	}
	if !cpf.Valid(req.TargetCPF) {
		return invalidField("target_cpf", "must be a valid cpf")
	}
	if req.Amount <= 0 {
		return invalidField("value", "must be a positive amount")
	}
	return nil
}

func transferResultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return metrics.ResultInsufficientFunds
	case errors.Is(err, repository.ErrAccountNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultStorageError
	}
}
