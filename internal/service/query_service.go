package service

import (
	"context"

	"bancoapi/internal/infrastructure/cache"
	"bancoapi/internal/model"
	"bancoapi/internal/repository"

	"gorm.io/gorm"
)

// QueryService serves the read-only projections. It never mutates state;
// account lookups go through the redis read cache when one is configured.
type QueryService struct {
	clientRepo   *repository.ClientRepository
	accountRepo  *repository.AccountRepository
	transferRepo *repository.TransferRepository
	accountCache *cache.AccountCache
}

func NewQueryService(db *gorm.DB, accountCache *cache.AccountCache) *QueryService {
	return &QueryService{
		clientRepo:   repository.NewClientRepository(db),
		accountRepo:  repository.NewAccountRepository(db),
		transferRepo: repository.NewTransferRepository(db),
		accountCache: accountCache,
	}
}

func (s *QueryService) ListClients(ctx context.Context) ([]*model.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *QueryService) GetClient(ctx context.Context, cpf string) (*model.Client, error) {
	return s.clientRepo.GetByCPF(ctx, cpf)
}

func (s *QueryService) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return s.accountRepo.List(ctx)
}

func (s *QueryService) GetAccount(ctx context.Context, cpf string) (*model.Account, error) {
	if account := s.accountCache.Get(ctx, cpf); account != nil {
		return account, nil
	}
	account, err := s.accountRepo.GetByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	s.accountCache.Set(ctx, account)
	return account, nil
}

func (s *QueryService) ListTransfers(ctx context.Context) ([]*model.Transfer, error) {
	return s.transferRepo.List(ctx)
}

// TransfersBySource lists transfers performed by cpf, oldest first. A cpf
// with no transfers yields an empty slice, not an error.
func (s *QueryService) TransfersBySource(ctx context.Context, cpf string) ([]*model.Transfer, error) {
	return s.transferRepo.ListBySource(ctx, cpf)
}

// TransfersByTarget lists transfers received by cpf, oldest first.
func (s *QueryService) TransfersByTarget(ctx context.Context, cpf string) ([]*model.Transfer, error) {
	return s.transferRepo.ListByTarget(ctx, cpf)
}
