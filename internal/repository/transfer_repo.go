package repository

import (
	"context"

	"bancoapi/internal/model"

	"gorm.io/gorm"
)

// TransferRepository appends and reads the transfer log. There is no
// update or delete: transfers are immutable once committed.
type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, tx *gorm.DB, transfer *model.Transfer) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(transfer).Error
}

func (r *TransferRepository) List(ctx context.Context) ([]*model.Transfer, error) {
	var transfers []*model.Transfer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&transfers).Error
	return transfers, err
}

func (r *TransferRepository) ListBySource(ctx context.Context, cpf string) ([]*model.Transfer, error) {
	var transfers []*model.Transfer
	err := r.db.WithContext(ctx).
		Where("source_cpf = ?", cpf).
		Order("id ASC").
		Find(&transfers).Error
	return transfers, err
}

func (r *TransferRepository) ListByTarget(ctx context.Context, cpf string) ([]*model.Transfer, error) {
	var transfers []*model.Transfer
	err := r.db.WithContext(ctx).
		Where("target_cpf = ?", cpf).
		Order("id ASC").
		Find(&transfers).Error
	return transfers, err
}
