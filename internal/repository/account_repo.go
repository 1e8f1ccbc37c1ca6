package repository

import (
	"context"
	"errors"

	"bancoapi/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists for this cpf")
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create opens an account inside tx. Exactly one account may exist per
// CPF; a second open attempt is an invariant violation surfaced as
// ErrDuplicateAccount.
func (r *AccountRepository) Create(ctx context.Context, tx *gorm.DB, account *model.Account) error {
	if tx == nil {
		tx = r.db
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&model.Account{}).
		Where("cpf = ?", account.CPF).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateAccount
	}
	return tx.WithContext(ctx).Create(account).Error
}

func (r *AccountRepository) GetByCPF(ctx context.Context, cpf string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByCPFForUpdate loads an account with a row lock so concurrent
// transfers touching the same account serialize on the database.
func (r *AccountRepository) GetByCPFForUpdate(ctx context.Context, tx *gorm.DB, cpf string) (*model.Account, error) {
	var account model.Account
	err := forUpdate(tx).WithContext(ctx).
		Where("cpf = ?", cpf).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SetBalance writes an absolute balance for the locked account row. Only
// the transfer engine's transaction calls it; there is no public balance
// mutation path.
func (r *AccountRepository) SetBalance(ctx context.Context, tx *gorm.DB, cpf string, balance int64) error {
	result := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("cpf = ?", cpf).
		Update("balance", balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	var accounts []*model.Account
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) Delete(ctx context.Context, tx *gorm.DB, cpf string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("cpf = ?", cpf).Delete(&model.Account{}).Error
}

// forUpdate adds SELECT ... FOR UPDATE on MySQL. The SQLite database used
// in tests serializes writers at the database level, so the clause is
// unnecessary there and not part of its SQL dialect.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
