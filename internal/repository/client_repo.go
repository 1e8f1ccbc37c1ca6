package repository

import (
	"context"
	"errors"

	"bancoapi/internal/model"

	"gorm.io/gorm"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("client already registered for this cpf")
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client inside tx, failing if the CPF is taken.
func (r *ClientRepository) Create(ctx context.Context, tx *gorm.DB, client *model.Client) error {
	if tx == nil {
		tx = r.db
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&model.Client{}).
		Where("cpf = ?", client.CPF).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateClient
	}
	return tx.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) GetByCPF(ctx context.Context, cpf string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*model.Client, error) {
	var clients []*model.Client
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&clients).Error
	return clients, err
}

// Update persists the mutable client fields. The CPF never changes.
func (r *ClientRepository) Update(ctx context.Context, tx *gorm.DB, client *model.Client) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&model.Client{}).
		Where("cpf = ?", client.CPF).
		Updates(map[string]interface{}{
			"name":  client.Name,
			"phone": client.Phone,
			"email": client.Email,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, tx *gorm.DB, cpf string) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Where("cpf = ?", cpf).Delete(&model.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
