package service

import (
	"context"
	"fmt"
	"log"

	"bancoapi/internal/config"
	"bancoapi/internal/infrastructure/cache"
	"bancoapi/internal/model"
	"bancoapi/internal/repository"
	"bancoapi/pkg/cpf"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"gorm.io/gorm"
)

// phoneRegion is the region clients' phone numbers must belong to.
const phoneRegion = "BR"

// RegistryService registers, updates and removes clients. Registration
// opens the client's single account in the same transaction; deletion
// removes it the same way. Transfers are never touched here.
type RegistryService struct {
	db           *gorm.DB
	cfg          *config.Config
	clientRepo   *repository.ClientRepository
	accountRepo  *repository.AccountRepository
	accountCache *cache.AccountCache
	validate     *validator.Validate
}

func NewRegistryService(db *gorm.DB, cfg *config.Config, accountCache *cache.AccountCache) *RegistryService {
	return &RegistryService{
		db:           db,
		cfg:          cfg,
		clientRepo:   repository.NewClientRepository(db),
		accountRepo:  repository.NewAccountRepository(db),
		accountCache: accountCache,
		validate:     validator.New(),
	}
}

type RegisterRequest struct {
	CPF   string
	Name  string
	Phone string
	Email string
}

type UpdateRequest struct {
	Name  string
	Phone string
	Email string
}

// Register validates all fields, then creates the client and its account
// in one transaction. Either both rows commit or neither does.
func (s *RegistryService) Register(ctx context.Context, req *RegisterRequest) (*model.Client, error) {
	if !cpf.Valid(req.CPF) {
		return nil, invalidField("cpf", "must be 11 digits with valid check digits")
	}
	if req.Name == "" {
		return nil, invalidField("name", "must not be empty")
	}
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}

	client := &model.Client{
		CPF:   req.CPF,
		Name:  req.Name,
		Phone: phone,
		Email: req.Email,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.clientRepo.Create(ctx, tx, client); err != nil {
			return err
		}
		account := &model.Account{
			CPF:     req.CPF,
			Number:  uuid.NewString(),
			Balance: s.cfg.Business.InitialBalance,
		}
		if err := s.accountRepo.Create(ctx, tx, account); err != nil {
			return fmt.Errorf("failed to open account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("client registered: cpf=%s", client.CPF)
	return client, nil
}

// Update applies a partial update to the mutable client fields. Empty
// fields keep their stored value; the CPF is immutable.
func (s *RegistryService) Update(ctx context.Context, clientCPF string, req *UpdateRequest) (*model.Client, error) {
	client, err := s.clientRepo.GetByCPF(ctx, clientCPF)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.Phone != "" {
		phone, err := s.normalizePhone(req.Phone)
		if err != nil {
			return nil, err
		}
		client.Phone = phone
	}
	if req.Email != "" {
		if err := s.validateEmail(req.Email); err != nil {
			return nil, err
		}
		client.Email = req.Email
	}

	if err := s.clientRepo.Update(ctx, nil, client); err != nil {
		return nil, err
	}
	s.accountCache.Invalidate(ctx, clientCPF)
	return client, nil
}

// Delete removes the client and its account in one transaction. The
// transfer log is an independent history and keeps its rows.
func (s *RegistryService) Delete(ctx context.Context, clientCPF string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.Delete(ctx, tx, clientCPF); err != nil {
			return err
		}
		return s.clientRepo.Delete(ctx, tx, clientCPF)
	})
	if err != nil {
		return err
	}
	s.accountCache.Invalidate(ctx, clientCPF)
	log.Printf("client removed: cpf=%s", clientCPF)
	return nil
}

func (s *RegistryService) normalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", invalidField("phone", "must not be empty")
	}
	num, err := phonenumbers.Parse(raw, phoneRegion)
	if err != nil {
		return "", invalidField("phone", "must be a parseable phone number")
	}
	if !phonenumbers.IsValidNumberForRegion(num, phoneRegion) {
		return "", invalidField("phone", "must be a valid BR number with area code")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func (s *RegistryService) validateEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return invalidField("email", "must be a valid address")
	}
	return nil
}
