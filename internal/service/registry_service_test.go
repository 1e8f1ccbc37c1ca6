package service

import (
	"context"
	"testing"

	"bancoapi/internal/model"
	"bancoapi/internal/repository"
	"bancoapi/pkg/cpf"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		CPF:   cpf.Random(),
		Name:  "name_1",
		Phone: "+5531987654321",
		Email: "name_1@gmail.com",
	}
}

func TestRegister_CreatesClientAndAccount(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)
	ctx := context.Background()

	req := validRegisterRequest()
	client, err := registry.Register(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, req.CPF, client.CPF)
	assert.Equal(t, "name_1", client.Name)
	assert.Equal(t, "+5531987654321", client.Phone)
	assert.False(t, client.CreatedAt.IsZero())

	// Exactly one paired account, default balance, a real opaque number.
	var account model.Account
	require.NoError(t, db.Where("cpf = ?", req.CPF).First(&account).Error)
	assert.Equal(t, int64(5000), account.Balance)
	_, err = uuid.Parse(account.Number)
	assert.NoError(t, err)

	// Zero transfer history for a fresh client.
	assert.Zero(t, countRows(t, db, &model.Transfer{}))
}

func TestRegister_NormalizesLocalPhone(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)

	req := validRegisterRequest()
	req.Phone = "31987654321" // DDD + number, no country code

	client, err := registry.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "+5531987654321", client.Phone)
}

func TestRegister_DuplicateCPFLeavesAccountStoreUnchanged(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)
	ctx := context.Background()

	req := validRegisterRequest()
	_, err := registry.Register(ctx, req)
	require.NoError(t, err)

	again := validRegisterRequest()
	again.CPF = req.CPF
	_, err = registry.Register(ctx, again)
	assert.ErrorIs(t, err, repository.ErrDuplicateClient)

	assert.Equal(t, int64(1), countRows(t, db, &model.Client{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.Account{}))
}

func TestRegister_PreexistingAccountRollsBackClient(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)
	ctx := context.Background()

	req := validRegisterRequest()
	// An account with no backing client can only exist when the registry
	// was bypassed; registration for that CPF must then fail after the
	// client insert and undo it.
	err := repository.NewAccountRepository(db).Create(ctx, nil, &model.Account{
		CPF:     req.CPF,
		Number:  uuid.NewString(),
		Balance: 5000,
	})
	require.NoError(t, err)

	_, err = registry.Register(ctx, req)
	assert.ErrorIs(t, err, repository.ErrDuplicateAccount)

	// The client write from the same transaction was rolled back.
	assert.Zero(t, countRows(t, db, &model.Client{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.Account{}))
}

func TestRegister_ValidationFailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"bad check digits", func(r *RegisterRequest) { r.CPF = "11144477736" }, "cpf"},
		{"punctuated cpf", func(r *RegisterRequest) { r.CPF = "111.444.777-35" }, "cpf"},
		{"short cpf", func(r *RegisterRequest) { r.CPF = "123" }, "cpf"},
		{"empty name", func(r *RegisterRequest) { r.Name = "" }, "name"},
		{"phone without area code", func(r *RegisterRequest) { r.Phone = "987654321" }, "phone"},
		{"unparseable phone", func(r *RegisterRequest) { r.Phone = "not-a-phone" }, "phone"},
		{"bad email", func(r *RegisterRequest) { r.Email = "name_1-at-gmail" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			registry := NewRegistryService(db, testConfig(), nil)

			req := validRegisterRequest()
			tt.mutate(req)

			_, err := registry.Register(context.Background(), req)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)

			assert.Zero(t, countRows(t, db, &model.Client{}))
			assert.Zero(t, countRows(t, db, &model.Account{}))
		})
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)
	ctx := context.Background()

	req := validRegisterRequest()
	_, err := registry.Register(ctx, req)
	require.NoError(t, err)

	updated, err := registry.Update(ctx, req.CPF, &UpdateRequest{Name: "name_2"})
	require.NoError(t, err)
	assert.Equal(t, "name_2", updated.Name)
	assert.Equal(t, req.Email, updated.Email, "untouched fields keep their value")

	_, err = registry.Update(ctx, req.CPF, &UpdateRequest{Email: "nonsense"})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdate_UnknownClient(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)

	_, err := registry.Update(context.Background(), cpf.Random(), &UpdateRequest{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrClientNotFound)
}

func TestDelete_CascadesAccountKeepsTransfers(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	registry := NewRegistryService(db, cfg, nil)
	engine := NewTransferService(db, cfg, nil)
	ctx := context.Background()

	source := validRegisterRequest()
	target := validRegisterRequest()
	_, err := registry.Register(ctx, source)
	require.NoError(t, err)
	_, err = registry.Register(ctx, target)
	require.NoError(t, err)

	_, err = engine.Execute(ctx, &TransferRequest{
		SourceCPF: source.CPF, TargetCPF: target.CPF, Amount: 10,
	})
	require.NoError(t, err)

	require.NoError(t, registry.Delete(ctx, source.CPF))

	assert.Equal(t, int64(1), countRows(t, db, &model.Client{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.Account{}))
	// The transfer log is independent history and survives the client.
	assert.Equal(t, int64(1), countRows(t, db, &model.Transfer{}))
}

func TestDelete_UnknownClient(t *testing.T) {
	db := newTestDB(t)
	registry := NewRegistryService(db, testConfig(), nil)

	err := registry.Delete(context.Background(), cpf.Random())
	assert.ErrorIs(t, err, repository.ErrClientNotFound)
}
