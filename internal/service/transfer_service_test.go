package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"bancoapi/internal/config"
	"bancoapi/internal/model"
	"bancoapi/internal/repository"
	"bancoapi/pkg/cpf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedPair registers two clients, each with the default 5000 balance.
func seedPair(t *testing.T, db *gorm.DB, cfg *config.Config) (string, string) {
	t.Helper()
	registry := NewRegistryService(db, cfg, nil)
	ctx := context.Background()

	source := validRegisterRequest()
	target := validRegisterRequest()
	_, err := registry.Register(ctx, source)
	require.NoError(t, err)
	_, err = registry.Register(ctx, target)
	require.NoError(t, err)
	return source.CPF, target.CPF
}

func TestExecute_MovesBalanceAndAppendsRecord(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, targetCPF := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)

	transfer, err := engine.Execute(context.Background(), &TransferRequest{
		SourceCPF: sourceCPF,
		TargetCPF: targetCPF,
		Amount:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4990), accountBalance(t, db, sourceCPF))
	assert.Equal(t, int64(5010), accountBalance(t, db, targetCPF))

	assert.NotZero(t, transfer.ID)
	assert.True(t, strings.HasPrefix(transfer.ReferenceNo, "TRF"))
	assert.Equal(t, sourceCPF, transfer.SourceCPF)
	assert.Equal(t, targetCPF, transfer.TargetCPF)
	assert.Equal(t, int64(10), transfer.Amount)
	assert.False(t, transfer.CreatedAt.IsZero())

	assert.Equal(t, int64(1), countRows(t, db, &model.Transfer{}))
}

func TestExecute_NotIdempotentAcrossRetries(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, targetCPF := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)
	ctx := context.Background()

	req := &TransferRequest{SourceCPF: sourceCPF, TargetCPF: targetCPF, Amount: 10}
	_, err := engine.Execute(ctx, req)
	require.NoError(t, err)

	// Resubmitting the identical request creates a second transfer; the
	// engine does no deduplication.
	_, err = engine.Execute(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, int64(2), countRows(t, db, &model.Transfer{}))
	assert.Equal(t, int64(4980), accountBalance(t, db, sourceCPF))
	assert.Equal(t, int64(5020), accountBalance(t, db, targetCPF))
}

func TestExecute_SameAccountAlwaysRejected(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, _ := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)
	ctx := context.Background()

	for _, amount := range []int64{1, 5000, 8000} {
		_, err := engine.Execute(ctx, &TransferRequest{
			SourceCPF: sourceCPF, TargetCPF: sourceCPF, Amount: amount,
		})
		// Same-account wins even when the amount would also fail the
		// funds check.
		assert.ErrorIs(t, err, ErrSameAccount)
	}

	assert.Zero(t, countRows(t, db, &model.Transfer{}))
	assert.Equal(t, int64(5000), accountBalance(t, db, sourceCPF))
}

func TestExecute_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, targetCPF := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)

	_, err := engine.Execute(context.Background(), &TransferRequest{
		SourceCPF: sourceCPF, TargetCPF: targetCPF, Amount: 8000,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Zero(t, countRows(t, db, &model.Transfer{}))
	assert.Zero(t, countRows(t, db, &model.OutboxMessage{}))
	assert.Equal(t, int64(5000), accountBalance(t, db, sourceCPF))
	assert.Equal(t, int64(5000), accountBalance(t, db, targetCPF))
}

func TestExecute_FullBalanceAllowed(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, targetCPF := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)

	// Equal amount and balance passes: only strictly greater is rejected.
	_, err := engine.Execute(context.Background(), &TransferRequest{
		SourceCPF: sourceCPF, TargetCPF: targetCPF, Amount: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), accountBalance(t, db, sourceCPF))
	assert.Equal(t, int64(10000), accountBalance(t, db, targetCPF))
}

func TestExecute_UnknownAccountIsTypedNotFound(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, _ := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)

	_, err := engine.Execute(context.Background(), &TransferRequest{
		SourceCPF: sourceCPF, TargetCPF: cpf.Random(), Amount: 10,
	})
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	assert.Zero(t, countRows(t, db, &model.Transfer{}))
	assert.Equal(t, int64(5000), accountBalance(t, db, sourceCPF))
}

func TestExecute_StructuralValidation(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, targetCPF := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *TransferRequest
	}{
		{"zero amount", &TransferRequest{SourceCPF: sourceCPF, TargetCPF: targetCPF, Amount: 0}},
		{"negative amount", &TransferRequest{SourceCPF: sourceCPF, TargetCPF: targetCPF, Amount: -10}},
		{"missing source", &TransferRequest{TargetCPF: targetCPF, Amount: 10}},
		{"bad source cpf", &TransferRequest{SourceCPF: "111.444.777-35", TargetCPF: targetCPF, Amount: 10}},
		{"bad target cpf", &TransferRequest{SourceCPF: sourceCPF, TargetCPF: "nonsense", Amount: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Execute(ctx, tt.req)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	assert.Zero(t, countRows(t, db, &model.Transfer{}))
}

func TestExecute_WritesOutboxRowAtomically(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	sourceCPF, targetCPF := seedPair(t, db, cfg)
	engine := NewTransferService(db, cfg, nil)

	transfer, err := engine.Execute(context.Background(), &TransferRequest{
		SourceCPF: sourceCPF, TargetCPF: targetCPF, Amount: 10,
	})
	require.NoError(t, err)

	var msg model.OutboxMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, model.OutboxStatusPending, msg.Status)
	assert.Equal(t, transfer.ReferenceNo, msg.MessageKey)
	assert.Equal(t, "banco.transfer.completed", msg.Topic)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.Equal(t, sourceCPF, payload["source_cpf"])
	assert.Equal(t, targetCPF, payload["target_cpf"])
	assert.Equal(t, float64(10), payload["value"])
}
