package service

import (
	"fmt"
	"testing"

	"bancoapi/internal/config"
	"bancoapi/internal/infrastructure/database"
	"bancoapi/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full
// schema. cache=shared keeps the database alive across the pool's
// connections; the uuid keeps it private to the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Business.InitialBalance = config.DefaultInitialBalance
	cfg.Business.MaxRetryCount = 3
	cfg.Kafka.Topic.TransferCompleted = "banco.transfer.completed"
	return cfg
}

// countRows counts all rows of the given entity.
func countRows(t *testing.T, db *gorm.DB, entity interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(entity).Count(&count).Error)
	return count
}

func accountBalance(t *testing.T, db *gorm.DB, cpf string) int64 {
	t.Helper()
	var account model.Account
	require.NoError(t, db.Where("cpf = ?", cpf).First(&account).Error)
	return account.Balance
}
