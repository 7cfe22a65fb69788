package services

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fitplanhq/fitplan-backend/internal/database"
	"github.com/fitplanhq/fitplan-backend/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithConfig(logger.Config{
		Level:      logger.LevelError,
		OutputPath: "stdout",
		Format:     "text",
	}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testDBCounter atomic.Int64

// newTestDB opens a fresh named in-memory database. Shared cache keeps the
// database alive across the pooled connections gorm opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *database.User {
	t.Helper()

	user := database.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
