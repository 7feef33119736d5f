package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"picfolio/db"
	"picfolio/internal/config"
)

func SetupTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	testDB, err := sql.Open("sqlite3", db.DSN(dbPath))
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	t.Cleanup(func() { testDB.Close() })
	return testDB
}

func SetupTestRepositoryFactory(t *testing.T) *db.RepositoryFactory {
	t.Helper()
	return db.NewRepositoryFactory(SetupTestDatabase(t), "picfolio_test")
}

// SetupTestDBManager starts a write manager that stops with the test.
func SetupTestDBManager(t *testing.T) *db.DBManager {
	t.Helper()
	m := db.NewDBManager()
	t.Cleanup(m.Stop)
	return m
}

func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Port:              "0",
		ListenHost:        "127.0.0.1",
		DatabaseName:      "picfolio_test",
		SQLitePath:        filepath.Join(root, "test.db"),
		UploadDir:         filepath.Join(root, "uploads"),
		AllowedExtensions: append([]string(nil), config.DefaultAllowedExtensions...),
		ThumbnailSize:     200,
		MaxUploadBytes:    8 << 20,
		SessionDir:        filepath.Join(root, "sessions"),
		SessionSecret:     []byte("test_session_secret_for_testing_only"),
		SessionMaxAge:     3600,
		WordList:          append([]string(nil), config.DefaultWordList...),
		MaxAttempts:       6,
		LogLevel:          "debug",
		LogFormat:         "console",
	}
}
