package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"structiv/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	db := setupTestDB(t)
	seedUnit(t, db, "Unit 1", "Available")

	storagePath := filepath.Join(t.TempDir(), "backups")
	cfg := config.BackupConfig{
		Enabled:       true,
		StoragePath:   storagePath,
		RetentionDays: 1,
	}
	logger := zerolog.New(io.Discard)
	s := NewBackupService(db, cfg, &logger)

	t.Run("PerformBackup", func(t *testing.T) {
		require.NoError(t, s.PerformBackup(context.Background()))

		files, err := os.ReadDir(storagePath)
		require.NoError(t, err)
		require.Len(t, files, 1)

		backup, err := NewDB(config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(storagePath, files[0].Name()),
		}, &logger)
		require.NoError(t, err)
		defer backup.Close()

		units, err := backup.ListUnits(context.Background())
		require.NoError(t, err)
		assert.Len(t, units, 1)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		oldFile := filepath.Join(storagePath, "structiv_old.db")
		require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))

		oldTime := time.Now().AddDate(0, 0, -2)
		require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

		s.CleanupOldBackups()

		files, err := os.ReadDir(storagePath)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.NotEqual(t, "structiv_old.db", files[0].Name())
	})
}

func TestBackupService_Disabled(t *testing.T) {
	db := setupTestDB(t)
	logger := zerolog.Nop()
	s := NewBackupService(db, config.BackupConfig{Enabled: false}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
}
