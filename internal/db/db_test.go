package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/model"
)

func TestDialector(t *testing.T) {
	testCases := []struct {
		driver  string
		name    string
		wantErr bool
	}{
		{driver: "sqlite", name: "sqlite"},
		{driver: "", name: "sqlite"},
		{driver: "postgres", name: "postgres"},
		{driver: "mysql", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.driver, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tc.driver, DSN: "x"})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.name, d.Name())
		})
	}
}

func TestInit_SQLiteMigrates(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "gymd.db"),
		MaxOpenConns: 1,
	}

	gormDB, err := Init(cfg)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.True(t, gormDB.Migrator().HasTable(&model.CapacitySnapshot{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.PushSubscription{}))
	assert.True(t, gormDB.Migrator().HasIndex(&model.PushSubscription{}, "ThresholdPercent"))
}
