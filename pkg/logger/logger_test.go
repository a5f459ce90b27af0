package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cashback-ledger/pkg/config"
)

func TestNewReplacesGlobals(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	log := New(ConfigParams{Cfg: &config.Config{AppEnv: "development", AppName: "cashback-ledger"}})
	require.NotNil(t, log)
	require.Same(t, log, zap.L())
}

func TestProductionConfigUsesJSON(t *testing.T) {
	cfg := productionConfig()
	require.Equal(t, "json", cfg.Encoding)
	require.Equal(t, "severity", cfg.EncoderConfig.LevelKey)
	require.Equal(t, "timestamp", cfg.EncoderConfig.TimeKey)
}
