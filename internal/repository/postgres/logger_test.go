package postgres_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/dom/tutorial-blog/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logger.LogLevel
	}{
		{"debug", logger.Info},
		{"info", logger.Warn},
		{"warn", logger.Warn},
		{"error", logger.Error},
		{"", logger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, postgres.LogLevel(tt.level))
		})
	}
}

func TestNewLogger_WritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	gormLog := postgres.NewLogger(log, logger.Warn)
	gormLog.Error(context.Background(), "connection refused")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record), "gorm output must be a slog JSON record: %q", buf.String())
	assert.Equal(t, "gorm", record["component"])
	assert.Contains(t, record["msg"], "connection refused")
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	gormLog := postgres.NewLogger(log, logger.Error)
	gormLog.Warn(context.Background(), "slow query")

	assert.Empty(t, buf.String())
}
