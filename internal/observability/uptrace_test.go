package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/riskibarqy/fixture-results/internal/config"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "fixture-results",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	var buf bytes.Buffer
	shutdown, err := InitUptrace(cfg, logging.NewJSONWriter(&buf, logging.LevelInfo))
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "UPTRACE_ENABLED=false")
}

func TestInitUptrace_EmptyDSN(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: true,
		UptraceDSN:     "  ",
		ServiceName:    "fixture-results",
	}

	var buf bytes.Buffer
	shutdown, err := InitUptrace(cfg, logging.NewJSONWriter(&buf, logging.LevelInfo))
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "UPTRACE_DSN empty")
}

func TestInitUptrace_NilLogger(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, shutdown)
}
