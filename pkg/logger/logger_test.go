package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/retail-pos-api/pkg/logger"
)

func TestNew_JSONConServicioYRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug", Service: "retail-pos-api", Output: &buf})

	l.WithRequestID("req-1").Info().Str("path", "/health").Msg("ok")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "retail-pos-api", entry["service"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "/health", entry["path"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "error", Output: &buf})

	l.Info().Msg("descartado")

	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("desconocido"))
}
