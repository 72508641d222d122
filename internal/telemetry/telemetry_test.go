package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesJSONToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := InitLogger(dir, true)
	require.NoError(t, err)

	logger.Debug("navigated", "path", "/runs")

	data, err := os.ReadFile(filepath.Join(dir, "rocket.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"navigated"`)
	assert.Contains(t, string(data), `"path":"/runs"`)
}

func TestInstrumentsOrGlobal(t *testing.T) {
	in := Instruments{}.OrGlobal()
	require.NotNil(t, in.Tracer)
	require.NotNil(t, in.Meter)

	// no-op providers must accept recordings
	in.RecordDuration(context.Background(), time.Now())
	in.Count(context.Background(), "rocket.test.events", "test counter")
}
