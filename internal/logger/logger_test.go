package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "WARN", Format: "json", Output: &buf}))
	ctx := context.Background()

	Info(ctx, "hidden")
	Warn(ctx, "shown", "symbol", "AAPL")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"symbol":"AAPL"`)
}

// lockedBuffer is written by the span exporter goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestOperationTimer_WithTracing(t *testing.T) {
	buf := &lockedBuffer{}
	require.NoError(t, Init(Config{Level: "DEBUG", Format: "text", Tracing: true, Output: buf}))
	t.Cleanup(func() {
		_ = Shutdown(context.Background())
		tracingEnabled = false
	})

	op := StartOperation(context.Background(), "analyze", "symbol", "MSFT", "bars", 30)
	Info(op.Context(), "inside")
	op.EndWithError(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "trace_id=")
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
