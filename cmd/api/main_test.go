package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Syncされたかを記録する出力先
type syncRecorder struct {
	bytes.Buffer
	synced bool
}

func (s *syncRecorder) Sync() error {
	s.synced = true
	return nil
}

func newRecordedLogger(out *syncRecorder) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), zapcore.DebugLevel))
}

func TestExitCode_ErrorIsLoggedAndFlushed(t *testing.T) {
	var out syncRecorder
	code := exitCode(newRecordedLogger(&out), errors.New("listen tcp :8080: address already in use"))

	assert.Equal(t, 1, code)
	assert.True(t, out.synced)
	assert.Contains(t, out.String(), "server exited")
	assert.Contains(t, out.String(), "address already in use")
}

func TestExitCode_CleanShutdown(t *testing.T) {
	var out syncRecorder
	code := exitCode(newRecordedLogger(&out), nil)

	assert.Equal(t, 0, code)
	assert.True(t, out.synced)
	assert.Empty(t, out.String())
}
