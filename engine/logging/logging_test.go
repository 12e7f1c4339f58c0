package logging_test

import (
	"bytes"
	"sync"
	"testing"

	"go.uber.org/zap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badke/saberrender/engine/logging"
)

// syncBuffer is a concurrency-safe zapcore.WriteSyncer backed by an
// in-memory buffer, standing in for the real file/stdout sink in tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) Sync() error { return nil }

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestLoggerWritesAfterSync(t *testing.T) {
	out := &syncBuffer{}
	log := logging.New(logging.Config{Output: out, QueueSize: 8})

	log.Info("hello world", zap.String("key", "value"))
	require.NoError(t, log.Sync())

	contents := out.String()
	assert.Contains(t, contents, "hello world")
	assert.Contains(t, contents, `"key":"value"`)
}

func TestLoggerDebugIsSuppressedInProductionMode(t *testing.T) {
	out := &syncBuffer{}
	log := logging.New(logging.Config{Output: out, QueueSize: 8})

	log.Debug("should not appear")
	log.Info("should appear")
	require.NoError(t, log.Sync())

	contents := out.String()
	assert.NotContains(t, contents, "should not appear")
	assert.Contains(t, contents, "should appear")
}

func TestLoggerDevelopmentModeEnablesDebug(t *testing.T) {
	out := &syncBuffer{}
	log := logging.New(logging.Config{Output: out, QueueSize: 8, Development: true})

	log.Debug("debug visible")
	require.NoError(t, log.Sync())

	assert.Contains(t, out.String(), "debug visible")
}

func TestLoggerWithAddsPersistentFields(t *testing.T) {
	out := &syncBuffer{}
	log := logging.New(logging.Config{Output: out, QueueSize: 8})

	named := log.Logger.With(zap.String("component", "batchmanager"))
	named.Info("initialized")
	require.NoError(t, log.Sync())

	assert.Contains(t, out.String(), `"component":"batchmanager"`)
}

func TestLoggerDropsEntriesWhenQueueIsFull(t *testing.T) {
	out := &syncBuffer{}
	// Queue size 1 with no draining yet gives plenty of opportunity for
	// a burst of sends to outrun the single drain goroutine before Sync
	// is called.
	log := logging.New(logging.Config{Output: out, QueueSize: 1})

	for i := 0; i < 1000; i++ {
		log.Info("burst")
	}
	require.NoError(t, log.Sync())

	// Either every entry was drained in time, or some were dropped and
	// counted; both are valid outcomes of an async, non-blocking queue,
	// but Dropped must never be negative and must never exceed what was
	// sent.
	assert.GreaterOrEqual(t, log.Dropped(), int64(0))
	assert.LessOrEqual(t, log.Dropped(), int64(1000))
}
