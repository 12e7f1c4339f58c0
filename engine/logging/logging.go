// Package logging builds the engine's process-wide *zap.Logger, backed
// by a background goroutine that drains a buffered channel of log
// entries. Hot paths (Inventory loads, GraphicsSystem pre_render
// closures) call straight into zap as usual; the async core is what
// keeps those calls from blocking on the underlying sink's I/O.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/badke/saberrender/engine/config"
)

// DefaultQueueSize is used when Config.QueueSize is zero.
const DefaultQueueSize = 1024

// Config selects the logger's encoding, level, and sink.
type Config struct {
	// Development switches to a human-readable console encoder at debug
	// level, mirroring zap.NewDevelopment. The zero value (false) gives
	// JSON output at info level, mirroring zap.NewProduction.
	Development bool

	// QueueSize bounds how many log entries may be in flight before the
	// drain goroutine starts falling behind and entries are dropped.
	QueueSize int

	// Output overrides where encoded entries are written. Defaults to
	// os.Stdout; tests substitute an in-memory WriteSyncer.
	Output zapcore.WriteSyncer
}

// Logger wraps the *zap.Logger New builds, exposing the async core's
// drop counter alongside it. The *zap.Logger is embedded, so its
// logging methods are callable on a Logger directly; components that
// accept a plain *zap.Logger (rendersystem, frameloop, config all take
// WithLogger(*zap.Logger)) are passed the embedded log.Logger field.
type Logger struct {
	*zap.Logger
	core *asyncCore
}

// Dropped returns how many log entries were discarded because the
// drain goroutine couldn't keep up with the queue.
func (l *Logger) Dropped() int64 { return l.core.Dropped() }

// New builds a Logger per cfg. The returned Logger's Sync drains every
// entry already queued and flushes the underlying sink; callers should
// defer it at startup.
func New(cfg Config) *Logger {
	level := zapcore.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	var enc zapcore.Encoder = zapcore.NewJSONEncoder(encCfg)

	if cfg.Development {
		level = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	out := cfg.Output
	if out == nil {
		out = zapcore.AddSync(os.Stdout)
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	core := newAsyncCore(enc, level, newSink(out, queueSize))
	return &Logger{Logger: zap.New(core), core: core}
}

// NewFromConfig builds a Logger using the engine's config.Store: debug
// level above zero selects Development mode, the way the teacher's
// debugLevel key gates verbose console output.
func NewFromConfig(store *config.Store) *Logger {
	cfg := Config{}
	if dl, ok := store.GetInt(config.KeyDebugLevel); ok && dl > 0 {
		cfg.Development = true
	}
	return New(cfg)
}
