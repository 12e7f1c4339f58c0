package logging

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// logItem is one queued log entry, carrying the encoder that has its
// persistent With-fields already baked in. zapcore encoders are safe to
// call EncodeEntry on concurrently (each call clones internal state for
// the entry-specific fields), so sharing enc across the drain goroutine
// and whichever goroutine produced the entry is safe.
type logItem struct {
	enc    zapcore.Encoder
	ent    zapcore.Entry
	fields []zapcore.Field
}

// sink owns the buffered channel and the single goroutine that drains
// it, encoding and writing entries off the caller's hot path. Every
// asyncCore derived from the same root (via With) shares one sink.
type sink struct {
	out       zapcore.WriteSyncer
	entries   chan logItem
	wg        sync.WaitGroup
	dropped   atomic.Int64
	closeOnce sync.Once
}

func newSink(out zapcore.WriteSyncer, queueSize int) *sink {
	s := &sink{out: out, entries: make(chan logItem, queueSize)}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *sink) drain() {
	defer s.wg.Done()
	for item := range s.entries {
		buf, err := item.enc.EncodeEntry(item.ent, item.fields)
		if err != nil {
			continue
		}
		_, _ = s.out.Write(buf.Bytes())
		buf.Free()
	}
}

// push enqueues item without blocking the caller. A full queue means the
// drain goroutine is falling behind the hot path producing log records;
// rather than block pre_render/inventory-load callers on I/O, the entry
// is dropped and counted.
func (s *sink) push(item logItem) {
	select {
	case s.entries <- item:
	default:
		s.dropped.Add(1)
	}
}

// Sync closes the queue, waits for the drain goroutine to finish
// everything already enqueued, then flushes the underlying sink. Safe to
// call more than once.
func (s *sink) Sync() error {
	s.closeOnce.Do(func() { close(s.entries) })
	s.wg.Wait()
	return s.out.Sync()
}

// asyncCore is a zapcore.Core that hands every entry to a sink's queue
// instead of encoding and writing synchronously. It implements Core
// directly (rather than wrapping zapcore.NewCore) because the stock core
// writes inline on every Write call; queueing has to happen earlier.
type asyncCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	sink *sink
}

func newAsyncCore(enc zapcore.Encoder, enab zapcore.LevelEnabler, s *sink) *asyncCore {
	return &asyncCore{LevelEnabler: enab, enc: enc, sink: s}
}

func (c *asyncCore) With(fields []zapcore.Field) zapcore.Core {
	clone := c.enc.Clone()
	for _, f := range fields {
		f.AddTo(clone)
	}
	return &asyncCore{LevelEnabler: c.LevelEnabler, enc: clone, sink: c.sink}
}

func (c *asyncCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *asyncCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	c.sink.push(logItem{enc: c.enc, ent: ent, fields: fields})
	return nil
}

func (c *asyncCore) Sync() error {
	return c.sink.Sync()
}

// Dropped returns how many log entries this core's sink has discarded
// because the drain goroutine couldn't keep up.
func (c *asyncCore) Dropped() int64 {
	return c.sink.dropped.Load()
}
