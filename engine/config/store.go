// Package config implements the engine's typed key/value configuration
// store: CLI-token parsing, line-based file persistence under a Config/
// directory, and built-in defaults applied on load. Keys are matched
// case-insensitively via hashkey.HashKey, mirroring the rest of the
// render-graph core's string-keyed lookups.
package config

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/events"
	"github.com/badke/saberrender/engine/eventbus"
)

// Classification controls whether Save persists a key. CLI overrides are
// Runtime by default so a one-off `-debugLevel 3` on the command line
// never leaks into the saved config file; values loaded from or written
// through the file (`set`/`bind` lines) are Persistent.
type Classification int

const (
	Runtime Classification = iota
	Persistent
)

type entry struct {
	value          any
	classification Classification
}

// Store holds the engine's configuration as a flat map of lowercased
// HashKeys to typed values, guarded by a single RWMutex. It doubles as
// the built-in-defaults registry consulted by Load.
type Store struct {
	mu sync.RWMutex

	entries map[hashkey.HashKey]entry
	names   map[hashkey.HashKey]string // original-case spelling, for Save/logging

	defaults     map[hashkey.HashKey]entry
	defaultNames map[hashkey.HashKey]string

	bus *eventbus.Bus
	log *zap.Logger
}

// Option customizes New.
type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates an empty Store. bus may be nil, in which case ConfigSetValue
// and FileImportRequest events are never posted.
func New(bus *eventbus.Bus, opts ...Option) *Store {
	s := &Store{
		entries:      make(map[hashkey.HashKey]entry),
		names:        make(map[hashkey.HashKey]string),
		defaults:     make(map[hashkey.HashKey]entry),
		defaultNames: make(map[hashkey.HashKey]string),
		bus:          bus,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalize(key string) hashkey.HashKey {
	return hashkey.New(strings.ToLower(key))
}

// Set stores value under key with the given classification, posting a
// ConfigSetValue event if the store has a bus attached.
func (s *Store) Set(key string, value any, class Classification) {
	k := normalize(key)

	s.mu.Lock()
	s.entries[k] = entry{value: value, classification: class}
	s.names[k] = key
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Post(eventbus.Info{Kind: events.ConfigSetValue, Data: key})
	}
}

// RegisterDefault records value as key's built-in default, applied by
// Load for any key the loaded file or prior Set calls didn't populate.
// It does not itself set the live value.
func (s *Store) RegisterDefault(key string, value any, class Classification) {
	k := normalize(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[k] = entry{value: value, classification: class}
	s.defaultNames[k] = key
}

// ApplyDefaults populates any key present in the defaults registry but
// absent from the live entries. Load calls this automatically; exposed
// for callers that build a Store without a config file on disk.
func (s *Store) ApplyDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.defaults {
		if _, exists := s.entries[k]; !exists {
			s.entries[k] = e
			s.names[k] = s.defaultNames[k]
		}
	}
}

// Has reports whether key has a live value (set explicitly or via a
// default).
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[normalize(key)]
	return ok
}

func get[T any](s *Store, key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	e, ok := s.entries[normalize(key)]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

func (s *Store) GetString(key string) (string, bool) { return get[string](s, key) }
func (s *Store) GetInt(key string) (int, bool)        { return get[int](s, key) }
func (s *Store) GetBool(key string) (bool, bool)      { return get[bool](s, key) }
func (s *Store) GetFloat(key string) (float64, bool)  { return get[float64](s, key) }

// GetRune reads a single-character value, the type CLI parsing assigns
// to one-character values. `bind` lines from a config file are stored as
// strings, so GetString reads those.
func (s *Store) GetRune(key string) (rune, bool) { return get[rune](s, key) }
