package config

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/badke/saberrender/engine/events"
	"github.com/badke/saberrender/engine/eventbus"
)

// ParseArgs parses the space-separated `-key value` CLI grammar described
// by spec.md §6: every value is auto-typed (numeric, true/false, a single
// rune, otherwise a plain string) and stored as Runtime. `-import <path>`
// is repeatable and posts a FileImportRequest event per occurrence rather
// than setting a key. Malformed tokens are logged and skipped; per the
// ConfigError policy this never aborts the remaining parse.
func (s *Store) ParseArgs(args []string) {
	i := 0
	for i < len(args) {
		tok := args[i]
		i++

		if !strings.HasPrefix(tok, "-") || len(tok) < 2 {
			s.log.Warn("skipping malformed CLI token, expected -key", zap.String("token", tok))
			continue
		}
		key := tok[1:]

		if strings.EqualFold(key, "import") {
			if i >= len(args) {
				s.log.Warn("-import requires a path argument")
				break
			}
			path := args[i]
			i++
			if s.bus != nil {
				s.bus.Post(eventbus.Info{Kind: events.FileImportRequest, Data: path})
			}
			continue
		}

		if i >= len(args) {
			s.log.Warn("skipping CLI key with no value", zap.String("key", key))
			break
		}
		raw := args[i]
		i++
		s.Set(key, parseCLIValue(raw), Runtime)
	}
}

func parseCLIValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		return r
	}
	return raw
}
