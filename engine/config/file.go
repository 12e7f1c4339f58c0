package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/badke/saberrender/common/hashkey"
)

// Load reads a persisted config file written by Save: one `set <key>
// <value>` or `bind <key> <char-or-string>` directive per line, blank
// lines and `#`-prefixed comments ignored. A missing file is not an
// error — the store just gets built-in defaults. Malformed lines are
// logged and skipped (ConfigError policy). Once the file is consumed,
// ApplyDefaults fills in any key the file and prior Set calls left unset.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		s.ApplyDefaults()
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.parseFileLine(line); err != nil {
			s.log.Warn("skipping malformed config line", zap.String("line", line), zap.Error(err))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	s.ApplyDefaults()
	return nil
}

func (s *Store) parseFileLine(line string) error {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return fmt.Errorf("%w: %q", ErrConfig, line)
	}
	verb, key := parts[0], parts[1]

	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, parts[0]))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))

	switch strings.ToLower(verb) {
	case "set":
		s.Set(key, parseFileValue(rest), Persistent)
	case "bind":
		s.Set(key, unquote(rest), Persistent)
	default:
		return fmt.Errorf("%w: unknown directive %q", ErrConfig, verb)
	}
	return nil
}

func parseFileValue(rest string) any {
	switch rest {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(rest); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(rest, 64); err == nil {
		return f
	}
	return unquote(rest)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Save writes every Persistent-classified entry to path as `set`/`bind`
// lines, creating the containing directory if needed. Runtime-classified
// entries (CLI overrides) are skipped per spec.md §6.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	keys := make([]hashkey.HashKey, 0, len(s.entries))
	for k, e := range s.entries {
		if e.classification == Persistent {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return s.names[keys[i]] < s.names[keys[j]] })

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(formatLine(s.names[k], s.entries[k].value))
		b.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func formatLine(name string, value any) string {
	switch v := value.(type) {
	case bool:
		return fmt.Sprintf("set %s %t", name, v)
	case int:
		return fmt.Sprintf("set %s %d", name, v)
	case float64:
		return fmt.Sprintf("set %s %g", name, v)
	case rune:
		return fmt.Sprintf("bind %s %q", name, string(v))
	case string:
		return fmt.Sprintf("set %s %q", name, v)
	default:
		return fmt.Sprintf("set %s %v", name, v)
	}
}
