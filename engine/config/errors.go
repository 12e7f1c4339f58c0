package config

import "errors"

// ErrConfig is wrapped around malformed CLI tokens and config-file lines.
// Per spec.md §7 these are never fatal: the caller logs a warning, skips
// the offending entry, and keeps going.
var ErrConfig = errors.New("config: malformed entry")
