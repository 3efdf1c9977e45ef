// Package options provides data structures and functions for configuring
// the kvs engine. It defines the parameters that control storage behavior,
// compaction cadence, and directory layout.
package options

import (
	"strings"
	"time"
)

// Options defines the configuration parameters for a kvs engine instance.
// It provides control over storage location and compaction behavior.
type Options struct {
	// Specifies the base path where segment files are stored.
	//
	// Default: "/var/lib/kvs"
	DataDir string `json:"dataDir"`

	// Defines how often the background compaction monitor wakes up to
	// check whether compaction is warranted, independent of the
	// signal the writer sends once the uncompacted-byte counter reaches
	// CompactionThreshold.
	//
	// Default: 5h
	CompactInterval time.Duration `json:"compactInterval"`

	// CompactionThreshold is the number of uncompacted bytes that, once
	// reached or exceeded, triggers compaction (spec §4.7's
	// MAX_WAL_SIZE_THRESHOLD).
	//
	// Default: 1 MiB
	CompactionThreshold uint64 `json:"compactionThreshold"`
}

// OptionFunc is a function type that modifies the engine's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration
// values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactInterval = opts.CompactInterval
		o.CompactionThreshold = opts.CompactionThreshold
	}
}

// WithDataDir sets the primary data directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactInterval sets the interval at which the background compaction
// monitor checks whether compaction is warranted.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// WithCompactionThreshold sets the uncompacted-byte threshold that triggers
// compaction.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.CompactionThreshold = threshold
		}
	}
}
