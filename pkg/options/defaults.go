package options

import "time"

const (
	// DefaultDataDir specifies the default base directory where kvs will
	// store its segment files. If no other directory is
	// specified during initialization, this path is used.
	DefaultDataDir = "/var/lib/kvs"

	// DefaultCompactInterval defines the default time between background
	// compaction-monitor wakeups.
	DefaultCompactInterval = time.Hour * 5

	// DefaultCompactionThreshold is spec §4.7's MAX_WAL_SIZE_THRESHOLD: the
	// number of uncompacted bytes that triggers compaction.
	DefaultCompactionThreshold uint64 = 1 << 20 // 1 MiB
)

// defaultOptions holds the default configuration settings for a kvs engine
// instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactInterval:     DefaultCompactInterval,
	CompactionThreshold: DefaultCompactionThreshold,
}

// NewDefaultOptions returns a copy of the default engine options.
func NewDefaultOptions() Options {
	return defaultOptions
}
