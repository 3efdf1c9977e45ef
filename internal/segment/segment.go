// Package segment names, parses, and discovers the on-disk segment files
// that make up a kvs data directory. Every segment is a file named
// wal_<N>.log where N is a strictly positive, monotonically assigned
// integer; gaps between numbers are permitted (compaction skips numbers).
//
// This generalizes the teacher's pkg/seginfo, which named segments
// prefix_NNNNN_timestamp.seg, a format this spec's fixed on-disk layout
// does not use, down to the wal_<N>.log naming spec.md §3/§6 requires.
package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/iamNilotpal/kvs/pkg/errors"
)

// filePattern matches exactly the segment filenames this engine creates:
// wal_<digits>.log, with no leading zeros required or rejected (spec.md
// §3 only requires N to parse as an unsigned integer).
var filePattern = regexp.MustCompile(`^wal_([0-9]+)\.log$`)

// Name returns the canonical filename for segment number n.
func Name(n uint64) string {
	return fmt.Sprintf("wal_%d.log", n)
}

// Path joins dir with the canonical filename for segment number n.
func Path(dir string, n uint64) string {
	return filepath.Join(dir, Name(n))
}

// Parse extracts the segment number from a filename (not a full path). It
// returns false for any name that doesn't match wal_<digits>.log exactly,
// so that a directory scan can silently ignore unrelated files per
// spec.md §4.2.
func Parse(name string) (uint64, bool) {
	m := filePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// List scans dir for files matching wal_<N>.log and returns their segment
// numbers sorted ascending. Non-matching entries are ignored. An empty or
// missing directory yields an empty, non-nil slice.
func List(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []uint64{}, nil
		}
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segment directory").
			WithPath(dir)
	}

	nums := make([]uint64, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := Parse(e.Name()); ok {
			nums = append(nums, n)
		}
	}

	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums, nil
}
