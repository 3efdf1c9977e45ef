// Package engine exposes the storage engine's public contract: Get, Set,
// Remove. An Engine value is safe for concurrent use by multiple
// goroutines: its internals are independently locked (writer mutex,
// concurrent index, concurrent reader pool) rather than wrapped in one
// coarse mutex, so reads against untouched keys are never blocked by an
// in-flight write or compaction pass.
//
// Grounded on the teacher's top-level Ignite facade, which wires
// storage+index+options together behind a small Get/Set/Remove surface;
// generalized here to an interface with two implementations so a second,
// differently-backed engine can be swapped in without touching callers.
package engine

import stdErrors "errors"

// ErrEmptyKey is returned by Set and Remove for a zero-length key. Empty
// keys are never written to a segment; the check happens before any
// call reaches the writer.
var ErrEmptyKey = stdErrors.New("key must not be empty")

// Engine is the storage contract every worker-pool dispatcher talks to.
// A Get for a key with no current entry returns ("", false, nil): a
// missing key is not an error.
type Engine interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Kind identifies which Engine implementation a data directory was
// opened with. There is no separate marker file for this: the on-disk
// layout carries no control files beyond the segment set, so opening a
// directory checks the segment files actually present against what the
// requested Kind would produce, and rejects a mismatch.
type Kind string

const (
	KindKVS  Kind = "kvs"
	KindSled Kind = "sled"
)

func (k Kind) String() string { return string(k) }
