package engine

import "github.com/iamNilotpal/kvs/pkg/errors"

// sledEngine is a placeholder for an embedded-tree-backed implementation
// of Engine. Its internals are out of scope here; it exists only so
// --engine sled fails clearly instead of silently falling back to the
// log-structured implementation.
type sledEngine struct{}

// OpenSled always fails: no sled-backed implementation ships with this
// build.
func OpenSled() (Engine, error) {
	return nil, errors.NewStorageError(nil, errors.ErrorCodeInvalidInput, "sled engine backend is not implemented in this build")
}

func (sledEngine) Get(string) (string, bool, error) { return "", false, errSledUnimplemented }
func (sledEngine) Set(string, string) error         { return errSledUnimplemented }
func (sledEngine) Remove(string) error              { return errSledUnimplemented }
func (sledEngine) Close() error                     { return nil }

var errSledUnimplemented = errors.NewStorageError(nil, errors.ErrorCodeInvalidInput, "sled engine backend is not implemented in this build")
