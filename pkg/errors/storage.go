package errors

// StorageError is a specialized error type for storage-related operations.
// It embeds baseError to inherit all the standard error functionality, then adds
// storage-specific fields that help pinpoint exactly where problems occurred.
type StorageError struct {
	*baseError
	segmentId uint64 // Which segment was being accessed when the error occurred.
	offset    int64  // Byte offset within the segment where the problem happened.
	fileName  string // Name of the file that caused the issue.
	path      string // Path of the file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithSegmentID sets which storage segment was involved in the error.
func (se *StorageError) WithSegmentID(id uint64) *StorageError {
	se.segmentId = id
	return se
}

// WithOffset records the byte position where the error occurred.
func (se *StorageError) WithOffset(offset int64) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// SegmentId returns the segment identifier where the error occurred.
func (se *StorageError) SegmentId() uint64 {
	return se.segmentId
}

// Offset returns the byte offset within the segment where the error happened.
// Combined with SegmentId, this gives you the exact location of the problem.
func (se *StorageError) Offset() int64 {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}

// NewSegmentMissingError reports that the reader pool has no handle open
// for a segment number that an index entry or compaction step referenced.
func NewSegmentMissingError(segmentID uint64) *StorageError {
	return NewStorageError(nil, ErrorCodeSegmentMissing, "segment not present in reader pool").
		WithSegmentID(segmentID)
}

// NewInvalidRecordError reports that a decoded record at a known Position
// was not a Set record, or otherwise failed validation the index relies on.
func NewInvalidRecordError(segmentID uint64, offset int64, reason string) *StorageError {
	return NewStorageError(nil, ErrorCodeInvalidRecord, "invalid record at index position").
		WithSegmentID(segmentID).
		WithOffset(offset).
		WithDetail("reason", reason)
}

// NewCodecError reports a record that failed to encode or decode.
func NewCodecError(err error, msg string) *StorageError {
	return NewStorageError(err, ErrorCodeCodec, msg)
}
