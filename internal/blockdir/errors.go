package blockdir

import "fmt"

// CreateBlockDirError reports that a BlockDir's root could not be created.
type CreateBlockDirError struct {
	Path string
	Err  error
}

func (e *CreateBlockDirError) Error() string {
	return fmt.Sprintf("create block dir %s: %v", e.Path, e.Err)
}

func (e *CreateBlockDirError) Unwrap() error { return e.Err }

// StoreBlockError reports a write/rename failure other than "already
// exists" while publishing a block.
type StoreBlockError struct {
	Hash string
	Err  error
}

func (e *StoreBlockError) Error() string {
	return fmt.Sprintf("store block %s: %v", e.Hash, e.Err)
}

func (e *StoreBlockError) Unwrap() error { return e.Err }

// ReadBlockError reports an open or read failure on a block file.
type ReadBlockError struct {
	Path string
	Err  error
}

func (e *ReadBlockError) Error() string {
	return fmt.Sprintf("read block %s: %v", e.Path, e.Err)
}

func (e *ReadBlockError) Unwrap() error { return e.Err }

// BlockCorruptError reports that a block's decompressed contents hash to
// something other than its filename.
type BlockCorruptError struct {
	Path       string
	ActualHash string
}

func (e *BlockCorruptError) Error() string {
	return fmt.Sprintf("block %s has actual decompressed hash %s", e.Path, e.ActualHash)
}

// ListBlocksError reports an enumeration failure at the BlockDir root. An
// unreadable shard directory is reported through the UI and skipped
// instead.
type ListBlocksError struct {
	Path string
	Err  error
}

func (e *ListBlocksError) Error() string {
	return fmt.Sprintf("list blocks in %s: %v", e.Path, e.Err)
}

func (e *ListBlocksError) Unwrap() error { return e.Err }

// StoreFileError reports a read error on an ingestion source, with the
// caller-supplied label attached.
type StoreFileError struct {
	Label string
	Err   error
}

func (e *StoreFileError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Label, e.Err)
}

func (e *StoreFileError) Unwrap() error { return e.Err }

// ErrUnsupportedPartialRead is returned by Get when the supplied Address
// does not cover the whole decompressed block starting at offset 0; this
// revision has no support for sub-block slicing.
var ErrUnsupportedPartialRead = fmt.Errorf("blockdir: partial block reads are not supported")
