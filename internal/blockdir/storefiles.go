package blockdir

import (
	"io"

	"github.com/blockvault/blockvault/internal/blockhash"
	"github.com/blockvault/blockvault/internal/counters"
)

// StoreFiles ingests a readable byte stream into an ordered list of
// Addresses. It carries a reusable input buffer, so call StoreContent for
// one logical file at a time; to ingest many files concurrently, give each
// goroutine its own StoreFiles over the same BlockDir — the write protocol
// handles the resulting races.
type StoreFiles struct {
	dir      *BlockDir
	inputBuf []byte
}

// NewStoreFiles returns a StoreFiles that writes into dir, with a fresh
// buffer sized to blockSize (use MaxBlockSize in production).
func NewStoreFiles(dir *BlockDir, blockSize int) *StoreFiles {
	return &StoreFiles{dir: dir, inputBuf: make([]byte, blockSize)}
}

// StoreContent reads r to EOF in fixed-size windows, storing each distinct
// window as a block and returning the ordered list of Addresses needed to
// reconstruct the stream, plus accounting Sizes. label identifies the
// source for error messages and is not otherwise interpreted.
//
// A short read that is not EOF produces a short block; this revision does
// not loop-fill the buffer to avoid that, which spec explicitly permits,
// but it is deterministic: the same reader always yields the same address
// list.
func (s *StoreFiles) StoreContent(label string, r io.Reader, c *counters.Counters) ([]Address, Sizes, error) {
	var (
		addresses []Address
		sizes     Sizes
	)
	for {
		readLen, err := r.Read(s.inputBuf)
		if readLen == 0 {
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, Sizes{}, &StoreFileError{Label: label, Err: err}
			}
			continue
		}

		block := s.inputBuf[:readLen]
		hash := blockhash.Bytes(block)

		present, containsErr := s.dir.Contains(hash)
		if containsErr != nil {
			return nil, Sizes{}, containsErr
		}
		if present {
			c.Increment(counters.BlockAlreadyPresent, 1)
			sizes.Uncompressed += uint64(readLen)
		} else {
			compressedLen, putErr := s.dir.Put(block, hash)
			if putErr != nil {
				return nil, Sizes{}, putErr
			}
			if compressedLen == 0 {
				// Lost the race to another writer after Contains saw it
				// absent: still not an error, just already-present.
				c.Increment(counters.BlockAlreadyPresent, 1)
			} else {
				c.Increment(counters.BlockWrite, 1)
				sizes.Compressed += uint64(compressedLen)
			}
			sizes.Uncompressed += uint64(readLen)
		}

		addresses = append(addresses, Address{Hash: hash, Start: 0, Len: uint64(readLen)})

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Sizes{}, &StoreFileError{Label: label, Err: err}
		}
	}

	switch len(addresses) {
	case 0:
		c.Increment(counters.FileEmpty, 1)
	case 1:
		c.Increment(counters.FileMedium, 1)
	default:
		c.Increment(counters.FileLarge, 1)
	}
	return addresses, sizes, nil
}
