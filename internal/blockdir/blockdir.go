package blockdir

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/blockvault/blockvault/internal/blockhash"
	"github.com/blockvault/blockvault/internal/snappyblock"
	"github.com/blockvault/blockvault/internal/transport"
	"github.com/blockvault/blockvault/internal/ui"
)

// BlockDir is a readable, writable directory of content-addressed,
// Snappy-compressed blocks. Enumeration and block reads go through a
// transport.ReadTransport, so a future non-local binding can serve them
// without BlockDir changing; only the atomic-publish write path in Put
// needs the local filesystem directly, since create-or-fail rename has no
// transport-level equivalent.
type BlockDir struct {
	path string
	ui   ui.UI
	read transport.ReadTransport
}

// Open returns a BlockDir accessing path, which must already exist as a
// directory.
func Open(path string) *BlockDir {
	return &BlockDir{path: path, ui: ui.NopUI{}, read: transport.NewLocal(path)}
}

// Create creates path as a new directory and returns a BlockDir accessing
// it. It fails if path already exists.
func Create(path string) (*BlockDir, error) {
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, &CreateBlockDirError{Path: path, Err: err}
	}
	return Open(path), nil
}

// WithUI returns a copy of b that reports through u instead of discarding
// events.
func (b *BlockDir) WithUI(u ui.UI) *BlockDir {
	cp := *b
	cp.ui = u
	return &cp
}

// Path returns the BlockDir's root directory.
func (b *BlockDir) Path() string { return b.path }

func (b *BlockDir) subdirFor(hash string) string {
	return filepath.Join(b.path, blockNameToSubdir(hash))
}

func (b *BlockDir) pathFor(hash string) string {
	return filepath.Join(b.subdirFor(hash), hash)
}

// relFor is pathFor expressed relative to b.path, the form b.read expects.
func (b *BlockDir) relFor(hash string) string {
	return filepath.Join(blockNameToSubdir(hash), hash)
}

// Contains reports whether the named block is present in this directory.
func (b *BlockDir) Contains(hash string) (bool, error) {
	_, err := os.Stat(b.pathFor(hash))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, &ReadBlockError{Path: b.pathFor(hash), Err: err}
}

// Put compresses and stores data under hash, which must already be
// blockhash.Bytes(data). It returns the number of compressed bytes
// written.
//
// If another writer publishes the same hash first, Put discards its own
// candidate and returns (0, nil): this is deduplication, not an error.
func (b *BlockDir) Put(data []byte, hash string) (compressedLen int64, err error) {
	dir := b.subdirFor(hash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, &StoreBlockError{Hash: hash, Err: err}
	}

	tmp, err := ioutil.TempFile(dir, tmpPrefix)
	if err != nil {
		return 0, &StoreBlockError{Hash: hash, Err: err}
	}
	tmpPath := tmp.Name()

	compressedLen, err = snappyblock.CompressToWriter(data, tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, &StoreBlockError{Hash: hash, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, &StoreBlockError{Hash: hash, Err: err}
	}

	if err := renameat2NoReplace(tmpPath, b.pathFor(hash)); err != nil {
		if err == unix.EEXIST {
			// Another writer published this block first. Not an error.
			os.Remove(tmpPath)
			b.ui.Problem("block " + hash + " was already published by another writer")
			return 0, nil
		}
		os.Remove(tmpPath)
		return 0, &StoreBlockError{Hash: hash, Err: err}
	}
	return compressedLen, nil
}

// GetContent returns the entire decompressed contents of the named block.
func (b *BlockDir) GetContent(hash string) ([]byte, Sizes, error) {
	path := b.pathFor(hash)
	raw, err := b.read.ReadFile(b.relFor(hash))
	if err != nil {
		return nil, Sizes{}, &ReadBlockError{Path: path, Err: err}
	}
	payload, err := snappyblock.Decompress(raw, path)
	if err != nil {
		return nil, Sizes{}, &ReadBlockError{Path: path, Err: err}
	}
	return payload, Sizes{Uncompressed: uint64(len(payload)), Compressed: uint64(len(raw))}, nil
}

// Get resolves addr and returns the decompressed bytes it names. The
// current revision does not re-verify the hash on every read; use
// GetVerified for that. addr.Start must be 0 and addr.Len must equal the
// decompressed block length, or ErrUnsupportedPartialRead is returned.
func (b *BlockDir) Get(addr Address) ([]byte, Sizes, error) {
	decompressed, sizes, err := b.GetContent(addr.Hash)
	if err != nil {
		return nil, Sizes{}, err
	}
	if addr.Start != 0 || addr.Len != uint64(len(decompressed)) {
		return nil, Sizes{}, ErrUnsupportedPartialRead
	}
	return decompressed, sizes, nil
}

// GetVerified behaves like Get, but additionally recomputes the hash of
// the decompressed bytes and returns a *BlockCorruptError if it does not
// match addr.Hash. This is the read path's opt-in answer to spec's open
// question about verifying on read: the default Get/GetContent stay as
// specified, and callers who want the extra check ask for it explicitly.
func (b *BlockDir) GetVerified(addr Address) ([]byte, Sizes, error) {
	decompressed, sizes, err := b.Get(addr)
	if err != nil {
		return nil, Sizes{}, err
	}
	if actual := blockhash.Bytes(decompressed); actual != addr.Hash {
		return nil, Sizes{}, &BlockCorruptError{Path: b.pathFor(addr.Hash), ActualHash: actual}
	}
	return decompressed, sizes, nil
}

// BlockNames returns every block hash stored in this directory, in
// arbitrary order.
func (b *BlockDir) BlockNames() ([]string, error) {
	entries, err := b.blockNamesAndSizes()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, nil
}

type blockEntry struct {
	name string
	size int64
}

func (b *BlockDir) subdirs() ([]string, error) {
	entries, err := b.read.ReadDir(".")
	if err != nil {
		return nil, &ListBlocksError{Path: b.path, Err: err}
	}
	subdirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind != transport.KindDir {
			continue
		}
		if len(e.Name()) != subdirNameChars {
			b.ui.Problem("unexpected entry in block dir " + b.path + ": " + e.Name())
			continue
		}
		subdirs = append(subdirs, e.Name())
	}
	return subdirs, nil
}

func (b *BlockDir) blockNamesAndSizes() ([]blockEntry, error) {
	subdirs, err := b.subdirs()
	if err != nil {
		return nil, err
	}
	var entries []blockEntry
	for _, sd := range subdirs {
		shardEntries, err := b.read.ReadDir(sd)
		if err != nil {
			b.ui.Problem("skipping unreadable shard " + filepath.Join(b.path, sd) + ": " + err.Error())
			continue
		}
		for _, e := range shardEntries {
			if e.Kind != transport.KindFile || !isBlockFileName(e.Name()) {
				continue
			}
			entries = append(entries, blockEntry{name: e.Name(), size: e.Size})
		}
	}
	return entries, nil
}

// Validate re-reads every stored block, recomputing its hash, and
// aggregates the results into a ValidateStats. Work is fanned out across
// GOMAXPROCS workers; a block that fails to decompress or whose hash
// doesn't match its name is counted, not treated as fatal for the whole
// scan. Only a failure to enumerate the root itself aborts validation.
func (b *BlockDir) Validate() (ValidateStats, error) {
	b.ui.SetProgressPhase("Count blocks")
	entries, err := b.blockNamesAndSizes()
	if err != nil {
		return ValidateStats{}, err
	}

	var total uint64
	for _, e := range entries {
		total += uint64(e.size)
	}
	b.ui.SetBytesTotal(total)
	b.ui.SetProgressPhase("Check block hashes")
	defer b.ui.ClearProgress()

	var (
		mu    sync.Mutex
		stats ValidateStats
	)
	eg := new(errgroup.Group)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, e := range entries {
		e := e
		eg.Go(func() error {
			delta := b.validateBlock(e.name)
			b.ui.IncrementBytesDone(uint64(e.size))
			mu.Lock()
			stats.Add(delta)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait() // workers never return an error; failures are counted in stats
	return stats, nil
}

func (b *BlockDir) validateBlock(hash string) ValidateStats {
	path := b.pathFor(hash)
	raw, err := b.read.ReadFile(b.relFor(hash))
	if err != nil {
		b.ui.Problem("block " + path + " failed to read: " + err.Error())
		return ValidateStats{BlockDecompressionFailed: 1}
	}
	payload, err := snappyblock.Decompress(raw, path)
	if err != nil {
		b.ui.Problem("block " + path + " failed to decompress: " + err.Error())
		return ValidateStats{BlockDecompressionFailed: 1}
	}
	actual := blockhash.Bytes(payload)
	if actual != hash {
		b.ui.Problem("block " + path + " has actual decompressed hash " + actual)
		return ValidateStats{BlockHashWrong: 1}
	}
	return ValidateStats{}
}
