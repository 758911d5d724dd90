package blockdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blockvault/blockvault/internal/blockhash"
)

func newTestBlockDir(t *testing.T) *BlockDir {
	t.Helper()
	dir, err := Create(filepath.Join(t.TempDir(), "blocks"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return dir
}

func TestPutGetRoundTrip(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("hello, block store")
	hash := blockhash.Bytes(data)

	compressedLen, err := bd.Put(data, hash)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if compressedLen == 0 {
		t.Fatal("Put: expected nonzero compressed length on first write")
	}

	got, sizes, err := bd.GetContent(hash)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("GetContent returned %q, want %q", got, data)
	}
	if sizes.Uncompressed != uint64(len(data)) {
		t.Fatalf("Uncompressed = %d, want %d", sizes.Uncompressed, len(data))
	}
}

func TestPutDuplicateIsDeduplicated(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("duplicate me")
	hash := blockhash.Bytes(data)

	first, err := bd.Put(data, hash)
	if err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if first == 0 {
		t.Fatal("first Put should have written data")
	}

	present, err := bd.Contains(hash)
	if err != nil || !present {
		t.Fatalf("Contains after first Put: present=%v err=%v", present, err)
	}

	second, err := bd.Put(data, hash)
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if second != 0 {
		t.Fatalf("second Put compressedLen = %d, want 0 (already present)", second)
	}
}

func TestContainsMissing(t *testing.T) {
	bd := newTestBlockDir(t)
	present, err := bd.Contains(blockhash.Bytes([]byte("not stored")))
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if present {
		t.Fatal("Contains reported true for a block never stored")
	}
}

func TestGetRejectsPartialRead(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("a full block of bytes")
	hash := blockhash.Bytes(data)
	if _, err := bd.Put(data, hash); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, _, err := bd.Get(Address{Hash: hash, Start: 1, Len: uint64(len(data) - 1)})
	if err != ErrUnsupportedPartialRead {
		t.Fatalf("Get with nonzero start: err = %v, want ErrUnsupportedPartialRead", err)
	}
}

func TestGetVerifiedDetectsCorruption(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("bytes that will be corrupted on disk")
	hash := blockhash.Bytes(data)
	if _, err := bd.Put(data, hash); err != nil {
		t.Fatalf("Put: %v", err)
	}

	path := bd.pathFor(hash)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored block: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("corrupting stored block: %v", err)
	}

	_, _, err = bd.GetVerified(Address{Hash: hash, Len: uint64(len(data))})
	if err == nil {
		t.Fatal("GetVerified accepted a corrupted block")
	}
}

func TestBlockNamesEnumeratesExactSet(t *testing.T) {
	bd := newTestBlockDir(t)
	want := map[string]bool{}
	for _, s := range []string{"one", "two", "three"} {
		data := []byte(s)
		hash := blockhash.Bytes(data)
		if _, err := bd.Put(data, hash); err != nil {
			t.Fatalf("Put(%q): %v", s, err)
		}
		want[hash] = true
	}

	names, err := bd.BlockNames()
	if err != nil {
		t.Fatalf("BlockNames: %v", err)
	}
	if len(names) != len(want) {
		t.Fatalf("BlockNames returned %d entries, want %d", len(names), len(want))
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("BlockNames returned unexpected hash %q", n)
		}
	}
}

func TestBlockNamesSkipsTmpFiles(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("real block")
	hash := blockhash.Bytes(data)
	if _, err := bd.Put(data, hash); err != nil {
		t.Fatalf("Put: %v", err)
	}

	shard := bd.subdirFor(hash)
	if err := os.WriteFile(filepath.Join(shard, "tmp123456"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("writing stray tmp file: %v", err)
	}

	names, err := bd.BlockNames()
	if err != nil {
		t.Fatalf("BlockNames: %v", err)
	}
	if len(names) != 1 || names[0] != hash {
		t.Fatalf("BlockNames = %v, want [%s]", names, hash)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("validate me please")
	hash := blockhash.Bytes(data)
	if _, err := bd.Put(data, hash); err != nil {
		t.Fatalf("Put: %v", err)
	}

	stats, err := bd.Validate()
	if err != nil {
		t.Fatalf("Validate (clean): %v", err)
	}
	if stats.BlockHashWrong != 0 || stats.BlockDecompressionFailed != 0 {
		t.Fatalf("Validate (clean) = %+v, want zero stats", stats)
	}

	path := bd.pathFor(hash)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored block: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("corrupting stored block: %v", err)
	}

	stats, err = bd.Validate()
	if err != nil {
		t.Fatalf("Validate (corrupt): %v", err)
	}
	if stats.BlockHashWrong+stats.BlockDecompressionFailed == 0 {
		t.Fatal("Validate did not notice the corrupted block")
	}
}

func TestConcurrentPutWritesExactlyOnce(t *testing.T) {
	bd := newTestBlockDir(t)
	data := []byte("eight goroutines race to write this")
	hash := blockhash.Bytes(data)

	const workers = 8
	results := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		go func() {
			n, err := bd.Put(data, hash)
			if err != nil {
				t.Errorf("Put: %v", err)
				results <- -1
				return
			}
			results <- n
		}()
	}

	var written int
	for i := 0; i < workers; i++ {
		if n := <-results; n > 0 {
			written++
		}
	}
	if written != 1 {
		t.Fatalf("exactly one goroutine should have written the block, got %d", written)
	}

	present, err := bd.Contains(hash)
	if err != nil || !present {
		t.Fatalf("Contains after concurrent Put: present=%v err=%v", present, err)
	}
}
