// Package snappyblock is the byte-oriented codec blocks are stored under:
// the Snappy framed stream format, written and read whole (blocks are
// assumed to fit in memory; see spec non-goals on streamed decompression).
package snappyblock

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/golang/snappy"
)

// CorruptError reports that the framed stream at Path could not be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("decompress %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// CompressToWriter writes the Snappy-framed form of src to sink and returns
// the exact number of compressed bytes written.
func CompressToWriter(src []byte, sink io.Writer) (compressedLen int64, err error) {
	cw := &countingWriter{w: sink}
	zw := snappy.NewBufferedWriter(cw)
	if _, err := zw.Write(src); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// Decompress decodes the Snappy-framed contents of raw, previously read in
// full by a transport.ReadTransport. label identifies the source in error
// messages only; it is not otherwise interpreted.
func Decompress(raw []byte, label string) ([]byte, error) {
	zr := snappy.NewReader(bytes.NewReader(raw))
	payload, err := ioutil.ReadAll(zr)
	if err != nil {
		return nil, &CorruptError{Path: label, Err: err}
	}
	return payload, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
