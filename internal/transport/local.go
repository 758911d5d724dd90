package transport

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"golang.org/x/exp/mmap"
)

// Local is a WriteTransport rooted at a directory on the local filesystem.
type Local struct {
	root string
}

// NewLocal returns a Local transport rooted at root.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) fullPath(relpath string) string {
	return filepath.Join(l.root, relpath)
}

func (l *Local) ReadDir(relpath string) ([]Entry, error) {
	fis, err := ioutil.ReadDir(l.fullPath(relpath))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(fis))
	for _, fi := range fis {
		kind := KindOther
		switch {
		case fi.IsDir():
			kind = KindDir
		case fi.Mode().IsRegular():
			kind = KindFile
		}
		entries = append(entries, Entry{
			Relpath: filepath.Join(relpath, fi.Name()),
			Kind:    kind,
			Size:    fi.Size(),
		})
	}
	return entries, nil
}

// ReadFile returns the complete contents of relpath. The file is
// memory-mapped rather than read in full up front, the same technique the
// teacher's installer uses to map SquashFS images; the mapping is copied
// into a plain []byte before returning since ReadTransport promises whole
// file contents, not a reader.
func (l *Local) ReadFile(relpath string) ([]byte, error) {
	ra, err := mmap.Open(l.fullPath(relpath))
	if err != nil {
		return nil, err
	}
	defer ra.Close()

	buf := make([]byte, ra.Len())
	if _, err := ra.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

func (l *Local) MakeDir(relpath string) error {
	err := os.Mkdir(l.fullPath(relpath), 0o755)
	if os.IsExist(err) {
		return nil
	}
	return err
}

// WriteFile writes data to relpath by writing a temp file (in a directory
// renameio picks so the rename stays on one filesystem) and atomically
// renaming it into place, replacing any existing
// file. Unlike a BlockDir block write, a transport file is expected to be
// replaceable, so renameio's clobber-on-rename semantics are correct here.
func (l *Local) WriteFile(relpath string, data []byte) error {
	dest := l.fullPath(relpath)
	t, err := renameio.TempFile("", dest)
	if err != nil {
		return err
	}
	defer t.Cleanup()
	if _, err := t.Write(data); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}
