package pipeline

import (
	"fmt"

	"github.com/spf13/afero"
)

// Loader reads audit documents
type Loader struct {
	fs       afero.Fs
	maxBytes int64
}

// NewLoader creates a loader. maxBytes <= 0 disables the size limit.
func NewLoader(fsys afero.Fs, maxBytes int64) *Loader {
	return &Loader{fs: fsys, maxBytes: maxBytes}
}

// Document is an audit document read in full
type Document struct {
	Path string // As given by the caller
	Text string
}

// Load reads the whole document before any parsing starts
func (l *Loader) Load(path string) (*Document, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat audit document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("audit document %s is a directory", path)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return nil, fmt.Errorf("audit document %s is %d bytes, limit is %d", path, info.Size(), l.maxBytes)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read audit document: %w", err)
	}

	return &Document{
		Path: path,
		Text: string(data),
	}, nil
}
