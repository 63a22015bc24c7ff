package vfs

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// FSDirectory exposes a directory of an fs.FS, usually an embed.FS with bundled assets.
type FSDirectory struct {
	fsys fs.FS
	path string
}

func NewFSDirectory(fsys fs.FS, dir string) *FSDirectory {
	if dir == "" {
		dir = "."
	}
	return &FSDirectory{fsys: fsys, path: dir}
}

func (d *FSDirectory) Init(parent Directory) {}

func (d *FSDirectory) Name() string {
	return path.Base(d.path)
}

func (d *FSDirectory) IsDirectory() bool {
	return true
}

func (d *FSDirectory) List() ([]string, error) {
	entries, err := fs.ReadDir(d.fsys, d.path)
	if err != nil {
		return nil, fmt.Errorf("Error getting directory '%s' info: %v", d.path, err)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	return result, nil
}

func (d *FSDirectory) GetElement(name string) (Element, error) {
	newPath := path.Join(d.path, name)
	s, err := fs.Stat(d.fsys, newPath)
	if err != nil {
		return nil, fmt.Errorf("Stat error: %w", err)
	}
	var e Element
	if s.IsDir() {
		e = &FSDirectory{fsys: d.fsys, path: newPath}
	} else {
		e = &FSFile{fsys: d.fsys, path: newPath, size: s.Size()}
	}
	e.Init(d)
	return e, nil
}

// FSFile keeps the whole content in memory while opened.
type FSFile struct {
	fsys fs.FS
	path string
	size int64
	data *bytes.Reader
}

func (f *FSFile) Init(parent Directory) {}

func (f *FSFile) Name() string {
	return path.Base(f.path)
}

func (f *FSFile) IsDirectory() bool {
	return false
}

func (f *FSFile) Size() int64 {
	return f.size
}

func (f *FSFile) Open() error {
	if f.data != nil {
		return fmt.Errorf("File already opened")
	}
	b, err := fs.ReadFile(f.fsys, f.path)
	if err != nil {
		return fmt.Errorf("fs.ReadFile('%s'): %w", f.path, err)
	}
	f.data = bytes.NewReader(b)
	f.size = int64(len(b))
	return nil
}

func (f *FSFile) Close() error {
	f.data = nil
	return nil
}

func (f *FSFile) Reader() (*io.SectionReader, error) {
	if f.data == nil {
		return nil, fmt.Errorf("First you need to open file")
	}
	return io.NewSectionReader(f.data, 0, f.size), nil
}

func (f *FSFile) ReadAt(b []byte, off int64) (int, error) {
	if f.data == nil {
		return 0, fmt.Errorf("First you need to open file")
	}
	return f.data.ReadAt(b, off)
}
