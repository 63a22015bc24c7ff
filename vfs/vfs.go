// Package vfs is a small read-only file tree used to load scene assets from disk or
// from an embedded fs.FS.
package vfs

import (
	"io"
)

// must contain only metadata (filename) until Open/List/GetElement calls
type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open() error
	Close() error
	Reader() (*io.SectionReader, error)
	ReadAt(b []byte, off int64) (n int, err error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
