package vfs

import (
	"fmt"
	"io"
	"os"
	path_ "path/filepath"
	"sort"
	"strings"
)

// DirectoryDriver exposes a directory of the host file system. Names never leave it.
type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

func (dd *DirectoryDriver) Init(parent Directory) {}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, fmt.Errorf("Error getting directory '%s' info: %w", dd.path, err)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		result = append(result, e.Name())
	}
	sort.Strings(result)
	return result, nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("Invalid element name '%s'", name)
	}
	p := path_.Join(dd.path, name)
	s, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("Stat error: %w", err)
	}
	if s.IsDir() {
		return NewDirectoryDriver(p), nil
	}
	return &DirectoryDriverFile{path: p, size: s.Size()}, nil
}

type DirectoryDriverFile struct {
	path string
	size int64
	f    *os.File
}

func (ddf *DirectoryDriverFile) Init(parent Directory) {}

func (ddf *DirectoryDriverFile) Name() string {
	return path_.Base(ddf.path)
}

func (ddf *DirectoryDriverFile) IsDirectory() bool {
	return false
}

// Size is taken when the element is looked up and refreshed on Open.
func (ddf *DirectoryDriverFile) Size() int64 {
	return ddf.size
}

func (ddf *DirectoryDriverFile) Open() error {
	if ddf.f != nil {
		return fmt.Errorf("File '%s' already opened", ddf.path)
	}
	f, err := os.Open(ddf.path)
	if err != nil {
		return fmt.Errorf("os.Open('%s'): %w", ddf.path, err)
	}
	if s, err := f.Stat(); err == nil {
		ddf.size = s.Size()
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f == nil {
		return nil
	}
	err := ddf.f.Close()
	ddf.f = nil
	if err != nil {
		return fmt.Errorf("os.File.Close(): %w", err)
	}
	return nil
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, fmt.Errorf("File '%s' is not opened", ddf.path)
	}
	return io.NewSectionReader(ddf.f, 0, ddf.size), nil
}

func (ddf *DirectoryDriverFile) ReadAt(b []byte, off int64) (int, error) {
	if ddf.f == nil {
		return 0, fmt.Errorf("File '%s' is not opened", ddf.path)
	}
	return ddf.f.ReadAt(b, off)
}
