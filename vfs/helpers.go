package vfs

import (
	"fmt"
	"io"
	"strings"
)

func OpenFileAndGetReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, fmt.Errorf("Cannot open file '%s': %w", f.Name(), err)
	} else {
		if r, err := f.Reader(); err != nil {
			defer f.Close()
			return nil, fmt.Errorf("Cannot get file '%s' reader: %v", f.Name(), err)
		} else {
			return r, err
		}
	}
}

// DirectoryGetFile resolves a slash separated path relative to d.
func DirectoryGetFile(d Directory, name string) (File, error) {
	parts := strings.Split(strings.Trim(name, "/"), "/")
	for _, dir := range parts[:len(parts)-1] {
		e, err := d.GetElement(dir)
		if err != nil {
			return nil, fmt.Errorf("Cannot open directory '%s': %w", dir, err)
		}
		sub, ok := e.(Directory)
		if !ok {
			return nil, fmt.Errorf("'%s' is not a directory", dir)
		}
		d = sub
	}

	if f, err := d.GetElement(parts[len(parts)-1]); err != nil {
		return nil, fmt.Errorf("Cannot open file '%s': %w", name, err)
	} else if f.IsDirectory() {
		return nil, fmt.Errorf("File '%s' is directory, not a file!", name)
	} else {
		return f.(File), nil
	}
}

// ReadFile returns the whole content of the file at name.
func ReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	r, err := OpenFileAndGetReader(f)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(r)
}
