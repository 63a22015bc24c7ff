package scenes

import (
	"bytes"
	"embed"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scenefile"
	"github.com/mogaika/scenewalk/vfs"
)

//go:embed data/*.yaml
var dataFS embed.FS

var dataDir vfs.Directory = vfs.NewFSDirectory(dataFS, "data")

// DataFiles lists the bundled scene files.
func DataFiles() ([]string, error) {
	return dataDir.List()
}

func loadDocument(file string, opts Options) (*scenefile.Document, error) {
	raw, err := vfs.ReadFile(dataDir, file)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read bundled scene")
	}
	provider, err := opts.provider()
	if err != nil {
		return nil, err
	}
	doc, err := scenefile.Load(bytes.NewReader(raw), provider, opts.Policy)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load %q", file)
	}
	return doc, nil
}
