// Package export writes scene graphs to interchange formats: glTF, GLB, FBX and the
// native yaml scene file.
package export

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
)

type Format string

const (
	FormatGLTF Format = "gltf"
	FormatGLB  Format = "glb"
	FormatFBX  Format = "fbx"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatGLTF, FormatGLB, FormatFBX, FormatYAML}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatGLTF, FormatGLB, FormatFBX, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Errorf("unknown export format %q", s)
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Errorf("no extension in %q", path)
	}
	return ParseFormat(ext)
}

func (f Format) ContentType() string {
	switch f {
	case FormatGLTF:
		return "model/gltf+json"
	case FormatGLB:
		return "model/gltf-binary"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// Write exports doc in format to w.
func Write(w io.Writer, doc *scenefile.Document, format Format) error {
	if doc == nil || doc.Graph == nil {
		return scene.Violationf("export of empty document")
	}

	var err error
	switch format {
	case FormatGLTF:
		err = WriteGLTF(w, doc, false)
	case FormatGLB:
		err = WriteGLTF(w, doc, true)
	case FormatFBX:
		err = WriteFBX(w, doc)
	case FormatYAML:
		var raw []byte
		if raw, err = doc.Marshal(); err == nil {
			_, err = w.Write(raw)
		}
	default:
		return errors.Errorf("unknown export format %q", format)
	}
	return errors.Wrapf(err, "Failed to export %q as %s", doc.Name, format)
}

// effectiveMaterials maps every node to the material in scope at it.
func effectiveMaterials(g *scene.Graph) map[*scene.Node]*scene.Material {
	result := make(map[*scene.Node]*scene.Material, g.Len())
	g.Walk(func(n *scene.Node, depth int) error {
		m := n.Material
		if m == nil {
			if parent, ok := g.ParentOf(n); ok {
				m = result[parent]
			}
		}
		result[n] = m
		return nil
	})
	return result
}
