package assets

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
)

func LoadImage(name string, r io.Reader) ([]Asset, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode image")
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ext == "jpg" {
		ext = "jpeg"
	}
	if format != ext {
		return nil, errors.Errorf("image %q is %s encoded", name, format)
	}
	return []Asset{&Image{Name: path.Base(name), Image: img}}, nil
}

// LoadShader keeps the source text as is; .vert files are vertex shaders, anything
// else a pixel shader.
func LoadShader(name string, r io.Reader) ([]Asset, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	kind := PixelShader
	if strings.EqualFold(path.Ext(name), ".vert") {
		kind = VertexShader
	}
	return []Asset{ShaderSource{Name: path.Base(name), Kind: kind, Source: string(src)}}, nil
}
