// Package assets resolves named meshes, images and shader sources for scene setup.
package assets

import (
	"fmt"
	"image"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
)

// Asset is one of *scene.Mesh, *Image or ShaderSource.
type Asset interface {
	assetName() string
}

type meshAsset struct {
	*scene.Mesh
}

func (m meshAsset) assetName() string { return m.Name }

type Image struct {
	Name string
	image.Image
}

func (img *Image) assetName() string { return img.Name }

func (img *Image) Size() (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

type ShaderKind uint8

const (
	VertexShader ShaderKind = iota
	PixelShader
)

func (k ShaderKind) String() string {
	if k == VertexShader {
		return "vertex"
	}
	return "pixel"
}

type ShaderSource struct {
	Name   string
	Kind   ShaderKind
	Source string
}

func (s ShaderSource) assetName() string { return s.Name }

// MeshAsset wraps a mesh description for Storage.Register.
func MeshAsset(m *scene.Mesh) Asset {
	return meshAsset{m}
}

type AssetNotFoundError struct {
	Name string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset %q not found", e.Name)
}

func IsAssetNotFound(err error) bool {
	var nf *AssetNotFoundError
	return errors.As(err, &nf)
}

type TypeMismatchError struct {
	Name string
	Want string
	Got  Asset
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("asset %q is %T, not %s", e.Name, e.Got, e.Want)
}

// Provider is where scenes get their raw data from. Returned data must not be modified.
type Provider interface {
	Get(name string) (Asset, error)
}

func GetMesh(p Provider, name string) (*scene.Mesh, error) {
	a, err := p.Get(name)
	if err != nil {
		return nil, err
	}
	if m, ok := a.(meshAsset); ok {
		return m.Mesh, nil
	}
	return nil, &TypeMismatchError{Name: name, Want: "mesh", Got: a}
}

func GetImage(p Provider, name string) (*Image, error) {
	a, err := p.Get(name)
	if err != nil {
		return nil, err
	}
	if img, ok := a.(*Image); ok {
		return img, nil
	}
	return nil, &TypeMismatchError{Name: name, Want: "image", Got: a}
}

func GetShader(p Provider, name string) (ShaderSource, error) {
	a, err := p.Get(name)
	if err != nil {
		return ShaderSource{}, err
	}
	if s, ok := a.(ShaderSource); ok {
		return s, nil
	}
	return ShaderSource{}, &TypeMismatchError{Name: name, Want: "shader", Got: a}
}
