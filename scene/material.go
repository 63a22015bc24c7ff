package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Channel struct {
	Color   mgl32.Vec3 `yaml:"color,flow" json:"color"`
	Texture string     `yaml:"texture,omitempty" json:"texture,omitempty"`
}

type Specular struct {
	Color     mgl32.Vec3 `yaml:"color,flow" json:"color"`
	Shininess float32    `yaml:"shininess" json:"shininess"`
	Intensity float32    `yaml:"intensity" json:"intensity"`
}

// Material is a phong-like parameter set. Absent channels are applied as zero values.
type Material struct {
	Diffuse  *Channel  `yaml:"diffuse,omitempty" json:"diffuse,omitempty"`
	Specular *Specular `yaml:"specular,omitempty" json:"specular,omitempty"`
	Emissive *Channel  `yaml:"emissive,omitempty" json:"emissive,omitempty"`
}

func Albedo(r, g, b float32) *Material {
	return &Material{Diffuse: &Channel{Color: mgl32.Vec3{r, g, b}}}
}

func (m *Material) HasDiffuse() bool  { return m != nil && m.Diffuse != nil }
func (m *Material) HasSpecular() bool { return m != nil && m.Specular != nil }
func (m *Material) HasEmissive() bool { return m != nil && m.Emissive != nil }
