package assets

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/mogaika/scenewalk/scene"
)

const (
	OBJ_NUMBER = iota
	OBJ_CORNER
	OBJ_WORD
	OBJ_NEWLINE
)

var objLexer *lexmachine.Lexer

func init() {
	objLexer = lexmachine.NewLexer()
	objLexer.Add([]byte(`#[^\n]*`), skip)
	objLexer.Add([]byte(`\-?[0-9]+/\-?[0-9]*(/\-?[0-9]+)?`), getToken(OBJ_CORNER))
	objLexer.Add([]byte(`[\+\-]?[0-9]*\.?[0-9]+([eE][\+\-]?[0-9]+)?`), getToken(OBJ_NUMBER))
	objLexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_\.\-]*`), getToken(OBJ_WORD))
	objLexer.Add([]byte(`\n+`), getToken(OBJ_NEWLINE))
	objLexer.Add([]byte(`[ \t\r]+`), skip)
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type objCorner struct {
	v, t, n int
}

type objParser struct {
	name      string
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2

	mesh        *scene.Mesh
	corners     map[objCorner]uint16
	withNormals bool
	withUVs     bool
}

// LoadOBJ reads a Wavefront OBJ file into one mesh. Polygons are triangulated as fans,
// equal position/uv/normal tuples share one vertex.
func LoadOBJ(name string, r io.Reader) ([]Asset, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m, err := ParseOBJ(name, text)
	if err != nil {
		return nil, err
	}
	return []Asset{MeshAsset(m)}, nil
}

func ParseOBJ(name string, text []byte) (*scene.Mesh, error) {
	scanner, err := objLexer.Scanner(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	p := &objParser{
		name:        name,
		mesh:        &scene.Mesh{Name: name},
		corners:     make(map[objCorner]uint16),
		withNormals: true,
		withUVs:     true,
	}

	line := make([]*lexmachine.Token, 0, 8)
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := itok.(*lexmachine.Token)
		if tok.Type == OBJ_NEWLINE {
			if err := p.statement(line); err != nil {
				return nil, err
			}
			line = line[:0]
			continue
		}
		line = append(line, tok)
	}
	if err := p.statement(line); err != nil {
		return nil, err
	}

	if len(p.mesh.Triangles) == 0 {
		return nil, errors.Errorf("obj %q has no faces", name)
	}
	if !p.withNormals {
		p.mesh.Normals = nil
	}
	if !p.withUVs {
		p.mesh.UVs = nil
	}
	if err := p.mesh.Validate(); err != nil {
		return nil, err
	}
	return p.mesh, nil
}

func (p *objParser) statement(line []*lexmachine.Token) error {
	if len(line) == 0 {
		return nil
	}
	head := line[0]
	if head.Type != OBJ_WORD {
		return errors.Errorf("Unexpected %q at line %v", head.Lexeme, head.StartLine)
	}
	args := line[1:]

	switch string(head.Lexeme) {
	case "v":
		v, err := floats(args, 3)
		if err != nil {
			return errors.Wrapf(err, "line %v", head.StartLine)
		}
		p.positions = append(p.positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vn":
		v, err := floats(args, 3)
		if err != nil {
			return errors.Wrapf(err, "line %v", head.StartLine)
		}
		p.normals = append(p.normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := floats(args, 2)
		if err != nil {
			return errors.Wrapf(err, "line %v", head.StartLine)
		}
		p.uvs = append(p.uvs, mgl32.Vec2{v[0], v[1]})
	case "f":
		return p.face(head, args)
	case "o":
		if len(args) != 0 && p.mesh.Name == p.name {
			p.mesh.Name = string(args[0].Lexeme)
		}
	}
	// g, s, usemtl, mtllib carry nothing a mesh description keeps
	return nil
}

func (p *objParser) face(head *lexmachine.Token, args []*lexmachine.Token) error {
	if len(args) < 3 {
		return errors.Errorf("Face with %d corners at line %v", len(args), head.StartLine)
	}
	indices := make([]uint16, len(args))
	for i, tok := range args {
		c, err := p.corner(tok)
		if err != nil {
			return errors.Wrapf(err, "line %v", head.StartLine)
		}
		idx, err := p.vertex(c)
		if err != nil {
			return errors.Wrapf(err, "line %v", head.StartLine)
		}
		indices[i] = idx
	}
	for i := 1; i+1 < len(indices); i++ {
		p.mesh.Triangles = append(p.mesh.Triangles, indices[0], indices[i], indices[i+1])
	}
	return nil
}

func (p *objParser) corner(tok *lexmachine.Token) (objCorner, error) {
	if tok.Type != OBJ_CORNER && tok.Type != OBJ_NUMBER {
		return objCorner{}, errors.Errorf("Bad face corner %q", tok.Lexeme)
	}
	parts := strings.Split(string(tok.Lexeme), "/")
	refs := [3]int{}
	counts := [3]int{len(p.positions), len(p.uvs), len(p.normals)}
	for i, part := range parts {
		if part == "" {
			continue
		}
		ref, err := strconv.Atoi(part)
		if err != nil || ref == 0 {
			return objCorner{}, errors.Errorf("Bad face corner %q", tok.Lexeme)
		}
		if ref < 0 {
			ref = counts[i] + ref + 1
		}
		if ref < 1 || ref > counts[i] {
			return objCorner{}, errors.Errorf("Face corner %q out of range", tok.Lexeme)
		}
		refs[i] = ref
	}
	return objCorner{v: refs[0], t: refs[1], n: refs[2]}, nil
}

func (p *objParser) vertex(c objCorner) (uint16, error) {
	if idx, ok := p.corners[c]; ok {
		return idx, nil
	}
	if len(p.mesh.Vertices) > math.MaxUint16 {
		return 0, errors.Errorf("more than %d vertices", math.MaxUint16+1)
	}

	idx := uint16(len(p.mesh.Vertices))
	p.mesh.Vertices = append(p.mesh.Vertices, p.positions[c.v-1])
	if c.n != 0 {
		p.mesh.Normals = append(p.mesh.Normals, p.normals[c.n-1])
	} else {
		p.withNormals = false
		p.mesh.Normals = append(p.mesh.Normals, mgl32.Vec3{})
	}
	if c.t != 0 {
		p.mesh.UVs = append(p.mesh.UVs, p.uvs[c.t-1])
	} else {
		p.withUVs = false
		p.mesh.UVs = append(p.mesh.UVs, mgl32.Vec2{})
	}
	p.corners[c] = idx
	return idx, nil
}

func floats(args []*lexmachine.Token, min int) ([]float32, error) {
	if len(args) < min {
		return nil, errors.Errorf("expected %d numbers, got %d", min, len(args))
	}
	result := make([]float32, len(args))
	for i, tok := range args {
		if tok.Type != OBJ_NUMBER {
			return nil, errors.Errorf("expected number, got %q", tok.Lexeme)
		}
		f, err := strconv.ParseFloat(string(tok.Lexeme), 32)
		if err != nil {
			return nil, errors.Wrapf(err, "number %q", tok.Lexeme)
		}
		result[i] = float32(f)
	}
	return result, nil
}
