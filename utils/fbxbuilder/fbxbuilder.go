// Package fbxbuilder assembles a binary FBX 7.4 document from model, geometry and
// material objects and writes it out.
package fbxbuilder

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
)

const (
	fbxVersion = 7400
	fbxCreator = "FBX SDK/FBX Plugins version 2013.3 build=20121223"
	// ids below are reserved for the document node
	firstObjectId = 1000000
)

// some importers refuse files without this id
var fbxFileId = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

// Application identifies the writer in the scene info block.
type Application struct {
	Vendor  string
	Name    string
	Version string
	// Zero time keeps the output reproducible.
	Time time.Time
}

var DefaultApplication = Application{
	Vendor:  "scenewalk",
	Name:    "scenewalk",
	Version: "1.0",
	Time:    time.Unix(0, 0).UTC(),
}

// template is the property template an object type is declared with in Definitions.
type template struct {
	objectType string
	name       string
	properties func() []*fbx.Node
}

func vec(name, kind string, x, y, z float64) *fbx.Node {
	return bfbx73.P(name, kind, "", "A", x, y, z)
}

var templates = []template{
	{"Model", "FbxNode", func() []*fbx.Node {
		return []*fbx.Node{
			bfbx73.P("QuaternionInterpolate", "enum", "", "", int32(0)),
			bfbx73.P("RotationOrder", "enum", "", "", int32(0)),
			bfbx73.P("RotationPivot", "Vector3D", "Vector", "", float64(0), float64(0), float64(0)),
			bfbx73.P("Show", "bool", "", "", int32(1)),
			vec("Lcl Translation", "Lcl Translation", 0, 0, 0),
			vec("Lcl Rotation", "Lcl Rotation", 0, 0, 0),
			vec("Lcl Scaling", "Lcl Scaling", 1, 1, 1),
			bfbx73.P("Visibility", "Visibility", "", "A", float64(1)),
			bfbx73.P("Visibility Inheritance", "Visibility Inheritance", "", "", int32(1)),
		}
	}},
	{"Material", "FbxSurfaceLambert", func() []*fbx.Node {
		return []*fbx.Node{
			bfbx73.P("ShadingModel", "KString", "", "", "Lambert"),
			bfbx73.P("MultiLayer", "bool", "", "", int32(0)),
			vec("EmissiveColor", "Color", 0, 0, 0),
			bfbx73.P("EmissiveFactor", "Number", "", "A", float64(1)),
			vec("AmbientColor", "Color", 0.2, 0.2, 0.2),
			bfbx73.P("AmbientFactor", "Number", "", "A", float64(1)),
			vec("DiffuseColor", "Color", 0.8, 0.8, 0.8),
			bfbx73.P("DiffuseFactor", "Number", "", "A", float64(1)),
		}
	}},
	{"Geometry", "FbxMesh", func() []*fbx.Node {
		return []*fbx.Node{
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
			bfbx73.P("Primary Visibility", "bool", "", "", int32(1)),
			bfbx73.P("Casts Shadows", "bool", "", "", int32(1)),
			bfbx73.P("Receive Shadows", "bool", "", "", int32(1)),
		}
	}},
	{"NodeAttribute", "FbxNull", func() []*fbx.Node {
		return []*fbx.Node{
			bfbx73.P("Size", "double", "Number", "", float64(100)),
			bfbx73.P("Look", "enum", "", "", int32(1)),
		}
	}},
}

// FBXBuilder collects objects and connections. Exporters cache the ids of objects they
// already emitted under their own keys, so shared resources are written once.
type FBXBuilder struct {
	f      *fbx.FBX
	c      map[interface{}]int64
	lastId int64

	definitions *fbx.Node
	objects     *fbx.Node
	connections *fbx.Node
}

func NewFBXBuilder(filename string) *FBXBuilder {
	return NewFBXBuilderFor(filename, DefaultApplication)
}

func NewFBXBuilderFor(filename string, app Application) *FBXBuilder {
	f := &FBXBuilder{
		c:           make(map[interface{}]int64),
		lastId:      firstObjectId,
		f:           fbx.NewFBX(fbxVersion),
		definitions: bfbx73.Definitions(),
		objects:     bfbx73.Objects(),
		connections: bfbx73.Connections(),
	}
	f.createHeaders(filename, app)
	return f
}

func sceneInfo(filename string, app Application) *fbx.Node {
	gmt := app.Time.UTC().Format("02/01/2006 15:04:05.000")
	props := bfbx73.Properties70().AddNodes(
		bfbx73.P("DocumentUrl", "KString", "Url", "", filename),
		bfbx73.P("SrcDocumentUrl", "KString", "Url", "", filename),
	)
	for _, group := range []string{"Original", "LastSaved"} {
		props.AddNodes(
			bfbx73.P(group, "Compound", "", ""),
			bfbx73.P(group+"|ApplicationVendor", "KString", "", "", app.Vendor),
			bfbx73.P(group+"|ApplicationName", "KString", "", "", app.Name),
			bfbx73.P(group+"|ApplicationVersion", "KString", "", "", app.Version),
			bfbx73.P(group+"|DateTime_GMT", "DateTime", "", "", gmt),
		)
		if group == "Original" {
			props.AddNode(bfbx73.P("Original|FileName", "KString", "", "", filepath.Base(filename)))
		}
	}

	return bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
		bfbx73.Type("UserData"),
		bfbx73.Version(100),
		bfbx73.MetaData().AddNodes(
			bfbx73.Version(100),
			bfbx73.Title(""),
			bfbx73.Subject(""),
			bfbx73.Author(""),
			bfbx73.Keywords(""),
			bfbx73.Revision(""),
			bfbx73.Comment(""),
		),
		props,
	)
}

func (f *FBXBuilder) createHeaders(filename string, app Application) {
	t := app.Time
	f.definitions.AddNodes(
		bfbx73.Version(100),
		bfbx73.Count(1),
		bfbx73.ObjectType("GlobalSettings").AddNodes(bfbx73.Count(1)),
	)
	for _, tpl := range templates {
		f.definitions.AddNode(bfbx73.ObjectType(tpl.objectType).AddNodes(
			bfbx73.Count(0),
			bfbx73.PropertyTemplate(tpl.name).AddNodes(
				bfbx73.Properties70().AddNodes(tpl.properties()...),
			),
		))
	}

	f.Root().AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(fbxVersion),
			bfbx73.EncryptionType(0),
			bfbx73.CreationTimeStamp().AddNodes(
				bfbx73.Version(1000),
				bfbx73.Year(int32(t.Year())),
				bfbx73.Month(int32(t.Month())),
				bfbx73.Day(int32(t.Day())),
				bfbx73.Hour(int32(t.Hour())),
				bfbx73.Minute(int32(t.Minute())),
				bfbx73.Second(int32(t.Second())),
				bfbx73.Millisecond(0),
			),
			bfbx73.Creator(fbxCreator),
			sceneInfo(filename, app),
		),
		bfbx73.FileId(fbxFileId),
		bfbx73.CreationTime(t.Format("2006-01-02 15:04:05:000")),
		bfbx73.Creator(fbxCreator),
		bfbx73.GlobalSettings().AddNodes(
			bfbx73.Version(1000),
			bfbx73.Properties70().AddNodes(
				// y up, z front, right handed
				bfbx73.P("UpAxis", "int", "Integer", "", int32(1)),
				bfbx73.P("UpAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("FrontAxis", "int", "Integer", "", int32(2)),
				bfbx73.P("FrontAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("CoordAxis", "int", "Integer", "", int32(0)),
				bfbx73.P("CoordAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("OriginalUpAxis", "int", "Integer", "", int32(1)),
				bfbx73.P("OriginalUpAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(1)),
				bfbx73.P("OriginalUnitScaleFactor", "double", "Number", "", float64(1)),
				bfbx73.P("AmbientColor", "ColorRGB", "Color", "", float64(0), float64(0), float64(0)),
			),
		),
		bfbx73.Documents().AddNodes(
			bfbx73.Count(1),
			bfbx73.Document(f.GenerateId(), "Scene", "Scene").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("SourceObject", "object", "", ""),
					bfbx73.P("ActiveAnimStackName", "KString", "", "", ""),
				),
				bfbx73.RootNode(0),
			),
		),
		bfbx73.References(),
		f.definitions,
		f.objects,
		f.connections,
		bfbx73.Takes().AddNodes(
			bfbx73.Current(""),
		),
	)
}

// Counts returns how many objects of every type were added.
func (f *FBXBuilder) Counts() map[string]int32 {
	counts := make(map[string]int32)
	for _, object := range f.objects.Nodes {
		counts[object.Name]++
	}
	return counts
}

// countDefinitions writes the object counts into Definitions, declaring types that have no
// template on the way.
func (f *FBXBuilder) countDefinitions() {
	counts := f.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	declared := make(map[string]*fbx.Node)
	for _, ot := range f.definitions.GetNodes("ObjectType") {
		declared[ot.Properties[0].(string)] = ot
	}

	total := int32(1) // GlobalSettings
	for _, name := range names {
		total += counts[name]
		ot, ok := declared[name]
		if !ok {
			ot = bfbx73.ObjectType(name)
			f.definitions.AddNode(ot)
		}
		ot.GetOrAddNode(bfbx73.Count(0)).Properties[0] = counts[name]
	}
	f.definitions.GetOrAddNode(bfbx73.Count(0)).Properties[0] = total
}

func (f *FBXBuilder) Root() *fbx.Node {
	return &f.f.Root
}

func (f *FBXBuilder) AddCache(key interface{}, id int64) {
	f.c[key] = id
}

func (f *FBXBuilder) GetCached(key interface{}) (int64, bool) {
	id, ok := f.c[key]
	return id, ok
}

func (f *FBXBuilder) GenerateId() int64 {
	f.lastId++
	return f.lastId
}

// Objects returns the emitted objects with the given node name, "Model" or "Geometry".
func (f *FBXBuilder) Objects(name string) []*fbx.Node {
	return f.objects.GetNodes(name)
}

func (f *FBXBuilder) Connections() []*fbx.Node {
	return f.connections.Nodes
}

func (f *FBXBuilder) AddObjects(nodes ...*fbx.Node)     { f.objects.AddNodes(nodes...) }
func (f *FBXBuilder) AddConnections(nodes ...*fbx.Node) { f.connections.AddNodes(nodes...) }

// Write serializes the document. The encoder needs to seek back, so it goes through a
// temporary file.
func (f *FBXBuilder) Write(w io.Writer) error {
	f.countDefinitions()

	tempFile, err := os.CreateTemp("", "scenewalk.*.fbx")
	if err != nil {
		return errors.Wrapf(err, "Unable to create temp file")
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if err := fbx.Write(tempFile, f.f); err != nil {
		return errors.Wrapf(err, "Unable to encode fbx")
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "Unable to seek")
	}
	_, err = io.Copy(w, tempFile)
	return err
}
