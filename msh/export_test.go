package msh

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/msh_browser/msh/mshtest"
	"github.com/mogaika/msh_browser/utils/gltfutils"
)

func hierarchyScene(t *testing.T) *Scene {
	scene, err := DecodeScene(mshtest.File(
		[]mshtest.Part{
			mshtest.Material("Red", red, mshtest.StringChunk("TX0D", "red.tga")),
			mshtest.Material("Unused", green),
		},
		mshtest.Model("root",
			mshtest.Transform([4]float32{0, 0, 0, 1}, [3]float32{1, 2, 3}),
		),
		mshtest.Model("child",
			mshtest.StringChunk("PRNT", "root"),
			segmentWith(mshtest.U32Chunk("MATI", 0)),
		),
		mshtest.Model("",
			segmentWith(mshtest.U32Chunk("MATI", 0)),
		),
	))
	if err != nil {
		t.Fatal(err)
	}
	return scene
}

func TestExportGLTF(t *testing.T) {
	scene := hierarchyScene(t)

	doc, err := scene.ExportGLTF()
	if err != nil {
		t.Fatal(err)
	}

	if len(doc.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(doc.Nodes))
	}
	if roots := doc.Scenes[0].Nodes; len(roots) != 2 || roots[0] != 0 || roots[1] != 2 {
		t.Errorf("scene roots %v", roots)
	}
	root := doc.Nodes[0]
	if len(root.Children) != 1 || root.Children[0] != 1 {
		t.Errorf("root childs %v", root.Children)
	}
	if root.Translation != [3]float32{1, 2, 3} || root.Mesh != nil {
		t.Errorf("unexpected root node %+v", root)
	}

	// shared material and texture are exported once
	if len(doc.Meshes) != 2 || len(doc.Materials) != 1 || len(doc.Textures) != 1 {
		t.Fatalf("meshes %d materials %d textures %d", len(doc.Meshes), len(doc.Materials), len(doc.Textures))
	}
	if doc.Materials[0].Name != "Red" || doc.Images[0].URI != "red.tga" {
		t.Errorf("material %+v image %+v", doc.Materials[0], doc.Images[0])
	}
	if color := doc.Materials[0].PBRMetallicRoughness.BaseColorFactor; color == nil || *color != red {
		t.Errorf("base color %v; expected specular %v", color, red)
	}
	primitive := doc.Meshes[0].Primitives[0]
	if primitive.Material == nil || *primitive.Material != 0 {
		t.Errorf("primitive material %v", primitive.Material)
	}
	if pos, ok := primitive.Attributes["POSITION"]; !ok || doc.Accessors[pos].Count != 3 {
		t.Errorf("positions accessor %v", primitive.Attributes)
	}
	if _, ok := primitive.Attributes["NORMAL"]; ok {
		t.Errorf("normals exported for segment without normals")
	}
	if doc.Accessors[*primitive.Indices].Count != 3 {
		t.Errorf("indices count %d", doc.Accessors[*primitive.Indices].Count)
	}

	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Errorf("binary gltf has no magic")
	}
}

func TestExportFbx(t *testing.T) {
	scene := hierarchyScene(t)

	f := scene.ExportFbx("scene.fbx")

	counts := make(map[string]int)
	for _, object := range f.Objects() {
		counts[object.Name]++
	}
	// 3 models plus mesh model per segment
	if counts["Model"] != 5 || counts["Geometry"] != 2 || counts["Material"] != 1 {
		t.Errorf("unexpected objects %v", counts)
	}
	// model to parent, geometry and material to segment, segment to model
	if len(f.Connections()) != 3+3*2 {
		t.Errorf("unexpected connections count %d", len(f.Connections()))
	}
}

func TestExportObj(t *testing.T) {
	scene := hierarchyScene(t)

	var obj, mtl bytes.Buffer
	if err := scene.ExportObj(&obj, &mtl, "out/scene.mtl"); err != nil {
		t.Fatal(err)
	}

	for _, expected := range []string{
		"mtllib scene.mtl\n",
		"o child_seg0\nusemtl Red\n",
		// child vertices are moved by parent transform
		"v 1.000000 2.000000 3.000000\nv 2.000000 2.000000 3.000000\n",
		"f 1 2 3\n",
		"f 4 5 6\n",
	} {
		if !strings.Contains(obj.String(), expected) {
			t.Errorf("obj does not contain %q:\n%s", expected, obj.String())
		}
	}
	if strings.Contains(obj.String(), "o _seg0") {
		t.Errorf("unnamed model has no generated name:\n%s", obj.String())
	}

	for _, expected := range []string{"newmtl Red\n", "map_Kd red.tga\n", "newmtl Unused\n"} {
		if !strings.Contains(mtl.String(), expected) {
			t.Errorf("mtl does not contain %q:\n%s", expected, mtl.String())
		}
	}
}

func loopModel(name, parent string, position mgl32.Vec3) *Model {
	return &Model{
		Name:      name,
		Parent:    parent,
		Transform: ModelTransform{Rotation: [4]float32{0, 0, 0, 1}, Position: position},
	}
}

func TestParentIndexes(t *testing.T) {
	var parentTests = []struct {
		name     string
		models   []*Model
		expected []int
	}{
		{"no parents", []*Model{loopModel("a", "", mgl32.Vec3{}), loopModel("b", "", mgl32.Vec3{})}, []int{-1, -1}},
		{"unknown parent", []*Model{loopModel("a", "x", mgl32.Vec3{})}, []int{-1}},
		{"chain", []*Model{loopModel("c", "b", mgl32.Vec3{}), loopModel("b", "a", mgl32.Vec3{}), loopModel("a", "", mgl32.Vec3{})}, []int{1, 2, -1}},
		{"self", []*Model{loopModel("a", "a", mgl32.Vec3{})}, []int{-1}},
		{"pair", []*Model{loopModel("a", "b", mgl32.Vec3{}), loopModel("b", "a", mgl32.Vec3{})}, []int{-1, 0}},
		{"tail into loop", []*Model{loopModel("c", "a", mgl32.Vec3{}), loopModel("a", "b", mgl32.Vec3{}), loopModel("b", "a", mgl32.Vec3{})}, []int{1, -1, 1}},
		{"duplicated names", []*Model{loopModel("a", "", mgl32.Vec3{}), loopModel("a", "", mgl32.Vec3{}), loopModel("b", "a", mgl32.Vec3{})}, []int{-1, -1, 0}},
	}

	for _, test := range parentTests {
		scene := &Scene{Models: test.models}
		if parents := scene.ParentIndexes(); !reflect.DeepEqual(parents, test.expected) {
			t.Errorf("%s: parents %v; expected %v", test.name, parents, test.expected)
		}
	}
}

func TestWorldMatricesParentLoop(t *testing.T) {
	scene := &Scene{Models: []*Model{
		loopModel("a", "b", mgl32.Vec3{1, 0, 0}),
		loopModel("b", "a", mgl32.Vec3{0, 1, 0}),
	}}

	worlds := scene.WorldMatrices()
	for i, expected := range []mgl32.Vec3{{1, 0, 0}, {1, 1, 0}} {
		if pos := mgl32.TransformCoordinate(mgl32.Vec3{}, worlds[i]); !pos.ApproxEqual(expected) {
			t.Errorf("world position of %s %v; expected %v", scene.Models[i].Name, pos, expected)
		}
	}
}

func TestExportGLTFParentLoop(t *testing.T) {
	scene := &Scene{Models: []*Model{
		loopModel("a", "b", mgl32.Vec3{}),
		loopModel("b", "a", mgl32.Vec3{}),
	}}

	doc, err := scene.ExportGLTF()
	if err != nil {
		t.Fatal(err)
	}
	if roots := doc.Scenes[0].Nodes; len(roots) != 1 || roots[0] != 0 {
		t.Errorf("scene roots %v", roots)
	}
	if childs := doc.Nodes[0].Children; len(childs) != 1 || childs[0] != 1 {
		t.Errorf("a childs %v", childs)
	}
	if childs := doc.Nodes[1].Children; len(childs) != 0 {
		t.Errorf("b childs %v", childs)
	}
}

func TestExportFbxParentLoop(t *testing.T) {
	scene := &Scene{Models: []*Model{
		loopModel("a", "b", mgl32.Vec3{}),
		loopModel("b", "a", mgl32.Vec3{}),
	}}

	f := scene.ExportFbx("loop.fbx")

	links := make(map[[2]int64]bool)
	roots := 0
	for _, conn := range f.Connections() {
		child, parent := conn.Properties[1].(int64), conn.Properties[2].(int64)
		if parent == 0 {
			roots++
		}
		if links[[2]int64{parent, child}] {
			t.Errorf("models %d and %d are connected both ways", child, parent)
		}
		links[[2]int64{child, parent}] = true
	}
	if roots != 1 || len(f.Connections()) != 2 {
		t.Errorf("%d roots in %d connections", roots, len(f.Connections()))
	}
}

func TestExportSameNamedMaterials(t *testing.T) {
	scene, err := DecodeScene(mshtest.File(
		[]mshtest.Part{
			mshtest.Material("", red, mshtest.StringChunk("TX0D", "first.tga")),
			mshtest.Material("", green, mshtest.StringChunk("TX0D", "second.tga")),
		},
		mshtest.Model("first", segmentWith(mshtest.U32Chunk("MATI", 0))),
		mshtest.Model("second", segmentWith(mshtest.U32Chunk("MATI", 1))),
	))
	if err != nil {
		t.Fatal(err)
	}

	doc, err := scene.ExportGLTF()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Materials) != 2 || len(doc.Textures) != 2 {
		t.Fatalf("materials %d textures %d", len(doc.Materials), len(doc.Textures))
	}
	for i, uri := range []string{"first.tga", "second.tga"} {
		material := doc.Materials[*doc.Meshes[i].Primitives[0].Material]
		texture := doc.Textures[material.PBRMetallicRoughness.BaseColorTexture.Index]
		if doc.Images[*texture.Source].URI != uri {
			t.Errorf("mesh %d uses %q; expected %q", i, doc.Images[*texture.Source].URI, uri)
		}
	}

	counts := make(map[string]int)
	for _, object := range scene.ExportFbx("scene.fbx").Objects() {
		counts[object.Name]++
	}
	if counts["Material"] != 2 {
		t.Errorf("fbx materials %d", counts["Material"])
	}
}
