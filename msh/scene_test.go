package msh

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

func TestEnumStrings(t *testing.T) {
	var stringTests = []struct {
		v   interface{ String() string }
		out string
	}{
		{MODEL_TYPE_SKIN, "skin"},
		{ModelType(77), "unknown(77)"},
		{COLLISION_SHAPE_BOX, "box"},
		{MaterialFlags(0), "none"},
		{MATERIAL_FLAG_UNLIT | MATERIAL_FLAG_DOUBLESIDED, "unlit|doublesided"},
		{RENDER_TYPE_SCROLLING, "scrolling"},
		{RenderType(5), "unknown(5)"},
	}

	for _, test := range stringTests {
		if s := test.v.String(); s != test.out {
			t.Errorf("%#v.String()=%q; expected %q", test.v, s, test.out)
		}
	}
}

func TestMaterialYAML(t *testing.T) {
	mat := &Material{
		Name:       "Glass",
		Flags:      MATERIAL_FLAG_GLOW | MATERIAL_FLAG_SPECULAR,
		RenderType: RENDER_TYPE_REFRACTION,
	}

	out, err := yaml.Marshal(mat)
	if err != nil {
		t.Fatal(err)
	}
	for _, expected := range []string{
		"name: Glass\n",
		"flags: glow|specular\n",
		"rendertype: refraction",
		"code 22",
	} {
		if !strings.Contains(string(out), expected) {
			t.Errorf("yaml does not contain %q:\n%s", expected, out)
		}
	}
}

func TestTriangleIndexes(t *testing.T) {
	seg := &GeometrySegment{
		Triangles: [][3]uint16{{0, 1, 2}, {2, 1, 3}},
		// ignored when triangles are present
		Polygons: [][]uint16{{5, 6, 7}},
	}
	if idx := seg.TriangleIndexes(); len(idx) != 6 || idx[3] != 2 || idx[5] != 3 {
		t.Errorf("TriangleIndexes()=%v", idx)
	}

	seg = &GeometrySegment{Polygons: [][]uint16{{0, 1}, {4, 5, 6, 7, 8}}}
	expected := []uint32{4, 5, 6, 4, 6, 7, 4, 7, 8}
	idx := seg.TriangleIndexes()
	if len(idx) != len(expected) {
		t.Fatalf("TriangleIndexes()=%v; expected %v", idx, expected)
	}
	for i := range idx {
		if idx[i] != expected[i] {
			t.Fatalf("TriangleIndexes()=%v; expected %v", idx, expected)
		}
	}
}

func TestTransformQuat(t *testing.T) {
	xform := ModelTransform{Rotation: [4]float32{0.1, 0.2, 0.3, 0.9}}
	q := xform.Quat()
	if q.W != 0.9 || q.V != (mgl32.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("Quat()=%v", q)
	}
}
