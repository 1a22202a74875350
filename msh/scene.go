package msh

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/msh_browser/utils"
)

type ModelType uint32

const (
	MODEL_TYPE_NULL ModelType = iota
	MODEL_TYPE_SKIN
	MODEL_TYPE_CLOTH
	MODEL_TYPE_BONE
	MODEL_TYPE_STATIC
)

var modelTypeNames = map[ModelType]string{
	MODEL_TYPE_NULL:   "null",
	MODEL_TYPE_SKIN:   "skin",
	MODEL_TYPE_CLOTH:  "cloth",
	MODEL_TYPE_BONE:   "bone",
	MODEL_TYPE_STATIC: "static",
}

func (t ModelType) String() string {
	if name, ok := modelTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(t))
}

type CollisionShape uint32

const (
	COLLISION_SHAPE_SPHERE CollisionShape = iota
	COLLISION_SHAPE_ELLIPSOID
	COLLISION_SHAPE_CYLINDER
	COLLISION_SHAPE_MESH
	COLLISION_SHAPE_BOX
)

var collisionShapeNames = map[CollisionShape]string{
	COLLISION_SHAPE_SPHERE:    "sphere",
	COLLISION_SHAPE_ELLIPSOID: "ellipsoid",
	COLLISION_SHAPE_CYLINDER:  "cylinder",
	COLLISION_SHAPE_MESH:      "mesh",
	COLLISION_SHAPE_BOX:       "box",
}

func (s CollisionShape) String() string {
	if name, ok := collisionShapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(s))
}

type MaterialFlags uint8

const (
	MATERIAL_FLAG_UNLIT MaterialFlags = 1 << iota
	MATERIAL_FLAG_GLOW
	MATERIAL_FLAG_BLENDED_TRANSPARENCY
	MATERIAL_FLAG_DOUBLESIDED
	MATERIAL_FLAG_HARDEDGED_TRANSPARENCY
	MATERIAL_FLAG_PERPIXEL
	MATERIAL_FLAG_ADDITIVE_TRANSPARENCY
	MATERIAL_FLAG_SPECULAR
)

var materialFlagNames = []string{
	"unlit",
	"glow",
	"blended_transparency",
	"doublesided",
	"hardedged_transparency",
	"perpixel",
	"additive_transparency",
	"specular",
}

func (f MaterialFlags) Has(flag MaterialFlags) bool {
	return f&flag == flag
}

func (f MaterialFlags) String() string {
	if f == 0 {
		return "none"
	}
	names := make([]string, 0, 8)
	for i, name := range materialFlagNames {
		if f&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

type RenderType uint8

const (
	RENDER_TYPE_NORMAL                    RenderType = 0
	RENDER_TYPE_SCROLLING                 RenderType = 3
	RENDER_TYPE_ENVMAPPED                 RenderType = 6
	RENDER_TYPE_ANIMATED                  RenderType = 7
	RENDER_TYPE_REFRACTION                RenderType = 22
	RENDER_TYPE_NORMALMAPPED_TILED        RenderType = 24
	RENDER_TYPE_BLINK                     RenderType = 25
	RENDER_TYPE_NORMALMAPPED_ENVMAPPED    RenderType = 26
	RENDER_TYPE_NORMALMAPPED              RenderType = 27
	RENDER_TYPE_NORMALMAPPED_TILED_ENVMAP RenderType = 29
)

var renderTypeNames = map[RenderType]string{
	RENDER_TYPE_NORMAL:                    "normal",
	RENDER_TYPE_SCROLLING:                 "scrolling",
	RENDER_TYPE_ENVMAPPED:                 "envmapped",
	RENDER_TYPE_ANIMATED:                  "animated",
	RENDER_TYPE_REFRACTION:                "refraction",
	RENDER_TYPE_NORMALMAPPED_TILED:        "normalmapped_tiled",
	RENDER_TYPE_BLINK:                     "blink",
	RENDER_TYPE_NORMALMAPPED_ENVMAPPED:    "normalmapped_envmapped",
	RENDER_TYPE_NORMALMAPPED:              "normalmapped",
	RENDER_TYPE_NORMALMAPPED_TILED_ENVMAP: "normalmapped_tiled_envmap",
}

func (t RenderType) String() string {
	if name, ok := renderTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

type Material struct {
	Name       string
	Specular   utils.ColorFloat
	Flags      MaterialFlags
	RenderType RenderType
	Data       [2]uint8
	// empty string means slot is not used
	Textures [4]string
}

type ModelTransform struct {
	// x, y, z, w as stored in file
	Rotation [4]float32
	Position mgl32.Vec3
}

func (t *ModelTransform) Quat() mgl32.Quat {
	return mgl32.Quat{
		W: t.Rotation[3],
		V: mgl32.Vec3{t.Rotation[0], t.Rotation[1], t.Rotation[2]},
	}
}

type BoneWeight struct {
	Index  uint32
	Weight float32
}

type GeometrySegment struct {
	MaterialName string
	// MATI value, -1 when segment has no material
	MaterialIndex int
	Positions     []mgl32.Vec3
	Normals       []mgl32.Vec3
	TexCoords     []mgl32.Vec2
	// 4 components (r, g, b, a) per vertex
	Colors    []float32
	Weights   []BoneWeight
	Polygons  [][]uint16
	Triangles [][3]uint16
}

func (gs *GeometrySegment) ColorsCount() int {
	return len(gs.Colors) / 4
}

func (gs *GeometrySegment) Color(i int) utils.ColorFloat {
	return utils.NewColorFloatA(gs.Colors[i*4 : i*4+4])
}

// TriangleIndexes returns flat triangle list. Polygons are fan triangulated
// when segment has no explicit triangles.
func (gs *GeometrySegment) TriangleIndexes() []uint32 {
	indexes := make([]uint32, 0, len(gs.Triangles)*3)
	if len(gs.Triangles) != 0 {
		for _, tri := range gs.Triangles {
			indexes = append(indexes, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
		}
		return indexes
	}
	for _, poly := range gs.Polygons {
		for i := 2; i < len(poly); i++ {
			indexes = append(indexes, uint32(poly[0]), uint32(poly[i-1]), uint32(poly[i]))
		}
	}
	return indexes
}

type CollisionPrimitive struct {
	Shape  CollisionShape
	Radius float32
	Height float32
	Length float32
}

type Model struct {
	Name      string
	Parent    string
	Type      ModelType
	Hidden    bool
	Transform ModelTransform
	Geometry  []*GeometrySegment
	Collision *CollisionPrimitive
}

type Scene struct {
	Models []*Model
	// keyed by "Material<index in file>"
	Materials map[string]*Material
	// same materials in file order
	MaterialList []*Material
}

func MaterialKey(index int) string {
	return fmt.Sprintf("Material%d", index)
}

func (s *Scene) ModelByName(name string) *Model {
	for _, m := range s.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Childs returns models whose parent reference is name.
func (s *Scene) Childs(name string) []*Model {
	childs := make([]*Model, 0)
	for _, m := range s.Models {
		if m.Parent != "" && m.Parent == name {
			childs = append(childs, m)
		}
	}
	return childs
}

// ParentIndexes returns index of parent model for every model, -1 for
// roots. Parent names resolve to the first model with that name. A model
// reached again while following parents from an earlier model becomes a
// root, so result never has loops.
func (s *Scene) ParentIndexes() []int {
	firstByName := make(map[string]int, len(s.Models))
	for i, m := range s.Models {
		if _, exists := firstByName[m.Name]; !exists {
			firstByName[m.Name] = i
		}
	}

	parents := make([]int, len(s.Models))
	for i, m := range s.Models {
		parents[i] = -1
		if m.Parent != "" {
			if parent, ok := firstByName[m.Parent]; ok {
				parents[i] = parent
			}
		}
	}

	for i := range parents {
		visited := map[int]bool{}
		for cur := i; parents[cur] != -1; cur = parents[cur] {
			visited[cur] = true
			if visited[parents[cur]] {
				parents[parents[cur]] = -1
				break
			}
		}
	}
	return parents
}

// SegmentMaterial returns material referenced by segment and its index.
func (s *Scene) SegmentMaterial(gs *GeometrySegment) (int, *Material) {
	if gs.MaterialIndex >= 0 && gs.MaterialIndex < len(s.MaterialList) {
		return gs.MaterialIndex, s.MaterialList[gs.MaterialIndex]
	}
	if gs.MaterialName == "" {
		return -1, nil
	}
	return s.MaterialByName(gs.MaterialName)
}

func (s *Scene) MaterialByName(name string) (int, *Material) {
	for i, m := range s.MaterialList {
		if m.Name == name {
			return i, m
		}
	}
	return -1, nil
}
