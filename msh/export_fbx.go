package msh

import (
	"fmt"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/msh_browser/utils"
	"github.com/mogaika/msh_browser/utils/fbxbuilder"
)

type FbxMaterialExported struct {
	MaterialId int64
}

type FbxModelExported struct {
	FbxModelId int64
	FbxModel   *fbx.Node
	// one mesh model per segment, connected to FbxModel
	SegmentModelIds []int64
}

func (m *Material) ExportFbx(f *fbxbuilder.FBXBuilder, index int) *FbxMaterialExported {
	key := "material_" + MaterialKey(index)
	if cached := f.GetCached(key); cached != nil {
		return cached.(*FbxMaterialExported)
	}

	fme := &FbxMaterialExported{MaterialId: f.GenerateId()}
	defer f.AddCache(key, fme)

	opacity := float64(1)
	if m.Flags.Has(MATERIAL_FLAG_BLENDED_TRANSPARENCY) || m.Flags.Has(MATERIAL_FLAG_ADDITIVE_TRANSPARENCY) {
		opacity = 0.5
	}

	props := bfbx73.Properties70().AddNodes(
		bfbx73.P("AmbientColor", "Color", "", "A", float64(0), float64(0), float64(0)),
		bfbx73.P("DiffuseColor", "Color", "", "A", float64(1), float64(1), float64(1)),
		bfbx73.P("SpecularColor", "Color", "", "A",
			float64(m.Specular[0]), float64(m.Specular[1]), float64(m.Specular[2])),
		bfbx73.P("Emissive", "Vector3D", "Vector", "", float64(0), float64(0), float64(0)),
		bfbx73.P("Ambient", "Vector3D", "Vector", "", float64(0), float64(0), float64(0)),
		bfbx73.P("Diffuse", "Vector3D", "Vector", "", float64(1), float64(1), float64(1)),
		bfbx73.P("Opacity", "double", "Number", "", opacity),
	)
	if m.Flags.Has(MATERIAL_FLAG_GLOW) {
		props.AddNodes(bfbx73.P("EmissiveColor", "Color", "", "A", float64(1), float64(1), float64(1)))
	}
	for i, texture := range m.Textures {
		if texture != "" {
			props.AddNodes(bfbx73.P(fmt.Sprintf("Texture%d", i), "KString", "", "", texture))
		}
	}

	f.AddObjects(bfbx73.Material(fme.MaterialId, m.Name+"\x00\x01Material", "").AddNodes(
		bfbx73.Version(102),
		bfbx73.ShadingModel("lambert"),
		bfbx73.MultiLayer(0),
		props,
	))

	return fme
}

func (gs *GeometrySegment) exportFbxGeometry(f *fbxbuilder.FBXBuilder) (int64, *fbx.Node) {
	verticesCount := len(gs.Positions)

	vertices := make([]float64, 0, verticesCount*3)
	for _, pos := range gs.Positions {
		vertices = append(vertices, float64(pos[0]), float64(pos[1]), float64(pos[2]))
	}

	// last index of every polygon is stored as -(index)-1
	indexes := make([]int32, 0)
	if len(gs.Triangles) != 0 {
		for _, tri := range gs.Triangles {
			indexes = append(indexes, int32(tri[0]), int32(tri[1]), -int32(tri[2])-1)
		}
	} else {
		for _, poly := range gs.Polygons {
			if len(poly) < 3 {
				continue
			}
			for _, index := range poly[:len(poly)-1] {
				indexes = append(indexes, int32(index))
			}
			indexes = append(indexes, -int32(poly[len(poly)-1])-1)
		}
	}

	geometryId := f.GenerateId()
	geometryLayer := bfbx73.Layer(0).AddNodes(
		bfbx73.Version(100),
	)

	geometry := bfbx73.Geometry(geometryId, "\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
		),
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(indexes),
		geometryLayer,
	)

	addLayer := func(element *fbx.Node, typeName string) {
		geometry.AddNode(element)
		geometryLayer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type(typeName),
				bfbx73.TypedIndex(0),
			),
		)
	}

	if len(gs.Normals) == verticesCount {
		normals := make([]float64, 0, verticesCount*3)
		for _, n := range gs.Normals {
			normals = append(normals, float64(n[0]), float64(n[1]), float64(n[2]))
		}
		addLayer(bfbx73.LayerElementNormal(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByVertice"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.Normals(normals),
		), "LayerElementNormal")
	}

	if gs.ColorsCount() == verticesCount {
		rgba := make([]float64, len(gs.Colors))
		for i, c := range gs.Colors {
			rgba[i] = float64(c)
		}
		addLayer(bfbx73.LayerElementColor(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByVertice"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.Colors(rgba),
		), "LayerElementColor")
	}

	if len(gs.TexCoords) == verticesCount {
		uv := make([]float64, 0, verticesCount*2)
		for _, t := range gs.TexCoords {
			uv = append(uv, float64(t[0]), float64(-t[1]))
		}
		uvIndexes := make([]int32, len(indexes))
		for i, index := range indexes {
			if index < 0 {
				index = -index - 1
			}
			uvIndexes[i] = index
		}
		addLayer(bfbx73.LayerElementUV(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.UV(uv),
			bfbx73.UVIndex(uvIndexes),
		), "LayerElementUV")
	}

	addLayer(bfbx73.LayerElementMaterial(0).AddNodes(
		bfbx73.Version(101),
		bfbx73.Name(""),
		bfbx73.MappingInformationType("AllSame"),
		bfbx73.ReferenceInformationType("IndexToDirect"),
		bfbx73.Materials([]int32{0}),
	), "LayerElementMaterial")

	return geometryId, geometry
}

func fbxModel(id int64, name string, class string, xform *ModelTransform, hidden bool) *fbx.Node {
	var translation, rotation [3]float64
	if xform != nil {
		euler := utils.QuatToEulerDegrees(xform.Quat())
		for i := range translation {
			translation[i] = float64(xform.Position[i])
			rotation[i] = float64(euler[i])
		}
	}
	visibility := float64(1)
	if hidden {
		visibility = 0
	}

	return bfbx73.Model(id, name+"\x00\x01Model", class).AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", translation[0], translation[1], translation[2]),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", rotation[0], rotation[1], rotation[2]),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
			bfbx73.P("Visibility", "Visibility", "", "A", visibility),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)
}

func (m *Model) ExportFbx(f *fbxbuilder.FBXBuilder, s *Scene) *FbxModelExported {
	fme := &FbxModelExported{FbxModelId: f.GenerateId()}
	fme.FbxModel = fbxModel(fme.FbxModelId, m.Name, "Null", &m.Transform, m.Hidden)
	f.AddObjects(fme.FbxModel)

	for iSeg, seg := range m.Geometry {
		if len(seg.Positions) == 0 {
			continue
		}
		geometryId, geometry := seg.exportFbxGeometry(f)

		segModelId := f.GenerateId()
		segModel := fbxModel(segModelId, fmt.Sprintf("%s_seg%d", m.Name, iSeg), "Mesh", nil, false)

		f.AddObjects(segModel, geometry)
		f.AddConnections(
			bfbx73.C("OO", geometryId, segModelId),
			bfbx73.C("OO", segModelId, fme.FbxModelId),
		)

		if index, mat := s.SegmentMaterial(seg); mat != nil {
			f.AddConnections(bfbx73.C("OO", mat.ExportFbx(f, index).MaterialId, segModelId))
		}
		fme.SegmentModelIds = append(fme.SegmentModelIds, segModelId)
	}

	return fme
}

// ExportFbx builds fbx document of whole scene. Models keep hierarchy
// of ParentIndexes, models without parent are attached to the root.
func (s *Scene) ExportFbx(name string) *fbxbuilder.FBXBuilder {
	f := fbxbuilder.NewFBXBuilder(name)

	exported := make([]*FbxModelExported, len(s.Models))
	for i, m := range s.Models {
		exported[i] = m.ExportFbx(f, s)
	}

	for i, parentIndex := range s.ParentIndexes() {
		parentId := int64(0)
		if parentIndex >= 0 {
			parentId = exported[parentIndex].FbxModelId
		}
		f.AddConnections(bfbx73.C("OO", exported[i].FbxModelId, parentId))
	}

	return f
}
