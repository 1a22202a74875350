package msh

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/msh_browser/utils/gltfutils"
)

// ExportGLTF adds material to document once per material index.
func (m *Material) ExportGLTF(gltfCacher *gltfutils.Cacher, index int) uint32 {
	return gltfCacher.GetCachedOr("material_"+MaterialKey(index), func() interface{} {
		doc := gltfCacher.Doc

		color := new([4]float32)
		*color = m.Specular

		gltfMaterial := &gltf.Material{
			Name:        m.Name,
			DoubleSided: m.Flags.Has(MATERIAL_FLAG_DOUBLESIDED),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: color,
			},
			Extras: map[string]interface{}{
				"flags":      m.Flags.String(),
				"renderType": m.RenderType.String(),
			},
		}

		switch {
		case m.Flags.Has(MATERIAL_FLAG_HARDEDGED_TRANSPARENCY):
			gltfMaterial.AlphaMode = gltf.AlphaMask
		case m.Flags.Has(MATERIAL_FLAG_BLENDED_TRANSPARENCY), m.Flags.Has(MATERIAL_FLAG_ADDITIVE_TRANSPARENCY):
			gltfMaterial.AlphaMode = gltf.AlphaBlend
		}
		if m.Flags.Has(MATERIAL_FLAG_GLOW) {
			gltfMaterial.EmissiveFactor = [3]float32{1, 1, 1}
		}

		if texture := m.Textures[0]; texture != "" {
			textureIndex := gltfCacher.GetCachedOr("texture_"+texture, func() interface{} {
				doc.Images = append(doc.Images, &gltf.Image{
					Name: texture,
					URI:  texture,
				})
				doc.Textures = append(doc.Textures, &gltf.Texture{
					Source: gltf.Index(uint32(len(doc.Images) - 1)),
				})
				return uint32(len(doc.Textures) - 1)
			}).(uint32)

			gltfMaterial.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
				Index: textureIndex,
			}
		}

		doc.Materials = append(doc.Materials, gltfMaterial)
		return uint32(len(doc.Materials) - 1)
	}).(uint32)
}

// ExportGLTF writes vertex data of segment and returns primitive for it.
// Nil means segment has nothing to draw.
func (gs *GeometrySegment) ExportGLTF(doc *gltf.Document) *gltf.Primitive {
	verticesCount := len(gs.Positions)
	indices := gs.TriangleIndexes()
	if verticesCount == 0 || len(indices) == 0 {
		return nil
	}

	attributes := make(map[string]uint32)
	{
		positions := make([][3]float32, verticesCount)
		for i, pos := range gs.Positions {
			positions[i] = pos
		}
		attributes["POSITION"] = modeler.WritePosition(doc, positions)
	}

	// layers with other vertex count can not be attached to primitive
	if len(gs.Normals) == verticesCount {
		normals := make([][3]float32, verticesCount)
		for i, normal := range gs.Normals {
			if normal.Len() > 0.5 {
				normal = normal.Normalize()
			}
			normals[i] = normal
		}
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	if len(gs.TexCoords) == verticesCount {
		uvs := make([][2]float32, verticesCount)
		for i, uv := range gs.TexCoords {
			uvs[i] = uv
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	if gs.ColorsCount() == verticesCount {
		colors := make([][4]uint8, verticesCount)
		for i := range colors {
			color := gs.Color(i)
			colors[i] = color.RGBA8()
		}
		attributes["COLOR_0"] = modeler.WriteColor(doc, colors)
	}

	return &gltf.Primitive{
		Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: attributes,
	}
}

func (m *Model) exportGLTFNode(gltfCacher *gltfutils.Cacher, s *Scene) *gltf.Node {
	doc := gltfCacher.Doc
	q := m.Transform.Quat()

	node := &gltf.Node{
		Name:        m.Name,
		Translation: m.Transform.Position,
		Rotation:    q.V.Vec4(q.W),
		Scale:       [3]float32{1, 1, 1},
	}
	if m.Hidden {
		node.Extras = map[string]interface{}{"hidden": true}
	}

	primitives := make([]*gltf.Primitive, 0, len(m.Geometry))
	for _, seg := range m.Geometry {
		primitive := seg.ExportGLTF(doc)
		if primitive == nil {
			continue
		}
		if index, mat := s.SegmentMaterial(seg); mat != nil {
			primitive.Material = gltf.Index(mat.ExportGLTF(gltfCacher, index))
		}
		primitives = append(primitives, primitive)
	}

	if len(primitives) != 0 {
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       m.Name,
			Primitives: primitives,
		})
		node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
	}

	return node
}

// ExportGLTF converts scene into gltf document. Models become nodes
// connected as ParentIndexes tells, models without parent are scene roots.
func (s *Scene) ExportGLTF() (*gltf.Document, error) {
	gltfCacher := gltfutils.NewCacher()
	doc := gltfCacher.Doc

	for _, m := range s.Models {
		doc.Nodes = append(doc.Nodes, m.exportGLTFNode(gltfCacher, s))
	}

	for i, parentIndex := range s.ParentIndexes() {
		if parentIndex < 0 {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(i))
		} else {
			parent := doc.Nodes[parentIndex]
			parent.Children = append(parent.Children, uint32(i))
		}
	}

	return doc, nil
}
