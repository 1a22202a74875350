package msh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/chunk"
	"github.com/mogaika/msh_browser/utils"
)

func (d *decoder) readSegment(segm *chunk.Reader) (*GeometrySegment, error) {
	seg := &GeometrySegment{MaterialIndex: -1}
	positionsCount := 0

	for segm.CouldHaveChild() {
		tag, _ := segm.PeekNextHeader()

		var err error
		switch tag {
		case tagMATI:
			var index uint32
			if err = readU32Child(segm, tagMATI, &index); err == nil {
				if int64(index) >= int64(len(d.materials)) {
					err = errors.Wrapf(chunk.ErrMalformedFile, "material index %d with %d materials", index, len(d.materials))
				} else {
					seg.MaterialName = d.materials[index].Name
					seg.MaterialIndex = int(index)
				}
			}
		case tagPOSL:
			err = segm.ReadChild(tagPOSL, func(posl *chunk.Reader) error {
				count, err := posl.ReadCount(3 * 4)
				if err != nil {
					return err
				}
				seg.Positions, err = readVec3s(posl, count)
				positionsCount = count
				return err
			})
		case tagNRML:
			err = segm.ReadChild(tagNRML, func(nrml *chunk.Reader) error {
				var count int
				var err error
				if d.legacyNormalCount {
					if _, err = nrml.ReadU32(); err != nil {
						return err
					}
					count = positionsCount
				} else if count, err = nrml.ReadCount(3 * 4); err != nil {
					return err
				}
				seg.Normals, err = readVec3s(nrml, count)
				return err
			})
		case tagWGHT:
			err = segm.ReadChild(tagWGHT, func(wght *chunk.Reader) error {
				var err error
				seg.Weights, err = readWeights(wght)
				return err
			})
		case tagCLRL:
			err = segm.ReadChild(tagCLRL, func(clrl *chunk.Reader) error {
				var err error
				seg.Colors, err = readColors(clrl)
				return err
			})
		case tagUV0L:
			err = segm.ReadChild(tagUV0L, func(uv0l *chunk.Reader) error {
				var err error
				seg.TexCoords, err = readTexCoords(uv0l)
				return err
			})
		case tagNDXL:
			err = segm.ReadChild(tagNDXL, func(ndxl *chunk.Reader) error {
				var err error
				seg.Polygons, err = readPolygons(ndxl)
				return err
			})
		case tagNDXT:
			err = segm.ReadChild(tagNDXT, func(ndxt *chunk.Reader) error {
				var err error
				seg.Triangles, err = readTriangles(ndxt)
				return err
			})
		case tagSTRP:
			err = readStrip(segm)
		default:
			err = segm.SkipChild()
		}
		if err != nil {
			return nil, err
		}
	}

	return seg, nil
}

func readVec3s(r *chunk.Reader, count int) ([]mgl32.Vec3, error) {
	values, err := r.ReadF32s(count * 3)
	if err != nil {
		return nil, err
	}
	vecs := make([]mgl32.Vec3, count)
	for i := range vecs {
		vecs[i] = mgl32.Vec3{values[i*3], values[i*3+1], values[i*3+2]}
	}
	return vecs, nil
}

func readTexCoords(uv0l *chunk.Reader) ([]mgl32.Vec2, error) {
	count, err := uv0l.ReadCount(2 * 4)
	if err != nil {
		return nil, err
	}
	values, err := uv0l.ReadF32s(count * 2)
	if err != nil {
		return nil, err
	}
	uvs := make([]mgl32.Vec2, count)
	for i := range uvs {
		uvs[i] = mgl32.Vec2{values[i*2], values[i*2+1]}
	}
	return uvs, nil
}

func readWeights(wght *chunk.Reader) ([]BoneWeight, error) {
	count, err := wght.ReadCount(4 + 4)
	if err != nil {
		return nil, err
	}
	weights := make([]BoneWeight, count)
	for i := range weights {
		if weights[i].Index, err = wght.ReadU32(); err != nil {
			return nil, err
		}
		if weights[i].Weight, err = wght.ReadF32(); err != nil {
			return nil, err
		}
	}
	return weights, nil
}

func readColors(clrl *chunk.Reader) ([]float32, error) {
	count, err := clrl.ReadCount(4)
	if err != nil {
		return nil, err
	}
	colors := make([]float32, 0, count*4)
	for i := 0; i < count; i++ {
		packed, err := clrl.ReadU32()
		if err != nil {
			return nil, err
		}
		color := utils.UnpackColor(packed)
		colors = append(colors, color[:]...)
	}
	return colors, nil
}

func readPolygons(ndxl *chunk.Reader) ([][]uint16, error) {
	// every polygon takes at least its u16 vertex count
	count, err := ndxl.ReadCount(2)
	if err != nil {
		return nil, err
	}
	polygons := make([][]uint16, count)
	for i := range polygons {
		verticesCount, err := ndxl.ReadU16()
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		if polygons[i], err = ndxl.ReadU16s(int(verticesCount)); err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
	}
	return polygons, nil
}

func readTriangles(ndxt *chunk.Reader) ([][3]uint16, error) {
	count, err := ndxt.ReadCount(3 * 2)
	if err != nil {
		return nil, err
	}
	indexes, err := ndxt.ReadU16s(count * 3)
	if err != nil {
		return nil, err
	}
	triangles := make([][3]uint16, count)
	for i := range triangles {
		copy(triangles[i][:], indexes[i*3:])
	}
	return triangles, nil
}

// readStrip skips STRP chunk. Some exporters put extra u16 zero after strip
// data, it is consumed here. Non zero value belongs to the next chunk and is
// left in place.
func readStrip(segm *chunk.Reader) error {
	if err := segm.SkipChild(); err != nil {
		return err
	}
	if segm.Remaining() < 2 {
		return nil
	}
	if v, err := segm.ReadU16(); err != nil {
		return err
	} else if v != 0 {
		return segm.Skip(-2)
	}
	return nil
}
