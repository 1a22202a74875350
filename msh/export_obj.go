package msh

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/utils"
)

func (t *ModelTransform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).Mul4(t.Quat().Mat4())
}

// WorldMatrices combines transforms of every model with its parents
// as ParentIndexes links them.
func (s *Scene) WorldMatrices() []mgl32.Mat4 {
	parents := s.ParentIndexes()
	matrices := make([]mgl32.Mat4, len(s.Models))
	for i, m := range s.Models {
		matrices[i] = m.Transform.Mat4()
		for cur := parents[i]; cur >= 0; cur = parents[cur] {
			matrices[i] = s.Models[cur].Transform.Mat4().Mul4(matrices[i])
		}
	}
	return matrices
}

// ExportObj writes geometry of all models in world space. Materials are
// written into wMatlib, which is referenced from obj by matlibPath.
func (s *Scene) ExportObj(w io.Writer, wMatlib io.Writer, matlibPath string) error {
	var err error
	write := func(dst io.Writer, format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(dst, format+"\n", args...)
		}
	}

	for _, mat := range s.MaterialList {
		write(wMatlib, "newmtl %s", mat.Name)
		write(wMatlib, "Kd 1.000000 1.000000 1.000000")
		write(wMatlib, "Ks %f %f %f", mat.Specular[0], mat.Specular[1], mat.Specular[2])
		if mat.Textures[0] != "" {
			write(wMatlib, "map_Kd %s", mat.Textures[0])
		}
		if mat.Textures[1] != "" {
			write(wMatlib, "map_bump %s", mat.Textures[1])
		}
		write(wMatlib, "")
	}

	write(w, "mtllib %s", filepath.Base(matlibPath))

	names := utils.RandomNameGenerator{}
	for _, m := range s.Models {
		names.Reserve(m.Name)
	}

	worlds := s.WorldMatrices()
	iV, iT, iN := 1, 1, 1
	for iModel, m := range s.Models {
		if len(m.Geometry) == 0 {
			continue
		}
		name := m.Name
		if name == "" {
			name = names.RandomName()
		}

		world := worlds[iModel]
		normalMat := world.Mat3().Inv().Transpose()

		for iSeg, seg := range m.Geometry {
			verticesCount := len(seg.Positions)
			haveUV := len(seg.TexCoords) == verticesCount
			haveNorm := len(seg.Normals) == verticesCount

			write(w, "o %s_seg%d", name, iSeg)
			if seg.MaterialName != "" {
				write(w, "usemtl %s", seg.MaterialName)
			}

			for _, pos := range seg.Positions {
				v := mgl32.TransformCoordinate(pos, world)
				write(w, "v %f %f %f", v[0], v[1], v[2])
			}
			if haveUV {
				for _, uv := range seg.TexCoords {
					write(w, "vt %f %f", uv[0], 1-uv[1])
				}
			}
			if haveNorm {
				for _, normal := range seg.Normals {
					n := normalMat.Mul3x1(normal)
					if n.Len() > 0 {
						n = n.Normalize()
					}
					write(w, "vn %f %f %f", n[0], n[1], n[2])
				}
			}

			indexes := seg.TriangleIndexes()
			for i := 0; i+2 < len(indexes); i += 3 {
				face := "f"
				for _, index := range indexes[i : i+3] {
					v := iV + int(index)
					switch {
					case haveUV && haveNorm:
						face += fmt.Sprintf(" %d/%d/%d", v, iT+int(index), iN+int(index))
					case haveNorm:
						face += fmt.Sprintf(" %d//%d", v, iN+int(index))
					case haveUV:
						face += fmt.Sprintf(" %d/%d", v, iT+int(index))
					default:
						face += fmt.Sprintf(" %d", v)
					}
				}
				write(w, "%s", face)
			}

			iV += verticesCount
			if haveUV {
				iT += verticesCount
			}
			if haveNorm {
				iN += verticesCount
			}
		}
	}

	if err != nil {
		return errors.Wrapf(err, "Failed to write obj")
	}
	return nil
}
