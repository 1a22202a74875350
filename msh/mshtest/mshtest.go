// Package mshtest builds synthetic msh files for tests.
package mshtest

import (
	"github.com/mogaika/msh_browser/chunk/chunktest"
)

type Part func(b *chunktest.Builder)

// File returns HEDR/MSH2 file with scene info, materials list and then body
// parts in order.
func File(materials []Part, body ...Part) []byte {
	return chunktest.New().Chunk("HEDR", func(b *chunktest.Builder) {
		b.Chunk("MSH2", func(b *chunktest.Builder) {
			b.Chunk("SINF", func(b *chunktest.Builder) {
				b.Chunk("NAME", func(b *chunktest.Builder) { b.String("scene") })
			})
			b.Chunk("MATL", func(b *chunktest.Builder) {
				b.U32(uint32(len(materials)))
				for _, m := range materials {
					m(b)
				}
			})
			for _, part := range body {
				part(b)
			}
		})
	}).Bytes()
}

func StringChunk(tag, s string) Part {
	return func(b *chunktest.Builder) {
		b.Chunk(tag, func(b *chunktest.Builder) { b.String(s) })
	}
}

func U32Chunk(tag string, v uint32) Part {
	return func(b *chunktest.Builder) {
		b.Chunk(tag, func(b *chunktest.Builder) { b.U32(v) })
	}
}

// Unknown returns chunk with tag no decoder knows about.
func Unknown(tag string) Part {
	return func(b *chunktest.Builder) {
		b.Chunk(tag, func(b *chunktest.Builder) { b.U32(0x12345678, 0x9abcdef0).U16(1) })
	}
}

func Material(name string, specular [4]float32, fields ...Part) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("MATD", func(b *chunktest.Builder) {
			StringChunk("NAME", name)(b)
			b.Chunk("DATA", func(b *chunktest.Builder) {
				b.F32(0.5, 0.5, 0.5, 1)
				b.F32(specular[:]...)
				b.F32(0.1, 0.1, 0.1, 1)
				b.F32(50)
			})
			for _, f := range fields {
				f(b)
			}
		})
	}
}

func Attributes(flags, renderType, data0, data1 uint8) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("ATRB", func(b *chunktest.Builder) { b.U8(flags, renderType, data0, data1) })
	}
}

// Model returns MODL with type, index, name and identity transform
// followed by fields.
func Model(name string, fields ...Part) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("MODL", func(b *chunktest.Builder) {
			U32Chunk("MTYP", 4)(b)
			U32Chunk("MNDX", 1)(b)
			StringChunk("NAME", name)(b)
			Transform([4]float32{0, 0, 0, 1}, [3]float32{0, 0, 0})(b)
			for _, f := range fields {
				f(b)
			}
		})
	}
}

func Transform(rotation [4]float32, position [3]float32) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("TRAN", func(b *chunktest.Builder) {
			b.F32(1, 1, 1)
			b.F32(rotation[:]...)
			b.F32(position[:]...)
		})
	}
}

func Geometry(parts ...Part) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("GEOM", func(b *chunktest.Builder) {
			for _, p := range parts {
				p(b)
			}
		})
	}
}

func Segment(fields ...Part) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("SEGM", func(b *chunktest.Builder) {
			for _, f := range fields {
				f(b)
			}
		})
	}
}

func Vec3List(tag string, values ...[3]float32) Part {
	return Vec3ListCount(tag, uint32(len(values)), values...)
}

// Vec3ListCount writes count that may differ from the amount of values.
func Vec3ListCount(tag string, count uint32, values ...[3]float32) Part {
	return func(b *chunktest.Builder) {
		b.Chunk(tag, func(b *chunktest.Builder) {
			b.U32(count)
			for _, v := range values {
				b.F32(v[:]...)
			}
		})
	}
}

func TexCoords(values ...[2]float32) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("UV0L", func(b *chunktest.Builder) {
			b.U32(uint32(len(values)))
			for _, v := range values {
				b.F32(v[:]...)
			}
		})
	}
}

func Colors(packed ...uint32) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("CLRL", func(b *chunktest.Builder) {
			b.U32(uint32(len(packed))).U32(packed...)
		})
	}
}

func Triangles(triangles ...[3]uint16) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("NDXT", func(b *chunktest.Builder) {
			b.U32(uint32(len(triangles)))
			for _, t := range triangles {
				b.U16(t[:]...)
			}
		})
	}
}

func Polygons(polygons ...[]uint16) Part {
	return func(b *chunktest.Builder) {
		b.Chunk("NDXL", func(b *chunktest.Builder) {
			b.U32(uint32(len(polygons)))
			for _, p := range polygons {
				b.U16(uint16(len(p))).U16(p...)
			}
		})
	}
}

// Cube returns small file with one red material and one model "Cube"
// holding single triangle.
func Cube() []byte {
	return File(
		[]Part{Material("Red", [4]float32{1, 0, 0, 1})},
		Model("Cube", Geometry(Segment(
			U32Chunk("MATI", 0),
			Vec3List("POSL", [3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}),
			Triangles([3]uint16{0, 1, 2}),
		))),
	)
}
