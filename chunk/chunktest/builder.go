// Package chunktest builds synthetic chunk files for tests.
package chunktest

import (
	"encoding/binary"
	"math"
)

type Builder struct {
	buf   []byte
	stack []int
}

func New() *Builder {
	return &Builder{buf: make([]byte, 0, 256)}
}

// Begin writes chunk header with length placeholder, patched by End.
func (b *Builder) Begin(tag string) *Builder {
	if len(tag) != 4 {
		panic(tag)
	}
	b.buf = append(b.buf, tag...)
	b.stack = append(b.stack, len(b.buf))
	return b.U32(0)
}

func (b *Builder) End() *Builder {
	lenPos := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	binary.LittleEndian.PutUint32(b.buf[lenPos:], uint32(len(b.buf)-lenPos-4))
	return b
}

func (b *Builder) Chunk(tag string, body func(b *Builder)) *Builder {
	b.Begin(tag)
	if body != nil {
		body(b)
	}
	return b.End()
}

// Header writes header with arbitrary declared length.
func (b *Builder) Header(tag string, length uint32) *Builder {
	b.buf = append(b.buf, tag...)
	return b.U32(length)
}

func (b *Builder) Raw(data ...byte) *Builder {
	b.buf = append(b.buf, data...)
	return b
}

func (b *Builder) U8(values ...uint8) *Builder {
	return b.Raw(values...)
}

func (b *Builder) U16(values ...uint16) *Builder {
	var tmp [2]byte
	for _, v := range values {
		binary.LittleEndian.PutUint16(tmp[:], v)
		b.buf = append(b.buf, tmp[:]...)
	}
	return b
}

func (b *Builder) U32(values ...uint32) *Builder {
	var tmp [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(tmp[:], v)
		b.buf = append(b.buf, tmp[:]...)
	}
	return b
}

func (b *Builder) F32(values ...float32) *Builder {
	for _, v := range values {
		b.U32(math.Float32bits(v))
	}
	return b
}

// String writes null terminated string padded with zeroes to 4 bytes.
func (b *Builder) String(s string) *Builder {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	for n := len(s) + 1; n%4 != 0; n++ {
		b.buf = append(b.buf, 0)
	}
	return b
}

func (b *Builder) Len() int { return len(b.buf) }

func (b *Builder) Bytes() []byte {
	if len(b.stack) != 0 {
		panic("unclosed chunks")
	}
	return b.buf
}
