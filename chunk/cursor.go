package chunk

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/utils"
)

// Cursor is a position inside a byte buffer. It knows nothing about chunks,
// all values are little endian.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

func (c *Cursor) Pos() int       { return c.pos }
func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) String() string {
	return fmt.Sprintf("cursor[p:0x%x,s:0x%x]", c.pos, len(c.buf))
}

func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return errors.Wrapf(ErrOutOfBounds, "seek to 0x%x in buffer of size 0x%x", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

// Skip moves cursor by amount bytes, negative amount rewinds.
func (c *Cursor) Skip(amount int) error {
	return c.Seek(c.pos + amount)
}

// Read returns next amount bytes. Result shares memory with buffer.
func (c *Cursor) Read(amount int) ([]byte, error) {
	if amount < 0 || amount > len(c.buf)-c.pos {
		return nil, errors.Wrapf(ErrTruncatedData, "read 0x%x bytes at 0x%x (0x%x left)", amount, c.pos, len(c.buf)-c.pos)
	}
	oldPos := c.pos
	c.pos += amount
	return c.buf[oldPos:c.pos], nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadU8s(count int) ([]uint8, error) {
	b, err := c.Read(count)
	if err != nil {
		return nil, err
	}
	r := make([]uint8, count)
	copy(r, b)
	return r, nil
}

func (c *Cursor) ReadU16s(count int) ([]uint16, error) {
	b, err := c.Read(count * 2)
	if err != nil {
		return nil, err
	}
	r := make([]uint16, count)
	for i := range r {
		r[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return r, nil
}

func (c *Cursor) ReadF32s(count int) ([]float32, error) {
	b, err := c.Read(count * 4)
	if err != nil {
		return nil, err
	}
	r := make([]float32, count)
	for i := range r {
		r[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return r, nil
}

// ReadString consumes bytes up to and including null terminator.
// If no terminator met in limit bytes, then exactly limit bytes consumed.
// Terminator is not part of result.
func (c *Cursor) ReadString(limit int) (string, error) {
	l := -1
	for i := 0; i < limit; i++ {
		if c.pos+i >= len(c.buf) {
			return "", errors.Wrapf(ErrTruncatedData, "unterminated string at 0x%x", c.pos)
		}
		if c.buf[c.pos+i] == 0 {
			l = i + 1
			break
		}
	}
	if l < 0 {
		l = limit
	}

	b, err := c.Read(l)
	if err != nil {
		return "", err
	}
	return utils.BytesToString(b), nil
}
