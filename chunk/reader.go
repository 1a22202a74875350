package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// HeaderSize is tag (4 bytes) plus payload length (u32)
const HeaderSize = 8

type Tag [4]byte

func MakeTag(s string) Tag {
	if len(s) != 4 {
		panic(fmt.Sprintf("chunk tag %q must be exactly 4 chars", s))
	}
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string {
	return string(t[:])
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Reader reads inside of one chunk payload. All reads and skips are
// limited to [start, end) of that payload.
type Reader struct {
	c      *Cursor
	parent *Reader
	tag    Tag
	start  int
	end    int
	depth  int
}

// NewReader returns reader over whole buffer. It does not belong to any
// chunk, use ReadChild to open root one.
func NewReader(buf []byte) *Reader {
	return &Reader{
		c:     NewCursor(buf),
		start: 0,
		end:   len(buf),
	}
}

// Open reads byte source fully and returns file level reader.
func Open(r io.Reader) (*Reader, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read source")
	}
	return NewReader(buf), nil
}

func (r *Reader) Tag() Tag        { return r.tag }
func (r *Reader) Depth() int      { return r.depth }
func (r *Reader) Parent() *Reader { return r.parent }
func (r *Reader) Pos() int        { return r.c.Pos() }
func (r *Reader) Start() int      { return r.start }
func (r *Reader) End() int        { return r.end }
func (r *Reader) Remaining() int  { return r.end - r.c.Pos() }

func (r *Reader) String() string {
	return fmt.Sprintf("chunk<%v>[o:0x%x,s:0x%x,p:0x%x]", r.tag, r.start, r.end-r.start, r.c.Pos())
}

func (r *Reader) StringChain() string {
	s := r.String()
	if r.parent != nil && r.parent.parent != nil {
		s += "::" + r.parent.StringChain()
	}
	return s
}

// PeekNextHeader returns tag of the next child without consuming it.
// False means there is no room for one more child header in this chunk.
func (r *Reader) PeekNextHeader() (Tag, bool) {
	var t Tag
	pos := r.c.Pos()
	if r.end-pos < HeaderSize || len(r.c.buf)-pos < HeaderSize {
		return t, false
	}
	copy(t[:], r.c.buf[pos:pos+4])
	return t, true
}

func (r *Reader) CouldHaveChild() bool {
	_, ok := r.PeekNextHeader()
	return ok
}

// ReadChild opens child chunk with expected tag at cursor position and
// passes reader limited to its payload to fn. When ReadChild returns, the
// cursor is always at the end of the child payload, whatever fn consumed
// or returned.
func (r *Reader) ReadChild(expected Tag, fn func(child *Reader) error) error {
	return r.readChild(&expected, func(_ Tag, child *Reader) error {
		return fn(child)
	})
}

// ReadAnyChild opens next child chunk regardless of its tag.
func (r *Reader) ReadAnyChild(fn func(tag Tag, child *Reader) error) error {
	return r.readChild(nil, fn)
}

// SkipChild consumes next child chunk with its payload.
func (r *Reader) SkipChild() error {
	return r.readChild(nil, func(Tag, *Reader) error { return nil })
}

func (r *Reader) readChild(expected *Tag, fn func(Tag, *Reader) error) error {
	headerPos := r.c.Pos()
	if r.end-headerPos < HeaderSize {
		return errors.Wrapf(r.overrun(), "no room for child header at 0x%x in %v", headerPos, r.StringChain())
	}

	raw, err := r.c.Read(HeaderSize)
	if err != nil {
		return errors.Wrapf(err, "child header of %v", r.StringChain())
	}

	var tag Tag
	copy(tag[:], raw[:4])
	length := binary.LittleEndian.Uint32(raw[4:])

	if expected != nil && tag != *expected {
		r.c.pos = headerPos
		return errors.Wrapf(ErrUnexpectedChunk, "expected %v, got %v at 0x%x in %v",
			*expected, tag, headerPos, r.StringChain())
	}

	start := r.c.Pos()
	if int64(length) > int64(r.end-start) {
		r.c.pos = headerPos
		return errors.Wrapf(r.overrun(), "chunk %v at 0x%x declares 0x%x bytes, only 0x%x left in %v",
			tag, headerPos, length, r.end-start, r.StringChain())
	}

	child := &Reader{
		c:      r.c,
		parent: r,
		tag:    tag,
		start:  start,
		end:    start + int(length),
		depth:  r.depth + 1,
	}
	defer func() {
		child.c.pos = child.end
	}()

	if err := fn(tag, child); err != nil {
		return errors.Wrapf(err, "%v", tag)
	}
	return nil
}

// overrun is error kind for crossing end of r. Reader without parent ends
// with buffer itself.
func (r *Reader) overrun() error {
	if r.parent == nil {
		return ErrTruncatedData
	}
	return ErrChunkOverrun
}

func (r *Reader) need(amount int) error {
	if amount < 0 || amount > r.end-r.c.Pos() {
		return errors.Wrapf(r.overrun(), "read 0x%x bytes with 0x%x left in %v",
			amount, r.end-r.c.Pos(), r.StringChain())
	}
	return nil
}

// Skip moves cursor inside of the chunk, negative amount rewinds.
func (r *Reader) Skip(amount int) error {
	newPos := r.c.Pos() + amount
	if newPos < r.start || newPos > r.end {
		return errors.Wrapf(ErrOutOfBounds, "skip 0x%x bytes to 0x%x in %v", amount, newPos, r.StringChain())
	}
	return r.c.Seek(newPos)
}

func (r *Reader) Read(amount int) ([]byte, error) {
	if err := r.need(amount); err != nil {
		return nil, err
	}
	return r.c.Read(amount)
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.c.ReadU8()
}

func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	return r.c.ReadU16()
}

func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return r.c.ReadU32()
}

func (r *Reader) ReadF32() (float32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return r.c.ReadF32()
}

func (r *Reader) ReadU8s(count int) ([]uint8, error) {
	if err := r.need(count); err != nil {
		return nil, err
	}
	return r.c.ReadU8s(count)
}

func (r *Reader) ReadU16s(count int) ([]uint16, error) {
	if err := r.need(count * 2); err != nil {
		return nil, err
	}
	return r.c.ReadU16s(count)
}

func (r *Reader) ReadF32s(count int) ([]float32, error) {
	if err := r.need(count * 4); err != nil {
		return nil, err
	}
	return r.c.ReadF32s(count)
}

// ReadCount reads u32 element count and checks that count elements of
// elementSize bytes fit into the rest of the chunk.
func (r *Reader) ReadCount(elementSize int) (int, error) {
	count, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if elementSize > 0 && int64(count)*int64(elementSize) > int64(r.Remaining()) {
		return 0, errors.Wrapf(r.overrun(), "%d elements of 0x%x bytes with 0x%x left in %v",
			count, elementSize, r.Remaining(), r.StringChain())
	}
	return int(count), nil
}

// ReadString reads null terminated string, limited by the chunk end.
func (r *Reader) ReadString() (string, error) {
	return r.c.ReadString(r.Remaining())
}

