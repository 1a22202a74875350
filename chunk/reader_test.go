package chunk

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/chunk/chunktest"
)

var (
	tagROOT = MakeTag("ROOT")
	tagLEAF = MakeTag("LEAF")
)

func TestReadChildAlwaysLandsOnChunkEnd(t *testing.T) {
	// ROOT { LEAF(16 bytes) } + 4 bytes after
	buf := chunktest.New().Chunk("ROOT", func(b *chunktest.Builder) {
		b.Chunk("LEAF", func(b *chunktest.Builder) {
			b.U32(1, 2, 3, 4)
		})
	}).U32(0xdeadbeef).Bytes()

	const leafStart = HeaderSize
	const leafEnd = leafStart + HeaderSize + 16

	var consumeTests = []struct {
		name    string
		consume func(leaf *Reader) error
	}{
		{"nothing", func(leaf *Reader) error { return nil }},
		{"partial", func(leaf *Reader) error { _, err := leaf.ReadU32(); return err }},
		{"all", func(leaf *Reader) error { _, err := leaf.ReadF32s(4); return err }},
		{"error", func(leaf *Reader) error { return errors.New("decoder failure") }},
		{"overrun", func(leaf *Reader) error { _, err := leaf.Read(17); return err }},
	}

	for _, test := range consumeTests {
		r := NewReader(buf)
		var leafPos int
		err := r.ReadChild(tagROOT, func(root *Reader) error {
			err := root.ReadChild(tagLEAF, test.consume)
			leafPos = root.Pos()
			return err
		})
		if leafPos != leafEnd {
			t.Errorf("%s: cursor after LEAF at 0x%x; expected 0x%x", test.name, leafPos, leafEnd)
		}
		if r.Pos() != leafEnd {
			t.Errorf("%s: cursor after ROOT at 0x%x; expected 0x%x", test.name, r.Pos(), leafEnd)
		}
		if test.name == "overrun" && !errors.Is(err, ErrChunkOverrun) {
			t.Errorf("%s: %v; expected ErrChunkOverrun", test.name, err)
		}
		if v, err := r.ReadU32(); err != nil || v != 0xdeadbeef {
			t.Errorf("%s: data after ROOT is %#x,%v", test.name, v, err)
		}
	}
}

func TestReadChildRestoresCursorOnPanic(t *testing.T) {
	buf := chunktest.New().Chunk("ROOT", func(b *chunktest.Builder) { b.U32(1, 2) }).Bytes()
	r := NewReader(buf)

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("panic was not propagated")
			}
		}()
		r.ReadChild(tagROOT, func(root *Reader) error {
			panic("boom")
		})
	}()

	if r.Pos() != len(buf) {
		t.Errorf("cursor at 0x%x after panic; expected 0x%x", r.Pos(), len(buf))
	}
}

func TestReadChildUnexpectedTag(t *testing.T) {
	buf := chunktest.New().Chunk("LEAF", func(b *chunktest.Builder) { b.U32(1) }).Bytes()
	r := NewReader(buf)

	called := false
	err := r.ReadChild(tagROOT, func(*Reader) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrUnexpectedChunk) {
		t.Errorf("got %v; expected ErrUnexpectedChunk", err)
	}
	if called {
		t.Errorf("callback called for mismatched tag")
	}
	if r.Pos() != 0 {
		t.Errorf("mismatched tag consumed header, cursor at 0x%x", r.Pos())
	}

	var got Tag
	if err := r.ReadAnyChild(func(tag Tag, child *Reader) error {
		got = tag
		return nil
	}); err != nil || got != tagLEAF {
		t.Errorf("ReadAnyChild tag %v,%v; expected LEAF", got, err)
	}
}

func TestReadChildLengthOverrun(t *testing.T) {
	// LEAF declares 100 bytes inside ROOT of 12 bytes
	buf := chunktest.New().Chunk("ROOT", func(b *chunktest.Builder) {
		b.Header("LEAF", 100).U32(0)
	}).Bytes()

	err := NewReader(buf).ReadChild(tagROOT, func(root *Reader) error {
		return root.ReadChild(tagLEAF, func(*Reader) error { return nil })
	})
	if !errors.Is(err, ErrChunkOverrun) {
		t.Errorf("got %v; expected ErrChunkOverrun", err)
	}

	// root chunk longer than buffer itself
	short := chunktest.New().Header("ROOT", 100).U32(0).Bytes()
	err = NewReader(short).ReadChild(tagROOT, func(*Reader) error { return nil })
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("got %v; expected ErrTruncatedData", err)
	}
}

func TestPeekNextHeader(t *testing.T) {
	buf := chunktest.New().Chunk("ROOT", func(b *chunktest.Builder) {
		b.Chunk("LEAF", nil)
		b.U32(0) // 4 bytes tail is not enough for a header
	}).Bytes()

	err := NewReader(buf).ReadChild(tagROOT, func(root *Reader) error {
		pos := root.Pos()
		tag, ok := root.PeekNextHeader()
		if !ok || tag != tagLEAF {
			t.Errorf("PeekNextHeader()=%v,%v; expected LEAF", tag, ok)
		}
		if root.Pos() != pos {
			t.Errorf("PeekNextHeader moved cursor")
		}
		if !root.CouldHaveChild() {
			t.Errorf("CouldHaveChild()=false before LEAF")
		}
		if err := root.SkipChild(); err != nil {
			return err
		}
		if _, ok := root.PeekNextHeader(); ok {
			t.Errorf("PeekNextHeader() found header in 4 bytes tail")
		}
		if root.CouldHaveChild() {
			t.Errorf("CouldHaveChild()=true with %d bytes left", root.Remaining())
		}
		if err := root.SkipChild(); !errors.Is(err, ErrChunkOverrun) {
			t.Errorf("SkipChild() on tail: %v; expected ErrChunkOverrun", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReaderBoundedReads(t *testing.T) {
	buf := chunktest.New().Chunk("ROOT", func(b *chunktest.Builder) {
		b.Chunk("LEAF", func(b *chunktest.Builder) { b.U16(7) })
		b.U32(0x11111111)
	}).Bytes()

	err := NewReader(buf).ReadChild(tagROOT, func(root *Reader) error {
		if err := root.ReadChild(tagLEAF, func(leaf *Reader) error {
			if _, err := leaf.ReadU32(); !errors.Is(err, ErrChunkOverrun) {
				t.Errorf("ReadU32 over 2 bytes chunk: %v; expected ErrChunkOverrun", err)
			}
			if v, err := leaf.ReadU16(); err != nil || v != 7 {
				t.Errorf("ReadU16()=%v,%v; expected 7", v, err)
			}
			if err := leaf.Skip(1); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Skip past chunk end: %v; expected ErrOutOfBounds", err)
			}
			if err := leaf.Skip(-3); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Skip before chunk start: %v; expected ErrOutOfBounds", err)
			}
			return leaf.Skip(-2)
		}); err != nil {
			return err
		}
		if v, err := root.ReadU32(); err != nil || v != 0x11111111 {
			t.Errorf("ReadU32 after LEAF=%#x,%v", v, err)
		}
		if _, err := root.ReadCount(4); !errors.Is(err, ErrChunkOverrun) {
			t.Errorf("ReadCount at chunk end: %v; expected ErrChunkOverrun", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadCountRejectsHugeCounts(t *testing.T) {
	buf := chunktest.New().Chunk("ROOT", func(b *chunktest.Builder) {
		b.U32(0xffffffff, 0)
	}).Bytes()

	err := NewReader(buf).ReadChild(tagROOT, func(root *Reader) error {
		_, err := root.ReadCount(12)
		return err
	})
	if !errors.Is(err, ErrChunkOverrun) {
		t.Errorf("got %v; expected ErrChunkOverrun", err)
	}
}

func TestReaderString(t *testing.T) {
	buf := chunktest.New().Chunk("NAME", func(b *chunktest.Builder) { b.String("Cube") }).Bytes()

	err := NewReader(buf).ReadChild(MakeTag("NAME"), func(name *Reader) error {
		s, err := name.ReadString()
		if s != "Cube" {
			t.Errorf("ReadString()=%q; expected Cube", s)
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
}
