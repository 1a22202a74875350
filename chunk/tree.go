package chunk

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Node is one chunk found by Walk. Offset points to the chunk header.
type Node struct {
	Tag    Tag
	Offset int
	Size   int
	// bytes before the first child, like u32 count of MATL
	Prefix int
	Childs []*Node
}

func (n *Node) PayloadOffset() int { return n.Offset + HeaderSize }
func (n *Node) End() int           { return n.PayloadOffset() + n.Size }

func (n *Node) String() string {
	return fmt.Sprintf("chunk<%v>[o:0x%x,s:0x%x,ae:0x%x]", n.Tag, n.Offset, n.Size, n.End())
}

func (n *Node) stringTree(pad int) string {
	sPad := strings.Repeat(".  ", pad)
	s := sPad + n.String() + "\n"
	if n.Prefix != 0 {
		s += fmt.Sprintf("%s.  prefix [o:0x%x,s:0x%x]\n", sPad, n.PayloadOffset(), n.Prefix)
	}
	for _, child := range n.Childs {
		s += child.stringTree(pad + 1)
	}
	return s
}

func (n *Node) StringTree() string {
	return n.stringTree(0)
}

func isTagByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func looksLikeTag(b []byte) bool {
	for _, c := range b[:4] {
		if !isTagByte(c) {
			return false
		}
	}
	return true
}

// parseSequence parses buf[from:to] as back to back chunks. Returns nil if
// region is not exactly covered by plausible chunks.
func parseSequence(buf []byte, from, to int) []*Node {
	nodes := make([]*Node, 0)
	for pos := from; pos < to; {
		if to-pos < HeaderSize || !looksLikeTag(buf[pos:]) {
			return nil
		}
		size := binary.LittleEndian.Uint32(buf[pos+4:])
		if int64(size) > int64(to-pos-HeaderSize) {
			return nil
		}
		n := &Node{Offset: pos, Size: int(size)}
		copy(n.Tag[:], buf[pos:pos+4])
		nodes = append(nodes, n)
		pos = n.End()
	}
	return nodes
}

func (n *Node) expand(buf []byte) {
	if n.Size < HeaderSize {
		return
	}
	// count prefixed containers like MATL store u32 before childs
	for _, prefix := range []int{0, 4} {
		if childs := parseSequence(buf, n.PayloadOffset()+prefix, n.End()); len(childs) != 0 {
			n.Prefix = prefix
			n.Childs = childs
			for _, child := range childs {
				child.expand(buf)
			}
			return
		}
	}
}

// Walk finds chunk structure of buffer without knowing the format. Payload
// is treated as container when it is exactly covered by chunks with
// printable tags, so short leaf chunks may be misdetected.
func Walk(buf []byte) ([]*Node, error) {
	roots := parseSequence(buf, 0, len(buf))
	if roots == nil {
		return nil, errors.Wrapf(ErrMalformedFile, "buffer of size 0x%x is not a chunk sequence", len(buf))
	}
	for _, root := range roots {
		root.expand(buf)
	}
	return roots, nil
}
