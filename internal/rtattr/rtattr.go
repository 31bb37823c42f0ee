// Package rtattr encodes route netlink (RTNL) attribute chains.
//
// An attribute is a type-length-value record: a 2-byte length, a 2-byte type
// and a payload, padded to a 4-byte boundary. The declared length covers the
// header and the payload but not the padding. Container attributes carry a
// chain of child attributes as their payload and declare the total span of
// those children plus their own header.
//
// Put is the low-level primitive that writes a single record into a caller
// sized buffer. Builder grows its own buffer and patches container lengths,
// so callers never do offset arithmetic:
//
//	b := rtattr.NewBuilder(hdr)
//	b.AddUint32(unix.IFLA_LINK, parent)
//	b.AddString(unix.IFLA_IFNAME, "lowpan0")
//	b.Nest(unix.IFLA_LINKINFO, func(b *rtattr.Builder) {
//		b.AddBytes(unix.IFLA_INFO_KIND, []byte("lowpan"))
//	})
//	payload := b.Bytes()
package rtattr

import (
	"fmt"
	"math"

	"github.com/mdlayher/netlink/nlenc"
)

const (
	// HeaderLen is the size of the length and type fields of a record.
	HeaderLen = 4

	alignTo = 4
)

// Align rounds n up to the attribute alignment.
func Align(n int) int {
	return (n + alignTo - 1) &^ (alignTo - 1)
}

// Length returns the declared length of a record carrying n payload bytes.
func Length(n int) int {
	return Align(HeaderLen) + n
}

// Space returns the number of bytes a record carrying n payload bytes
// occupies in a chain, padding included.
func Space(n int) int {
	return Align(Length(n))
}

// Put writes one attribute of type typ carrying data at the start of dst and
// returns the number of bytes consumed, which is Space(len(data)). The
// padding after the payload is zeroed.
//
// Callers size dst up front; Put panics if dst is too small.
func Put(dst []byte, typ uint16, data []byte) int {
	n := Space(len(data))
	if len(dst) < n {
		panic(fmt.Sprintf("rtattr: attribute %d needs %d bytes, buffer has %d", typ, n, len(dst)))
	}

	l := Length(len(data))
	if l > math.MaxUint16 {
		panic(fmt.Sprintf("rtattr: attribute %d payload too large: %d bytes", typ, len(data)))
	}

	nlenc.PutUint16(dst[0:2], uint16(l))
	nlenc.PutUint16(dst[2:4], typ)
	copy(dst[HeaderLen:l], data)
	clear(dst[l:n])

	return n
}

// Builder accumulates an attribute chain behind an optional fixed header.
// The zero value is ready to use.
type Builder struct {
	buf  []byte
	open []int
}

// NewBuilder returns a Builder whose output starts with a copy of header.
// header is typically a serialized ifinfomsg or ifaddrmsg.
func NewBuilder(header []byte) *Builder {
	buf := make([]byte, len(header), len(header)+256)
	copy(buf, header)
	return &Builder{buf: buf}
}

// AddBytes appends an attribute carrying data verbatim and returns the
// number of bytes it occupies.
func (b *Builder) AddBytes(typ uint16, data []byte) int {
	off := len(b.buf)
	b.buf = append(b.buf, make([]byte, Space(len(data)))...)
	return Put(b.buf[off:], typ, data)
}

// AddUint32 appends an attribute carrying v in native byte order.
func (b *Builder) AddUint32(typ uint16, v uint32) int {
	return b.AddBytes(typ, nlenc.Uint32Bytes(v))
}

// AddString appends an attribute carrying s followed by a NUL terminator.
func (b *Builder) AddString(typ uint16, s string) int {
	return b.AddBytes(typ, nlenc.Bytes(s))
}

// Begin opens a container attribute of type typ. Attributes added until the
// matching End become its children.
func (b *Builder) Begin(typ uint16) {
	b.open = append(b.open, len(b.buf))
	b.AddBytes(typ, nil)
}

// End closes the innermost open container, writes its final length and
// returns the number of bytes the container occupies including children.
func (b *Builder) End() int {
	if len(b.open) == 0 {
		panic("rtattr: End called without a matching Begin")
	}

	off := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]

	span := len(b.buf) - off
	if span > math.MaxUint16 {
		panic(fmt.Sprintf("rtattr: container at offset %d too large: %d bytes", off, span))
	}
	nlenc.PutUint16(b.buf[off:off+2], uint16(span))

	return span
}

// Nest writes a container attribute of type typ whose children are the
// attributes fn adds. It returns the number of bytes the container occupies.
func (b *Builder) Nest(typ uint16, fn func(b *Builder)) int {
	b.Begin(typ)
	fn(b)
	return b.End()
}

// Len returns the number of bytes written so far, header included.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Bytes returns the encoded header and attribute chain. It panics if a
// container is still open, since its length would be wrong on the wire.
func (b *Builder) Bytes() []byte {
	if len(b.open) != 0 {
		panic(fmt.Sprintf("rtattr: %d container(s) still open", len(b.open)))
	}
	return b.buf
}
