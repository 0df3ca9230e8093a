package romfs

import "encoding/binary"

func leUint32(b []byte) uint32       { return binary.LittleEndian.Uint32(b) }
func putLeUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// listLink addresses an embedded {next, prev} link structure directly:
// self is the byte address of its next field, and prev always sits 4
// bytes after it (true of both an inode's i_dentry head and a dentry's
// d_list node, per layout.go's field offsets). This matches the original
// C's `ptr_to_off(&head)` — the address of the link struct itself, not of
// the enclosing inode or dentry record — so a link reconstructed from a
// stored offset (linkAt) never needs to know which kind of record it sits
// inside; the link struct's shape is the same everywhere it's embedded.
type listLink struct {
	self addr
}

// link builds a listLink for the link struct embedded at byte offset
// nextOffset within the record at at (inodeOffDentryNext for a
// directory's i_dentry head, dentryOffListNext(nameMax) for a dentry's
// d_list node).
func (b *Builder) link(at addr, nextOffset int) listLink {
	return listLink{self: addr{at.region, at.offset + uint32(nextOffset)}}
}

// linkAt reconstructs a listLink from a stored offset that already names
// the link struct's own address (as every next/prev field in this format
// does), used when walking from one node to the next during iteration or
// splicing.
func (b *Builder) linkAt(off uint32) listLink {
	return listLink{self: b.offToPtr(off)}
}

func (b *Builder) linkNext(l listLink) uint32 {
	buf := b.bytesAt(l.self, 8)
	return leUint32(buf[0:4])
}

func (b *Builder) linkPrev(l listLink) uint32 {
	buf := b.bytesAt(l.self, 8)
	return leUint32(buf[4:8])
}

func (b *Builder) setLinkNext(l listLink, off uint32) {
	buf := b.bytesAt(l.self, 8)
	putLeUint32(buf[0:4], off)
}

func (b *Builder) setLinkPrev(l listLink, off uint32) {
	buf := b.bytesAt(l.self, 8)
	putLeUint32(buf[4:8], off)
}

// initList makes l a single-element circular list: both next and prev
// point back at l itself, the same way INIT_LIST_HEAD does in the
// original C. A freshly created inode's i_dentry head starts this way,
// meaning "this directory has no entries yet".
func (b *Builder) initList(l listLink) {
	self := b.ptrToOff(l.self)
	b.setLinkNext(l, self)
	b.setLinkPrev(l, self)
}

// listEmpty reports whether l's list head still points at itself.
func (b *Builder) listEmpty(l listLink) bool {
	return b.linkNext(l) == b.ptrToOff(l.self)
}

// listAddTail splices a newly-built node's own list link in immediately
// before head, i.e. at the tail of the circular list rooted at head; it
// writes both of the node's next and prev fields, so the node needs no
// prior initList. This is the Go translation of list_add_tail: the new
// dentry becomes the last dentry reachable from its parent directory's
// i_dentry head, preserving insertion order.
func (b *Builder) listAddTail(node, head listLink) {
	nodeOff := b.ptrToOff(node.self)
	headOff := b.ptrToOff(head.self)

	lastOff := b.linkPrev(head)
	lastLink := b.linkAt(lastOff)

	b.setLinkNext(lastLink, nodeOff)
	b.setLinkPrev(node, lastOff)
	b.setLinkNext(node, headOff)
	b.setLinkPrev(head, nodeOff)
}

// listIterate walks the circular list rooted at head, calling fn with the
// offset of each non-head node in list order, stopping early if fn returns
// false. It mirrors the original C's list_for_each idiom.
func (b *Builder) listIterate(head listLink, fn func(nodeOffset uint32) bool) {
	headOff := b.ptrToOff(head.self)
	cur := b.linkNext(head)
	for cur != headOff {
		link := b.linkAt(cur)
		next := b.linkNext(link)
		if !fn(cur) {
			return
		}
		cur = next
	}
}
