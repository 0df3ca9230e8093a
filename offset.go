package romfs

// region identifies which of the builder's two staging areas an address
// falls in. The super block is never addressed by a link field (spec.md
// §3: "Offset 0 is reserved as null/unset" and every live link points into
// either the inode table or the block area).
type region uint8

const (
	regionNone region = iota
	regionInode
	regionBlock
)

// addr is the in-memory analogue of a C pointer into one of the builder's
// two fixed staging regions: a region tag plus a byte offset from that
// region's start. ptrToOff/offToPtr convert between addr and the
// self-relative image offsets that are actually persisted (spec.md §4.1).
type addr struct {
	region region
	offset uint32
}

// isZero reports whether a is the null address (region unset).
func (a addr) isZero() bool {
	return a.region == regionNone
}

// ptrToOff converts a staging-memory address into the offset it will have
// in the final image. It returns 0 (null) for an address outside both
// staging regions, mirroring romfs_ptr_to_off's fallback in the original C.
func (b *Builder) ptrToOff(a addr) uint32 {
	switch a.region {
	case regionInode:
		return b.inodeTableStart + a.offset
	case regionBlock:
		return b.blockAreaStart + a.offset
	default:
		return 0
	}
}

// offToPtr is the inverse of ptrToOff: given an image offset, it locates
// the staging region and in-region byte offset it refers to. Offsets below
// the inode table start (i.e. inside the super block) or past the end of
// the block area are not valid link targets and yield the null address.
func (b *Builder) offToPtr(off uint32) addr {
	switch {
	case off >= b.inodeTableStart && off < b.blockAreaStart:
		return addr{regionInode, off - b.inodeTableStart}
	case off >= b.blockAreaStart && off < b.blockAreaStart+uint32(len(b.blockArea)):
		return addr{regionBlock, off - b.blockAreaStart}
	default:
		return addr{}
	}
}

// bytesAt returns a mutable view of n bytes of staging memory starting at
// a. It is the one place raw byte access into either region happens; every
// record read or write in the builder goes through it.
func (b *Builder) bytesAt(a addr, n int) []byte {
	switch a.region {
	case regionInode:
		return b.inodeTable[a.offset : a.offset+uint32(n)]
	case regionBlock:
		return b.blockArea[a.offset : a.offset+uint32(n)]
	default:
		return nil
	}
}
