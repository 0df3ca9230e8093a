package romfs

import (
	"io"
	"log"
)

// WriteTo serializes the three regions — super block, inode table
// (including unused zero-initialized slots), block area (including
// unused zero-initialized blocks) — to dst in order, per spec.md §4.5.
// It writes the complete image in one pass; no partial image is ever
// written incrementally across calls, matching the write-all-or-abort
// policy spec.md §7 recommends.
func (b *Builder) WriteTo(dst io.WriterAt) (int64, error) {
	sb := b.SuperBlock()
	sbBuf := make([]byte, superBlockSize)
	sb.marshal(sbBuf)

	var off int64
	if _, err := dst.WriteAt(sbBuf, off); err != nil {
		return off, err
	}
	off += int64(len(sbBuf))

	if _, err := dst.WriteAt(b.inodeTable, off); err != nil {
		return off, err
	}
	off += int64(len(b.inodeTable))

	if _, err := dst.WriteAt(b.blockArea, off); err != nil {
		return off, err
	}
	off += int64(len(b.blockArea))

	if b.verbose {
		log.Printf("romfs: wrote image: %d bytes (sb=%d inodes=%d/%d blocks=%d/%d)",
			off, superBlockSize, b.usedInodes, b.inodeMax, b.usedBlocks, b.blockCnt)
	}
	return off, nil
}

// Size returns the total byte length the image will have once written:
// super block plus the full (fixed-capacity) inode table and block area.
func (b *Builder) Size() int64 {
	return int64(superBlockSize) + int64(len(b.inodeTable)) + int64(len(b.blockArea))
}
