package romfs

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"sort"
)

// blockPayload is the usable capacity of one block once its 8-byte header
// is accounted for (spec.md §3 "a block's usable payload is
// FS_BLK_SIZE - sizeof(block_header)").
func (b *Builder) blockPayload() uint32 {
	return b.blockSize - blockHeaderSize
}

func (b *Builder) allocBlock() (addr, error) {
	if b.usedBlocks >= b.blockCnt {
		return addr{}, ErrBlockPoolFull
	}
	off := b.usedBlocks * b.blockSize
	b.usedBlocks++
	return addr{regionBlock, off}, nil
}

func (b *Builder) blockHeaderBytes(at addr) []byte {
	return b.bytesAt(at, blockHeaderSize)
}

// ImportFile implements spec.md §4.4 romfs_import_file: create the target
// inode, then write data across a freshly allocated chain of blocks, each
// prefixed by an 8-byte header whose next field is patched once the
// following block is known.
//
// The remaining-capacity check is the tightened form spec.md §9 flags as
// the correct fix for the original's raw-byte-size check: blocks_needed is
// compared against remaining blocks, not size against remaining bytes, so
// a file that would consume one block more than the raw check anticipates
// is rejected up front instead of silently overrunning.
func (b *Builder) ImportFile(imagePath string, data []byte) error {
	ino, err := b.createFile(imagePath, TypeRegular)
	if err != nil {
		return fmt.Errorf("romfs: create %s: %w", imagePath, err)
	}

	size := uint32(len(data))
	if size == 0 {
		return nil
	}

	payload := b.blockPayload()
	blocksNeeded := ceilDiv(size, payload)
	remaining := b.blockCnt - b.usedBlocks
	if blocksNeeded > remaining {
		return fmt.Errorf("romfs: import %s: %w", imagePath, ErrFileTooLarge)
	}

	b.setInodeSize(ino, size)
	b.setInodeBlocks(ino, blocksNeeded)

	var prev addr
	cursor := uint32(0)
	for i := uint32(0); i < blocksNeeded; i++ {
		blk, err := b.allocBlock()
		if err != nil {
			return fmt.Errorf("romfs: import %s: %w", imagePath, err)
		}
		if i == 0 {
			b.setInodeData(ino, b.ptrToOff(blk))
		} else {
			prevHdr := b.blockHeaderBytes(prev)
			var h blockHeader
			h.unmarshal(prevHdr)
			h.Next = b.ptrToOff(blk)
			h.marshal(prevHdr)
		}

		hdr := blockHeader{Next: 0, Reserved: 0}
		hdrBuf := b.blockHeaderBytes(blk)
		hdr.marshal(hdrBuf)

		n := payload
		if remainingBytes := size - cursor; remainingBytes < n {
			n = remainingBytes
		}
		body := b.bytesAt(addr{blk.region, blk.offset + blockHeaderSize}, int(n))
		copy(body, data[cursor:cursor+n])
		cursor += n
		prev = blk
	}

	if b.verbose {
		log.Printf("romfs: imported %s (%d bytes, %d blocks)", imagePath, size, blocksNeeded)
	}
	return nil
}

// skipNames are the literal entry names romfs_import_dir ignores in
// mkromfs.c (".", "..", ".gitkeep"); fs.WalkDir never yields "." or ".."
// as a child DirEntry itself, but the check is kept literal rather than
// widened to "any dotfile" so a host tree with an intentional dotfile
// payload still gets imported.
var skipNames = map[string]bool{
	".":        true,
	"..":       true,
	".gitkeep": true,
}

// ImportTree implements spec.md §4.4 romfs_import_dir: it walks a host
// fs.FS rooted at "." in sorted order (spec.md §9's recommended fix for
// the enumeration-order open question, made mandatory here rather than
// left to the host OS) and imports every regular file under imageRoot,
// skipping directories (created implicitly via ImportFile's createFile
// call), entries of any other type (symlinks, devices, ...) and the
// literal names romfs_import_dir skips.
func (b *Builder) ImportTree(src fs.FS, imageRoot string) error {
	var paths []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if skipNames[d.Name()] {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("romfs: walk host tree: %w", err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("romfs: read %s: %w", p, err)
		}
		imagePath := path.Join(imageRoot, p)
		if err := b.ImportFile(imagePath, data); err != nil {
			return err
		}
	}
	return nil
}

// Import builds a complete image from src into dst: it imports every
// regular file from src under "/" and then serializes the three regions,
// mirroring the two-pass "compute layout, then serialize" shape used by
// offset-addressed image formats elsewhere in the retrieval pack.
func Import(dst io.WriterAt, src fs.FS, opts ...Option) error {
	b := NewBuilder(opts...)
	if err := b.ImportTree(src, "/"); err != nil {
		return err
	}
	_, err := b.WriteTo(dst)
	return err
}
