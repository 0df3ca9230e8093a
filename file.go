package romfs

import (
	"encoding/binary"
	"io"
	"io/fs"
)

// openFile is the fs.File implementation for a regular-file inode. It
// reconstructs content when the file is opened by walking the block chain
// starting at the inode's data offset, grounded on the teacher's file.go but reading a
// singly-linked block chain with an 8-byte header instead of a
// metadata-block-indexed fragment.
type openFile struct {
	img  *Image
	info fileInfo

	data []byte // materialized when the file is opened
	pos  int64
}

func (img *Image) openFile(ino uint32, info fileInfo) (*openFile, error) {
	return &openFile{img: img, info: info, data: img.readFileData(ino)}, nil
}

// readFileData walks the block chain from the inode's i_data offset,
// copying up to i_size total bytes, stopping after i_blocks blocks as
// spec.md §8 property 3 requires ("walking the block chain yields exactly
// f.i_blocks blocks, and the total payload length equals f.i_size").
func (img *Image) readFileData(ino uint32) []byte {
	size := img.inodeSizeField(ino)
	if size == 0 {
		return nil
	}
	blocks := img.inodeBlocksField(ino)
	payload := make([]byte, 0, size)

	cur := img.inodeDataField(ino)
	blockPayload := img.blockSize - blockHeaderSize
	for i := uint32(0); i < blocks && cur != 0; i++ {
		hdr := img.data[cur : cur+blockHeaderSize]
		next := binary.LittleEndian.Uint32(hdr[0:4])

		remaining := size - uint32(len(payload))
		n := blockPayload
		if remaining < n {
			n = remaining
		}
		body := img.data[cur+blockHeaderSize : cur+blockHeaderSize+n]
		payload = append(payload, body...)
		cur = next
	}
	return payload
}

func (f *openFile) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *openFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *openFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *openFile) Close() error { return nil }
