package romfs

import (
	"encoding/binary"
	"io"
	"io/fs"
	"time"
)

// Image is a read-only view over a built romfs image held entirely in
// memory (or memory-mapped, via OpenMmap). It implements fs.FS, grounded
// on the teacher's reader-side split across dir.go/file.go/inode.go, but
// without any metadata-block or compression indirection since this wire
// format has neither.
type Image struct {
	data      []byte
	nameMax   int
	blockSize uint32

	super      SuperBlock
	inodeStart uint32
	blockStart uint32
	inodeSize  int
}

// Open parses an already-loaded image buffer. The NAME_MAX and block size
// set through opts (WithNameMax, WithBlockSize) must match the values the
// image was built with; the wire format carries no self-describing
// NAME_MAX or block-size field (spec.md §6 fixes the inode and
// super-block layout but leaves the dentry record's name width a build
// parameter, the same way the original C format hardcodes NAME_MAX).
func Open(data []byte, opts ...Option) (*Image, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if len(data) < superBlockSize {
		return nil, ErrInvalidImage
	}
	var sb SuperBlock
	sb.unmarshal(data[:superBlockSize])
	if sb.InodeStart > uint64(len(data)) || sb.BlockStart > uint64(len(data)) {
		return nil, ErrInvalidImage
	}

	img := &Image{
		data:       data,
		nameMax:    cfg.nameMax,
		blockSize:  cfg.blockSize,
		super:      sb,
		inodeStart: uint32(sb.InodeStart),
		blockStart: uint32(sb.BlockStart),
		inodeSize:  inodeRecordSize,
	}
	return img, nil
}

func (img *Image) dentrySize() int { return dentryRecordSize(img.nameMax) }

func (img *Image) inodeBytes(ino uint32) []byte {
	off := img.inodeStart + ino*inodeRecordSize
	return img.data[off : off+inodeRecordSize]
}

func (img *Image) inodeType(ino uint32) FileType {
	return FileType(img.inodeBytes(ino)[inodeOffType])
}

func (img *Image) inodeSizeField(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(img.inodeBytes(ino)[inodeOffSize:])
}

func (img *Image) inodeBlocksField(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(img.inodeBytes(ino)[inodeOffBlocks:])
}

func (img *Image) inodeDataField(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(img.inodeBytes(ino)[inodeOffData:])
}

func (img *Image) inodeDentryNext(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(img.inodeBytes(ino)[inodeOffDentryNext:])
}

// Every next/prev field in the image — whether embedded in a directory
// inode's i_dentry head or a dentry's d_list node — stores the address of
// the link struct itself (its own next field), never the address of the
// enclosing record (mirrors the builder's listLink.self convention in
// list.go). dentryBaseFromLink converts such an offset back to the
// address of the dentry record's first byte.
func (img *Image) dentryBaseFromLink(linkSelfOff uint32) uint32 {
	return linkSelfOff - uint32(dentryOffListNext(img.nameMax))
}

func (img *Image) dentryBytesAt(linkSelfOff uint32) []byte {
	base := img.dentryBaseFromLink(linkSelfOff)
	return img.data[base : base+uint32(img.dentrySize())]
}

func (img *Image) dentryName(linkSelfOff uint32) string {
	buf := img.dentryBytesAt(linkSelfOff)[:img.nameMax]
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

func (img *Image) dentryInode(linkSelfOff uint32) uint32 {
	buf := img.dentryBytesAt(linkSelfOff)
	o := dentryOffInode(img.nameMax)
	return binary.LittleEndian.Uint32(buf[o : o+4])
}

// dentryListNext reads the next field directly out of the link struct at
// linkSelfOff — no base-address translation needed here, since next sits
// at the very address linkSelfOff already names.
func (img *Image) dentryListNext(linkSelfOff uint32) uint32 {
	return binary.LittleEndian.Uint32(img.data[linkSelfOff : linkSelfOff+4])
}

// ptrToOff/offToPtr are not needed on the reader side: stored link fields
// already are absolute image offsets (spec.md §3), so the reader walks
// them directly without any staging-region translation.

// inodeHeadOffset returns the address of dir's i_dentry head's own next
// field — the same self-addressing convention every link in the image
// uses, matching list.go's listLink.self.
func (img *Image) inodeHeadOffset(ino uint32) uint32 {
	return img.inodeStart + ino*inodeRecordSize + inodeOffDentryNext
}

// listEntries walks dir's i_dentry list and returns (name, inode) pairs
// in on-disk list order, matching the order ImportTree/add built them in.
func (img *Image) listEntries(dir uint32) []struct {
	name string
	ino  uint32
} {
	var out []struct {
		name string
		ino  uint32
	}
	headOff := img.inodeHeadOffset(dir)
	cur := img.inodeDentryNext(dir)
	for cur != headOff {
		out = append(out, struct {
			name string
			ino  uint32
		}{img.dentryName(cur), img.dentryInode(cur)})
		cur = img.dentryListNext(cur)
	}
	return out
}

func (img *Image) lookup(dir uint32, name string) (uint32, bool) {
	for _, e := range img.listEntries(dir) {
		if e.name == name {
			return e.ino, true
		}
	}
	return 0, false
}

func (img *Image) resolve(name string) (uint32, error) {
	if name == "." || name == "" {
		return 0, nil
	}
	segs, err := splitPath("/" + name)
	if err != nil {
		return 0, err
	}
	ino := uint32(0)
	for _, seg := range segs {
		next, ok := img.lookup(ino, seg)
		if !ok {
			return 0, &fs.PathError{Op: "open", Path: name, Err: ErrNotExist}
		}
		ino = next
	}
	return ino, nil
}

// Open implements fs.FS.
func (img *Image) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	ino, err := img.resolve(name)
	if err != nil {
		return nil, err
	}
	info := img.fileInfo(name, ino)
	switch img.inodeType(ino) {
	case TypeDirectory:
		return &openDir{img: img, ino: ino, info: info}, nil
	case TypeRegular:
		return img.openFile(ino, info)
	default:
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrInvalidImage}
	}
}

// ReadDir implements fs.ReadDirFS.
func (img *Image) ReadDir(name string) ([]fs.DirEntry, error) {
	f, err := img.Open(name)
	if err != nil {
		return nil, err
	}
	d, ok := f.(*openDir)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrNotDirectory}
	}
	return d.readAllDirEntries()
}

func (img *Image) fileInfo(name string, ino uint32) fileInfo {
	base := name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			base = name[i+1:]
			break
		}
	}
	if name == "." {
		base = "."
	}
	return fileInfo{
		name:  base,
		size:  int64(img.inodeSizeField(ino)),
		isDir: img.inodeType(ino) == TypeDirectory,
	}
}

// fileInfo implements fs.FileInfo. The image carries no modification
// time (spec.md has no such field), so ModTime always reports the zero
// time, matching a reader over a format with no timestamp field.
type fileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (fi fileInfo) Name() string { return fi.name }
func (fi fileInfo) Size() int64  { return fi.size }
func (fi fileInfo) Mode() fs.FileMode {
	if fi.isDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.isDir }
func (fi fileInfo) Sys() any           { return nil }

var _ io.ReaderAt = (*Image)(nil)

// ReadAt gives callers raw random-access byte access into the image.
// file.go's block-chain traversal does not go through it; it slices the
// image bytes directly.
func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(img.data)) {
		return 0, io.EOF
	}
	n := copy(p, img.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
