package romfs

import (
	"io"
	"io/fs"
)

// openDir is the fs.File/fs.ReadDirFile implementation for a directory
// inode, grounded on the teacher's dir.go read-side iteration pattern but
// walking this format's intrusive dentry list instead of a metadata-block
// cursor.
type openDir struct {
	img     *Image
	ino     uint32
	info    fileInfo
	entries []fs.DirEntry
	pos     int
	loaded  bool
}

func (d *openDir) load() {
	if d.loaded {
		return
	}
	for _, e := range d.img.listEntries(d.ino) {
		d.entries = append(d.entries, dirEntry{
			img:  d.img,
			name: e.name,
			ino:  e.ino,
		})
	}
	d.loaded = true
}

func (d *openDir) Stat() (fs.FileInfo, error) { return d.info, nil }

func (d *openDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: ErrNotDirectory}
}

func (d *openDir) Close() error { return nil }

// ReadDir implements fs.ReadDirFile. n <= 0 returns all remaining
// entries; n > 0 returns at most n and io.EOF once exhausted, matching
// the io/fs.ReadDirFile contract.
func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	d.load()
	remaining := len(d.entries) - d.pos
	if n <= 0 {
		out := d.entries[d.pos:]
		d.pos = len(d.entries)
		return out, nil
	}
	if remaining == 0 {
		return nil, io.EOF
	}
	if n > remaining {
		n = remaining
	}
	out := d.entries[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *openDir) readAllDirEntries() ([]fs.DirEntry, error) {
	d.load()
	return d.entries, nil
}

// dirEntry implements fs.DirEntry for one dentry.
type dirEntry struct {
	img  *Image
	name string
	ino  uint32
}

func (e dirEntry) Name() string { return e.name }
func (e dirEntry) IsDir() bool  { return e.img.inodeType(e.ino) == TypeDirectory }
func (e dirEntry) Type() fs.FileMode {
	if e.IsDir() {
		return fs.ModeDir
	}
	return 0
}
func (e dirEntry) Info() (fs.FileInfo, error) {
	return e.img.fileInfo(e.name, e.ino), nil
}
