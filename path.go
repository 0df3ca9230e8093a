package romfs

import "strings"

// splitPath splits an absolute image path into its non-empty segments.
// The leading '/' and any run of consecutive slashes collapse away, the
// same way the original C path splitter skips empty segments produced by
// a double slash (spec.md §4.4 "Path splitter").
func splitPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, ErrInvalidPath
	}
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		segs = append(segs, s)
	}
	return segs, nil
}

// createFile implements spec.md §4.4 fs_create_file: starting from the
// root inode, walk non-terminal segments, creating intermediate
// directories on demand, then create the terminal segment as typ. It
// fails with ErrExists if the terminal segment already exists, and with
// ErrNotDirectory if a non-terminal segment names something other than a
// directory.
func (b *Builder) createFile(path string, typ FileType) (uint32, error) {
	segs, err := splitPath(path)
	if err != nil {
		return 0, err
	}
	if len(segs) == 0 {
		return 0, ErrInvalidPath
	}

	dir := uint32(0)
	for _, seg := range segs[:len(segs)-1] {
		if ino, ok := b.search(dir, seg); ok {
			if b.inodeType(ino) != TypeDirectory {
				return 0, ErrNotDirectory
			}
			dir = ino
			continue
		}
		ino, err := b.add(dir, seg, TypeDirectory)
		if err != nil {
			return 0, err
		}
		dir = ino
	}

	last := segs[len(segs)-1]
	if _, ok := b.search(dir, last); ok {
		return 0, ErrExists
	}
	return b.add(dir, last, typ)
}
