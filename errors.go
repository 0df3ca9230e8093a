package romfs

import "errors"

// Package-specific error variables, usable with errors.Is, matching the
// taxonomy in spec.md §7.
var (
	// ErrInodeTableFull is returned when used inode count has reached INODE_MAX.
	ErrInodeTableFull = errors.New("romfs: inode table full")

	// ErrBlockPoolFull is returned when used block count has reached FS_BLK_CNT.
	ErrBlockPoolFull = errors.New("romfs: block pool full")

	// ErrFileTooLarge is returned when a host file does not fit in the
	// remaining block capacity.
	ErrFileTooLarge = errors.New("romfs: file too large for remaining block capacity")

	// ErrInvalidPath is returned when an image path does not begin with '/'.
	ErrInvalidPath = errors.New("romfs: path must be absolute")

	// ErrExists is returned when the terminal path segment already exists
	// in its parent directory.
	ErrExists = errors.New("romfs: name already exists")

	// ErrNotDirectory is returned when a non-directory inode is used where
	// a directory was required.
	ErrNotDirectory = errors.New("romfs: not a directory")

	// ErrNotExist is returned when a lookup fails to find a name.
	ErrNotExist = errors.New("romfs: no such file or directory")

	// ErrUnknownType is returned when fs_add is asked to create an inode of
	// an unrecognized type — an invariant violation in the original design.
	ErrUnknownType = errors.New("romfs: unknown inode type")

	// ErrInvalidImage is returned when parsing bytes that are not a
	// well-formed romfs image.
	ErrInvalidImage = errors.New("romfs: invalid image")
)
