//go:build !unix

package romfs

import "os"

// mmapImage on non-unix platforms falls back to a plain buffered read;
// there is no portable mmap in the standard library and golang.org/x/sys
// only covers unix-family and Windows separately, so this module limits
// the zero-copy path to unix (mmap_unix.go) and degrades gracefully
// elsewhere rather than pulling in a Windows-specific syscall package no
// other component in this module needs.
type mmapImage struct {
	*Image
}

func (m *mmapImage) Close() error { return nil }

// OpenMmap reads path fully into memory and parses it as a romfs image.
func OpenMmap(path string, opts ...Option) (*mmapImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Open(data, opts...)
	if err != nil {
		return nil, err
	}
	return &mmapImage{Image: img}, nil
}
