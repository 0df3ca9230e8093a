//go:build unix

package romfs

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapImage keeps the mapped region alive for the lifetime of the Image
// returned by OpenMmap, so callers can Close it to release the mapping.
type mmapImage struct {
	*Image
	raw []byte
}

// Close unmaps the backing memory region. After Close, the Image and any
// fs.File obtained from it must not be used.
func (m *mmapImage) Close() error {
	return unix.Munmap(m.raw)
}

// OpenMmap memory-maps path read-only and parses the mapped bytes as a
// romfs image, the same zero-copy, zero-allocation load spec.md §1
// describes the target kernel performing ("an embedded kernel can mmap
// and serve it without any runtime allocation or parsing"). The returned
// *mmapImage must be Closed to release the mapping.
func OpenMmap(path string, opts ...Option) (*mmapImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, ErrInvalidImage
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	img, err := Open(data, opts...)
	if err != nil {
		unix.Munmap(data)
		return nil, err
	}
	return &mmapImage{Image: img, raw: data}, nil
}
