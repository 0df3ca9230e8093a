// Package fuse mounts a built romfs image as a read-only FUSE
// filesystem, for interactive inspection during development. It is
// built only with the "fuse" build tag, mirroring the teacher's own
// build-tag-gated FUSE support (inode_fuse.go, inode_darwin.go).
//
//go:build fuse

package fuse

import (
	"context"
	"io/fs"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	gofs "github.com/hanwen/go-fuse/v2/fs"

	"github.com/romfsimg/romfs"
)

// romfsNode is the InodeEmbedder for one entry in a mounted image, using
// the modern go-fuse/v2/fs API rather than the teacher's lower-level
// fuse.RawFileSystem hookup, since that API is what upstream go-fuse
// documents as the supported way to expose an fs.FS-shaped data source.
type romfsNode struct {
	gofs.Inode

	img  *romfs.Image
	path string
}

var _ gofs.NodeGetattrer = (*romfsNode)(nil)
var _ gofs.NodeLookuper = (*romfsNode)(nil)
var _ gofs.NodeReaddirer = (*romfsNode)(nil)
var _ gofs.NodeOpener = (*romfsNode)(nil)
var _ gofs.NodeReader = (*romfsNode)(nil)

// Root builds the root *romfsNode for a Mount call.
func Root(img *romfs.Image) gofs.InodeEmbedder {
	return &romfsNode{img: img, path: "."}
}

func (n *romfsNode) child(name string) string {
	if n.path == "." {
		return name
	}
	return n.path + "/" + name
}

func (n *romfsNode) Getattr(ctx context.Context, f gofs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	info, err := fs.Stat(n.img, n.path)
	if err != nil {
		return syscall.ENOENT
	}
	out.Size = uint64(info.Size())
	if info.IsDir() {
		out.Mode = syscall.S_IFDIR | 0o555
	} else {
		out.Mode = syscall.S_IFREG | 0o444
	}
	return 0
}

func (n *romfsNode) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	childPath := n.child(name)
	info, err := fs.Stat(n.img, childPath)
	if err != nil {
		return nil, syscall.ENOENT
	}

	child := &romfsNode{img: n.img, path: childPath}
	mode := uint32(syscall.S_IFREG)
	if info.IsDir() {
		mode = syscall.S_IFDIR
	}
	out.Attr.Size = uint64(info.Size())
	out.Attr.Mode = mode | 0o444

	ch := n.NewInode(ctx, child, gofs.StableAttr{Mode: mode})
	return ch, 0
}

func (n *romfsNode) Readdir(ctx context.Context) (gofs.DirStream, syscall.Errno) {
	entries, err := fs.ReadDir(n.img, n.path)
	if err != nil {
		return nil, syscall.ENOENT
	}
	list := make([]gofuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		mode := uint32(syscall.S_IFREG)
		if e.IsDir() {
			mode = syscall.S_IFDIR
		}
		list = append(list, gofuse.DirEntry{Name: e.Name(), Mode: mode})
	}
	return gofs.NewListDirStream(list), 0
}

func (n *romfsNode) Open(ctx context.Context, flags uint32) (gofs.FileHandle, uint32, syscall.Errno) {
	return nil, gofuse.FOPEN_KEEP_CACHE, 0
}

func (n *romfsNode) Read(ctx context.Context, f gofs.FileHandle, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	data, err := fs.ReadFile(n.img, n.path)
	if err != nil {
		return nil, syscall.EIO
	}
	if off >= int64(len(data)) {
		return gofuse.ReadResultData(nil), 0
	}
	end := off + int64(len(dest))
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return gofuse.ReadResultData(data[off:end]), 0
}

// Mount mounts img read-only at mountpoint and blocks until unmounted,
// matching the teacher's read-only FUSE posture (squashfs images are
// never written back through the mount either).
func Mount(mountpoint string, img *romfs.Image) error {
	server, err := gofs.Mount(mountpoint, Root(img), &gofs.Options{
		MountOptions: gofuse.MountOptions{
			Name:   "romfs",
			FsName: "romfs",
		},
	})
	if err != nil {
		return err
	}
	server.Wait()
	return nil
}
