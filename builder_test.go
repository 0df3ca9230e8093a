package romfs_test

import (
	"bytes"
	"testing"

	"github.com/romfsimg/romfs"
)

func TestNewBuilderEmptyTree(t *testing.T) {
	b := romfs.NewBuilder()

	sb := b.SuperBlock()
	if sb.UsedInodes != 1 {
		t.Fatalf("used inodes = %d, want 1", sb.UsedInodes)
	}
	if sb.UsedBlocks != 0 {
		t.Fatalf("used blocks = %d, want 0", sb.UsedBlocks)
	}

	var buf bytes.Buffer
	buf.Grow(int(b.Size()))
	w := &sizedWriterAt{buf: make([]byte, b.Size())}
	if _, err := b.WriteTo(w); err != nil {
		t.Fatalf("WriteTo: %s", err)
	}

	img, err := romfs.Open(w.buf)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	entries, err := img.ReadDir(".")
	if err != nil {
		t.Fatalf("ReadDir: %s", err)
	}
	if len(entries) != 0 {
		t.Fatalf("root has %d entries, want 0", len(entries))
	}
}

func TestImportSingleFile(t *testing.T) {
	b := romfs.NewBuilder()
	if err := b.ImportFile("/hello.txt", []byte("hi")); err != nil {
		t.Fatalf("ImportFile: %s", err)
	}

	sb := b.SuperBlock()
	if sb.UsedInodes != 2 {
		t.Fatalf("used inodes = %d, want 2", sb.UsedInodes)
	}
	if sb.UsedBlocks != 2 {
		t.Fatalf("used blocks = %d, want 2", sb.UsedBlocks)
	}

	w := &sizedWriterAt{buf: make([]byte, b.Size())}
	if _, err := b.WriteTo(w); err != nil {
		t.Fatalf("WriteTo: %s", err)
	}

	img, err := romfs.Open(w.buf)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	data, err := readFile(img, "hello.txt")
	if err != nil {
		t.Fatalf("read hello.txt: %s", err)
	}
	if string(data) != "hi" {
		t.Fatalf("content = %q, want %q", data, "hi")
	}
}

func TestImportNestedDirectories(t *testing.T) {
	b := romfs.NewBuilder()
	if err := b.ImportFile("/a/b/c.txt", []byte("x")); err != nil {
		t.Fatalf("ImportFile: %s", err)
	}

	sb := b.SuperBlock()
	// inode 0 (root) + a + b + c.txt = 4
	if sb.UsedInodes != 4 {
		t.Fatalf("used inodes = %d, want 4", sb.UsedInodes)
	}
	// 3 dentry blocks (root, a, b) + 1 data block = 4
	if sb.UsedBlocks != 4 {
		t.Fatalf("used blocks = %d, want 4", sb.UsedBlocks)
	}
}

func TestDuplicateImportRejected(t *testing.T) {
	b := romfs.NewBuilder()
	if err := b.ImportFile("/dup.txt", []byte("a")); err != nil {
		t.Fatalf("first import: %s", err)
	}
	if err := b.ImportFile("/dup.txt", []byte("b")); err == nil {
		t.Fatal("expected error importing duplicate path, got nil")
	}
}

func TestDentryPackingAcrossBlocks(t *testing.T) {
	b := romfs.NewBuilder(romfs.WithBlockSize(128))
	dentrySize := 32 + 4 + 4 + 4 + 4 + 8 // NAME_MAX + fields, mirrors dentryRecordSize
	perBlock := 128 / dentrySize

	for i := 0; i < perBlock+1; i++ {
		name := "/f" + string(rune('a'+i)) + ".txt"
		if err := b.ImportFile(name, nil); err != nil {
			t.Fatalf("import %d: %s", i, err)
		}
	}

	w := &sizedWriterAt{buf: make([]byte, b.Size())}
	if _, err := b.WriteTo(w); err != nil {
		t.Fatalf("WriteTo: %s", err)
	}
	img, err := romfs.Open(w.buf, romfs.WithBlockSize(128))
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	entries, err := img.ReadDir(".")
	if err != nil {
		t.Fatalf("ReadDir: %s", err)
	}
	if len(entries) != perBlock+1 {
		t.Fatalf("got %d entries, want %d", len(entries), perBlock+1)
	}
}

// sizedWriterAt is a minimal io.WriterAt backed by a fixed-size byte
// slice, standing in for an os.File the way the teacher's tests use
// bytes.Buffer for sequential writes; WriteTo needs random access so a
// plain bytes.Buffer will not do.
type sizedWriterAt struct {
	buf []byte
}

func (w *sizedWriterAt) WriteAt(p []byte, off int64) (int, error) {
	n := copy(w.buf[off:], p)
	return n, nil
}

func readFile(img *romfs.Image, name string) ([]byte, error) {
	f, err := img.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	_, err = f.Read(buf)
	if err != nil && len(buf) > 0 {
		return nil, err
	}
	return buf, nil
}
