package romfs_test

import (
	"bytes"
	"testing"

	"github.com/romfsimg/romfs"
)

func TestMultiBlockFileRoundTrip(t *testing.T) {
	const blockSize = 64
	payload := blockSize - 8
	size := 3*payload + 1

	data := bytes.Repeat([]byte{0xAB}, size)

	b := romfs.NewBuilder(romfs.WithBlockSize(blockSize))
	if err := b.ImportFile("/big.bin", data); err != nil {
		t.Fatalf("ImportFile: %s", err)
	}

	w := &sizedWriterAt{buf: make([]byte, b.Size())}
	if _, err := b.WriteTo(w); err != nil {
		t.Fatalf("WriteTo: %s", err)
	}

	img, err := romfs.Open(w.buf, romfs.WithBlockSize(blockSize))
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	got, err := readFile(img, "big.bin")
	if err != nil {
		t.Fatalf("read big.bin: %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content mismatch: got %d bytes, want %d bytes", len(got), len(data))
	}
}

func TestFileTooLargeRejected(t *testing.T) {
	b := romfs.NewBuilder(romfs.WithBlockSize(64), romfs.WithBlockCount(2))
	data := bytes.Repeat([]byte{1}, 64*3)
	if err := b.ImportFile("/huge.bin", data); err == nil {
		t.Fatal("expected ErrFileTooLarge, got nil")
	}
}

func TestWriteToProducesDeterministicOutput(t *testing.T) {
	build := func() []byte {
		b := romfs.NewBuilder()
		_ = b.ImportFile("/a.txt", []byte("alpha"))
		_ = b.ImportFile("/b.txt", []byte("beta"))
		w := &sizedWriterAt{buf: make([]byte, b.Size())}
		_, _ = b.WriteTo(w)
		return w.buf
	}

	first := build()
	second := build()
	if !bytes.Equal(first, second) {
		t.Fatal("two builds of the same tree produced different images")
	}
}
