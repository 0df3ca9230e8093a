// Command mkromfs builds a romfs image from a host directory tree.
//
// Usage:
//
//	mkromfs [-v]
//
// Input and output paths are fixed relative locations, matching the
// original C tool's hardcoded-path convention (spec.md §6 "CLI"): the
// host tree under ./romfs_root is imported under image path "/" and
// written to ./romfs.img.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/romfsimg/romfs"
)

const (
	hostRoot   = "romfs_root"
	imageRoot  = "/"
	outputFile = "romfs.img"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	if err := run(*verbose); err != nil {
		log.Fatalf("mkromfs: %s", err)
	}
}

func run(verbose bool) error {
	src := os.DirFS(hostRoot)

	b := romfs.NewBuilder(romfs.WithVerbose(verbose))
	if err := b.ImportTree(src, imageRoot); err != nil {
		return fmt.Errorf("import %s: %w", hostRoot, err)
	}

	// Write-all-or-abort: stage the complete image in a temp file, then
	// rename into place, so a failure never leaves a partial image at
	// outputFile (spec.md §7).
	tmp, err := os.CreateTemp(".", "romfs-*.img.tmp")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := b.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp image: %w", err)
	}
	if err := os.Rename(tmpName, outputFile); err != nil {
		return fmt.Errorf("install image: %w", err)
	}

	if verbose {
		sb := b.SuperBlock()
		log.Printf("mkromfs: %s: %d inodes, %d blocks, %d bytes total",
			outputFile, sb.UsedInodes, sb.UsedBlocks, b.Size())
	}
	return nil
}
