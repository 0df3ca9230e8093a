// Command romfsls inspects a built romfs image: list, cat, and info
// subcommands over the read-only fs.FS view, grounded on the teacher's
// cmd/sqfs inspector.
package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/romfsimg/romfs"
)

const usage = `romfsls - romfs image inspector

Usage:
  romfsls ls <image> [<path>]    List entries under <path> (default: root)
  romfsls cat <image> <file>     Print the contents of <file>
  romfsls info <image>           Print directory and regular-file counts (no superblock fields)
  romfsls help                   Show this help message
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "ls":
		if len(os.Args) < 3 {
			err = fmt.Errorf("missing image path")
			break
		}
		dir := "."
		if len(os.Args) > 3 {
			dir = os.Args[3]
		}
		err = listFiles(os.Args[2], dir)

	case "cat":
		if len(os.Args) < 4 {
			err = fmt.Errorf("missing image path or target file")
			break
		}
		err = catFile(os.Args[2], os.Args[3])

	case "info":
		if len(os.Args) < 3 {
			err = fmt.Errorf("missing image path")
			break
		}
		err = showInfo(os.Args[2])

	case "help":
		fmt.Print(usage)
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "romfsls: %s\n", err)
		os.Exit(1)
	}
}

func openImage(path string) (*romfs.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := romfs.Open(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return img, nil
}

func printFileInfo(path string, info fs.FileInfo) {
	typeChar := "-"
	if info.IsDir() {
		typeChar = "d"
	}
	size := fmt.Sprintf("%8d", info.Size())
	if info.IsDir() {
		size = "       -"
	}
	fmt.Printf("%s%s %s %s\n", typeChar, info.Mode().String()[1:], size, path)
}

func listFiles(imagePath, dir string) error {
	img, err := openImage(imagePath)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(img, dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		display := entry.Name()
		if dir != "." {
			display = dir + "/" + entry.Name()
		}
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", display, err)
			continue
		}
		printFileInfo(display, info)
	}
	return nil
}

func catFile(imagePath, filePath string) error {
	img, err := openImage(imagePath)
	if err != nil {
		return err
	}
	data, err := fs.ReadFile(img, filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func showInfo(imagePath string) error {
	img, err := openImage(imagePath)
	if err != nil {
		return err
	}

	fmt.Println("romfs image information")
	fmt.Println("=======================")

	var fileCount, dirCount int
	countFilesAndDirs(img, ".", &fileCount, &dirCount)

	fmt.Printf("Directories:      %d\n", dirCount+1) // +1 for root itself
	fmt.Printf("Regular files:    %d\n", fileCount)
	return nil
}

func countFilesAndDirs(fsys fs.FS, dir string, fileCount, dirCount *int) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.IsDir() {
			*dirCount++
			subdir := entry.Name()
			if dir != "." {
				subdir = dir + "/" + entry.Name()
			}
			countFilesAndDirs(fsys, subdir, fileCount, dirCount)
		} else {
			*fileCount++
		}
	}
}
