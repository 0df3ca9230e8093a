package romfs

import "testing"

func TestSplitPath(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"/", nil},
		{"/a", []string{"a"}},
		{"/a/b/c", []string{"a", "b", "c"}},
		{"/a//b", []string{"a", "b"}},
	}
	for _, c := range cases {
		got, err := splitPath(c.in)
		if err != nil {
			t.Fatalf("splitPath(%q): %s", c.in, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("splitPath(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splitPath(%q) = %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestSplitPathRejectsRelative(t *testing.T) {
	if _, err := splitPath("a/b"); err != ErrInvalidPath {
		t.Fatalf("got %v, want ErrInvalidPath", err)
	}
}

func TestCreateFileRejectsDuplicate(t *testing.T) {
	b := NewBuilder()
	if _, err := b.createFile("/a.txt", TypeRegular); err != nil {
		t.Fatalf("createFile: %s", err)
	}
	if _, err := b.createFile("/a.txt", TypeRegular); err != ErrExists {
		t.Fatalf("got %v, want ErrExists", err)
	}
}

func TestCreateFileDescendsThroughExistingDirs(t *testing.T) {
	b := NewBuilder()
	first, err := b.createFile("/a/one.txt", TypeRegular)
	if err != nil {
		t.Fatalf("createFile: %s", err)
	}
	second, err := b.createFile("/a/two.txt", TypeRegular)
	if err != nil {
		t.Fatalf("createFile: %s", err)
	}
	if first == second {
		t.Fatal("expected distinct inodes for distinct files")
	}
	// Only one "a" directory inode should have been created.
	if b.usedInodes != 4 { // root, a, one.txt, two.txt
		t.Fatalf("used inodes = %d, want 4", b.usedInodes)
	}
}
