package romfs

import "testing"

func TestListEmptyOnInit(t *testing.T) {
	b := NewBuilder()
	head := b.dentryListLink(b.inodeAddr(0))
	if !b.listEmpty(head) {
		t.Fatal("freshly initialized root should have an empty dentry list")
	}
}

func TestListAddTailOrderAndIteration(t *testing.T) {
	b := NewBuilder()
	names := []string{"one", "two", "three"}
	for _, n := range names {
		if _, err := b.add(0, n, TypeRegular); err != nil {
			t.Fatalf("add %s: %s", n, err)
		}
	}

	head := b.dentryListLink(b.inodeAddr(0))
	var got []string
	b.listIterate(head, func(off uint32) bool {
		got = append(got, b.dentryName(b.dentryBaseFromLinkOffset(off)))
		return true
	})

	if len(got) != len(names) {
		t.Fatalf("got %d entries, want %d", len(got), len(names))
	}
	for i, n := range names {
		if got[i] != n {
			t.Fatalf("entry %d = %q, want %q", i, got[i], n)
		}
	}
}

func TestPtrToOffRoundTrip(t *testing.T) {
	b := NewBuilder()
	a := b.inodeAddr(3)
	off := b.ptrToOff(a)
	back := b.offToPtr(off)
	if back != a {
		t.Fatalf("offToPtr(ptrToOff(a)) = %+v, want %+v", back, a)
	}
}
