package romfs

import "encoding/binary"

// Builder holds the three staging regions of an in-progress image plus
// the capacity ceilings and running allocation counts (spec.md §3, §9 —
// "wrap the three regions plus used-counts in a single owned builder
// value passed explicitly through every operation"). A zero Builder is
// not usable; construct one with NewBuilder.
type Builder struct {
	nameMax   int
	inodeMax  uint32
	blockCnt  uint32
	blockSize uint32
	verbose   bool

	inodeTable []byte
	blockArea  []byte

	inodeTableStart uint32
	blockAreaStart  uint32

	usedInodes uint32
	usedBlocks uint32
}

// NewBuilder allocates a Builder's staging regions per the given Options
// (or the package defaults) and initializes inode 0 as the empty root
// directory, matching spec.md §4.3 "Root init".
func NewBuilder(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	b := &Builder{
		nameMax:   cfg.nameMax,
		inodeMax:  cfg.inodeMax,
		blockCnt:  cfg.blockCnt,
		blockSize: cfg.blockSize,
		verbose:   cfg.verbose,
	}

	b.inodeTableStart = superBlockSize
	b.inodeTable = make([]byte, int(b.inodeMax)*inodeRecordSize)
	b.blockAreaStart = b.inodeTableStart + uint32(len(b.inodeTable))
	b.blockArea = make([]byte, int(b.blockCnt)*int(b.blockSize))

	b.initRoot()
	return b
}

// dentrySize is the wire size of one dentry record at this builder's
// configured NAME_MAX.
func (b *Builder) dentrySize() int { return dentryRecordSize(b.nameMax) }

// dentriesPerBlock is FS_BLK_SIZE / sizeof(dentry), per spec.md §4.3 step 2.
func (b *Builder) dentriesPerBlock() uint32 {
	return b.blockSize / uint32(b.dentrySize())
}

func (b *Builder) inodeAddr(ino uint32) addr {
	return addr{regionInode, ino * inodeRecordSize}
}

func (b *Builder) inodeBytes(ino uint32) []byte {
	return b.bytesAt(b.inodeAddr(ino), inodeRecordSize)
}

func (b *Builder) dentryListLink(inoAddr addr) listLink {
	return b.link(inoAddr, inodeOffDentryNext)
}

func (b *Builder) dentryNodeLink(at addr) listLink {
	return b.link(at, dentryOffListNext(b.nameMax))
}

// dentryBaseFromLinkOffset converts a stored link offset — the address of
// a dentry's embedded d_list.next field, which is what every next/prev
// pointer in the list actually holds — back to the address of the
// dentry record's own first byte, so field accessors like dentryName and
// dentryInode (which index relative to the record's start) can be used
// on nodes reached by walking the list.
func (b *Builder) dentryBaseFromLinkOffset(off uint32) addr {
	p := b.offToPtr(off)
	return addr{p.region, p.offset - uint32(dentryOffListNext(b.nameMax))}
}

// initRoot allocates inode 0 as a directory with an empty dentry list,
// size 0, blocks 0, data offset 0, and initializes the super block.
func (b *Builder) initRoot() {
	buf := b.inodeBytes(0)
	buf[inodeOffType] = byte(TypeDirectory)
	binary.LittleEndian.PutUint32(buf[inodeOffIno:], 0)
	binary.LittleEndian.PutUint32(buf[inodeOffParent:], 0)
	b.initList(b.dentryListLink(b.inodeAddr(0)))
	b.usedInodes = 1
}

// SuperBlock returns the current super block record for this builder,
// reflecting the live used-inode/used-block counts (spec.md §3).
func (b *Builder) SuperBlock() SuperBlock {
	return SuperBlock{
		ReadOnly:   true,
		UsedBlocks: b.usedBlocks,
		UsedInodes: b.usedInodes,
		SBStart:    0,
		InodeStart: uint64(b.inodeTableStart),
		BlockStart: uint64(b.blockAreaStart),
	}
}

// inodeType, inodeIno, etc. are small field accessors over a raw inode
// record, used throughout the builder and importer.

func (b *Builder) inodeType(ino uint32) FileType {
	return FileType(b.inodeBytes(ino)[inodeOffType])
}

func (b *Builder) inodeParent(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(b.inodeBytes(ino)[inodeOffParent:])
}

func (b *Builder) inodeSize(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(b.inodeBytes(ino)[inodeOffSize:])
}

func (b *Builder) setInodeSize(ino uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.inodeBytes(ino)[inodeOffSize:], v)
}

func (b *Builder) inodeBlocks(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(b.inodeBytes(ino)[inodeOffBlocks:])
}

func (b *Builder) setInodeBlocks(ino uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.inodeBytes(ino)[inodeOffBlocks:], v)
}

func (b *Builder) inodeData(ino uint32) uint32 {
	return binary.LittleEndian.Uint32(b.inodeBytes(ino)[inodeOffData:])
}

func (b *Builder) setInodeData(ino uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.inodeBytes(ino)[inodeOffData:], v)
}

func (b *Builder) dentryName(at addr) string {
	buf := b.bytesAt(at, b.nameMax)
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

func (b *Builder) dentryInode(at addr) uint32 {
	buf := b.bytesAt(at, b.dentrySize())
	off := dentryOffInode(b.nameMax)
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// search implements spec.md §4.3 fs_search: linear scan of dir's dentry
// list for an exact byte-for-byte name match, returning the found inode
// number and true, or (0, false) if absent or dir has no entries yet.
func (b *Builder) search(dir uint32, name string) (uint32, bool) {
	dirAddr := b.inodeAddr(dir)
	head := b.dentryListLink(dirAddr)
	if b.listEmpty(head) {
		return 0, false
	}
	var found uint32
	ok := false
	b.listIterate(head, func(off uint32) bool {
		at := b.dentryBaseFromLinkOffset(off)
		if b.dentryName(at) == name {
			found = b.dentryInode(at)
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// add implements spec.md §4.3 fs_add: allocate a new dentry under dir
// bound to a freshly allocated inode of the given type.
func (b *Builder) add(dir uint32, name string, typ FileType) (uint32, error) {
	if b.usedInodes >= b.inodeMax {
		return 0, ErrInodeTableFull
	}

	dirAddr := b.inodeAddr(dir)
	dentrySize := b.dentrySize()
	perBlock := b.dentriesPerBlock()
	size := b.inodeSize(dir)
	blocks := b.inodeBlocks(dir)
	currentCount := size / uint32(dentrySize)

	var newAt addr
	if size > 0 && currentCount+1 <= blocks*perBlock {
		// Fits in the directory's current tail block: place immediately
		// after the last dentry in storage (spec.md §4.3 step 3, §9's
		// "address = previous dentry + sizeof(dentry)" trick).
		lastOff := b.tailDentryOffset(dir)
		newAt = addr{lastOff.region, lastOff.offset + uint32(dentrySize)}
	} else {
		if b.usedBlocks >= b.blockCnt {
			return 0, ErrBlockPoolFull
		}
		blockOffset := b.usedBlocks * b.blockSize
		b.usedBlocks++
		newAt = addr{regionBlock, blockOffset}
	}

	// Populate the new dentry.
	dbuf := b.bytesAt(newAt, dentrySize)
	for i := range dbuf {
		dbuf[i] = 0
	}
	nameBytes := []byte(name)
	if len(nameBytes) > b.nameMax-1 {
		nameBytes = nameBytes[:b.nameMax-1]
	}
	copy(dbuf[:b.nameMax], nameBytes)
	newIno := b.usedInodes
	binary.LittleEndian.PutUint32(dbuf[dentryOffInode(b.nameMax):], newIno)
	binary.LittleEndian.PutUint32(dbuf[dentryOffParent(b.nameMax):], dir)

	// Populate the new inode.
	ibuf := b.inodeBytes(newIno)
	for i := range ibuf {
		ibuf[i] = 0
	}
	ibuf[inodeOffType] = byte(typ)
	binary.LittleEndian.PutUint32(ibuf[inodeOffIno:], newIno)
	binary.LittleEndian.PutUint32(ibuf[inodeOffParent:], dir)
	switch typ {
	case TypeDirectory:
		b.initList(b.dentryListLink(b.inodeAddr(newIno)))
	case TypeRegular:
		// no list head to initialize
	default:
		return 0, ErrUnknownType
	}
	b.usedInodes++

	if size == 0 {
		b.setInodeData(dir, b.ptrToOff(newAt))
	}
	b.listAddTail(b.dentryNodeLink(newAt), b.dentryListLink(dirAddr))

	newSize := size + uint32(dentrySize)
	newCount := newSize / uint32(dentrySize)
	b.setInodeSize(dir, newSize)
	b.setInodeBlocks(dir, ceilDiv(newCount, perBlock))

	return newIno, nil
}

// tailDentryOffset returns the address of dir's most recently appended
// dentry: the node whose d_list.next loops back to dir's i_dentry head.
// Only valid when dir's dentry list is non-empty.
func (b *Builder) tailDentryOffset(dir uint32) addr {
	head := b.dentryListLink(b.inodeAddr(dir))
	tailOff := b.linkPrev(head)
	return b.dentryBaseFromLinkOffset(tailOff)
}

func ceilDiv(n, d uint32) uint32 {
	if d == 0 {
		return 0
	}
	return (n + d - 1) / d
}
