package romfs

// config holds the resolved capacity ceilings and flags for a Builder,
// built up from the package defaults plus any Options (spec.md §5:
// "resource ceilings are static compile-time constants" — Options let a
// host tool choose the constants per image without recompiling, but never
// disable the ceilings themselves).
type config struct {
	nameMax   int
	inodeMax  uint32
	blockCnt  uint32
	blockSize uint32
	verbose   bool
}

func defaultConfig() config {
	return config{
		nameMax:   DefaultNameMax,
		inodeMax:  DefaultInodeMax,
		blockCnt:  DefaultBlockCnt,
		blockSize: DefaultBlockSize,
	}
}

// Option configures a Builder, mirroring the teacher's WriterOption
// functional-option shape (WithBlockSize, WithCompression, WithModTime).
type Option func(*config)

// WithNameMax overrides NAME_MAX, the maximum stored name length
// including the terminating NUL.
func WithNameMax(n int) Option {
	return func(c *config) { c.nameMax = n }
}

// WithInodeMax overrides INODE_MAX, the size of the inode table.
func WithInodeMax(n uint32) Option {
	return func(c *config) { c.inodeMax = n }
}

// WithBlockCount overrides FS_BLK_CNT, the number of blocks in the pool.
func WithBlockCount(n uint32) Option {
	return func(c *config) { c.blockCnt = n }
}

// WithBlockSize overrides FS_BLK_SIZE, the size in bytes of one block.
func WithBlockSize(n uint32) Option {
	return func(c *config) { c.blockSize = n }
}

// WithVerbose enables diagnostic logging during import and serialization,
// mirroring the original C project's verbose() helper.
func WithVerbose(v bool) Option {
	return func(c *config) { c.verbose = v }
}
