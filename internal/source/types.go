package source

type (
	// FileID uniquely identifies a schema file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a schema file.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single schema file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position, both parts 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
