package source

// FileID identifies a document within a FileSet.
type FileID uint32

// FileFlags records how a document entered the FileSet.
type FileFlags uint8

const (
	// FileVirtual marks documents added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks documents whose UTF-8 byte order mark was stripped.
	FileHadBOM
)

// File is one loaded document. Hash is the sha256 of Content and keys the
// driver's disk cache.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}
