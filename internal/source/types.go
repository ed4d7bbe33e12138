package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, editor buffer).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// Kind is the source kind of a file: script or stylesheet.
// KindUnknown files are skipped by the scanner.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindScript
	KindStylesheet
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindStylesheet:
		return "stylesheet"
	}
	return "unknown"
}

// KindForPath derives the source kind from a file extension.
func KindForPath(path string) Kind {
	switch ext(path) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return KindScript
	case ".css":
		return KindStylesheet
	}
	return KindUnknown
}

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Kind    Kind
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
