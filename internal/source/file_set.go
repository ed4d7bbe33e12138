package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages the source files of one scan and resolves spans to positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// A new FileID is created even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, kind Kind, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Kind:    kind,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	// Индекс всегда указывает на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, derives the kind from the
// extension, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, KindForPath(path), content, flags), nil
}

// AddVirtual adds an in-memory file (editor buffer, stdin, test) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, kind Kind, content []byte) FileID {
	content, _ = removeBOM(content)
	content, _ = normalizeCRLF(content)
	if kind == KindUnknown {
		kind = KindForPath(name)
	}
	return fileSet.Add(name, kind, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into start and end line/column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Pos resolves just the start position of a span.
func (fileSet *FileSet) Pos(span Span) LineCol {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start)
}

// Pos resolves a byte offset inside this file to a line/column position.
func (f *File) Pos(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end, lenLineIdx, lenContent uint32
	var err error
	lenLineIdx, err = safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err = safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}

	return string(f.Content[start:end])
}
