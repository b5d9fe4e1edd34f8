package source

import "slices"

// FileID indexes a FileSet; IDs start at 0 in load order.
type FileID uint32

// FileFlags record how a file entered the set.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // added from memory, not read from disk
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded source with its line index and content hash.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n' bytes
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position converts a byte offset to a line and column.
func (f *File) Position(off uint32) LineCol {
	// newlines strictly before off
	line, _ := slices.BinarySearch(f.LineIdx, off)
	var start uint32
	if line > 0 {
		start = f.LineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - start + 1} //nolint:gosec // bounded by len(LineIdx)
}

// GetLine returns the 1-based line without its trailing newline, or "" when
// the file has no such line.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end := uint32(len(f.Content)) //nolint:gosec // checked in Add
	if int(n) <= len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	return string(f.Content[start:end])
}

// Text returns the source covered by sp, clamped to the content.
func (f *File) Text(sp Span) string {
	n := uint32(len(f.Content)) //nolint:gosec // checked in Add
	start, end := min(sp.Start, n), min(sp.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}
