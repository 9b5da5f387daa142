package model

// Path represents a file system path.
type Path string

// File represents a C# source file selected for scanning.
type File struct {
	FullPath  Path
	ShortPath Path
}

// Source is a file together with the contents it had when it was read.
type Source struct {
	Origin  *File
	Content []byte
}
