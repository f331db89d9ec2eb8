package gitlib

import git2go "github.com/libgit2/git2go/v34"

// Blob wraps a libgit2 blob.
type Blob struct {
	blob *git2go.Blob
}

// Size returns the blob size in bytes.
func (b *Blob) Size() int64 {
	return b.blob.Size()
}

// Contents returns the blob contents. The slice is only valid until Free.
func (b *Blob) Contents() []byte {
	return b.blob.Contents()
}

// Free releases the blob resources. Safe to call more than once.
func (b *Blob) Free() {
	if b.blob != nil {
		b.blob.Free()
		b.blob = nil
	}
}
