package gitlib

import git2go "github.com/libgit2/git2go/v34"

// ObjectKind classifies an object stored in the object database.
type ObjectKind int

// Object kinds. Anything libgit2 reports outside the four git types is KindOther.
const (
	KindOther ObjectKind = iota
	KindCommit
	KindTree
	KindBlob
	KindTag
)

var kindNames = [...]string{
	KindOther:  "other",
	KindCommit: "commit",
	KindTree:   "tree",
	KindBlob:   "blob",
	KindTag:    "tag",
}

// String returns the git name of the kind.
func (k ObjectKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindOther]
	}

	return kindNames[k]
}

func kindFromObjectType(t git2go.ObjectType) ObjectKind {
	switch t {
	case git2go.ObjectCommit:
		return KindCommit
	case git2go.ObjectTree:
		return KindTree
	case git2go.ObjectBlob:
		return KindBlob
	case git2go.ObjectTag:
		return KindTag
	default:
		return KindOther
	}
}

// RawObject is the kind and inflated payload length of an object, taken
// from a full read of the object from the database.
type RawObject struct {
	Kind ObjectKind
	Size int64
}
