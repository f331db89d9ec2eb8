package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/gitbloat/pkg/safeconv"
)

// ObjectDatabase wraps a libgit2 object database (loose objects and packs).
type ObjectDatabase struct {
	odb *git2go.Odb
}

// ForEach calls fn for every object id in the database, reachable or not.
// Iteration stops at the first error returned by fn, which is passed through.
func (d *ObjectDatabase) ForEach(fn func(Hash) error) error {
	var cbErr error

	err := d.odb.ForEach(func(oid *git2go.Oid) error {
		cbErr = fn(HashFromOid(oid))

		return cbErr
	})
	if cbErr != nil {
		return cbErr
	}

	if err != nil {
		return fmt.Errorf("iterate object database: %w", err)
	}

	return nil
}

// ReadRaw reads the whole object with the given hash and returns its kind and
// inflated payload length. A corrupt payload fails here, not only a missing
// header. The payload is released before returning.
func (d *ObjectDatabase) ReadRaw(hash Hash) (RawObject, error) {
	obj, err := d.odb.Read(hash.ToOid())
	if err != nil {
		return RawObject{}, fmt.Errorf("read object %s: %w", hash, err)
	}
	defer obj.Free()

	return RawObject{
		Kind: kindFromObjectType(obj.Type()),
		Size: safeconv.MustUint64ToInt64(obj.Len()),
	}, nil
}

// Free releases the database handle. Safe to call more than once.
func (d *ObjectDatabase) Free() {
	if d.odb != nil {
		d.odb.Free()
		d.odb = nil
	}
}
