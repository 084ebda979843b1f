// Package model holds the data model described in the design spec: content
// and entity identity, positions and spans, entities and dependencies, diffs
// and changes. Everything here is a value type, cheap to copy, and safe to
// share across goroutines.
package model

import (
	"crypto/sha1" //nolint:gosec // intentionally SHA-1: must match git's blob hash
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
)

// Sha1Hash is a 160-bit hash. We deliberately use SHA-1 (not a faster or more
// collision-resistant hash) because ContentId must equal the git blob hash of
// the same bytes, and git hashes blobs with SHA-1.
type Sha1Hash [20]byte

// HashBytes computes the SHA-1 of data.
func HashBytes(data []byte) Sha1Hash {
	return sha1.Sum(data) //nolint:gosec
}

// HashBlob computes the SHA-1 of data the way git hashes a blob object: over
// the "blob <len>\x00" header followed by the content. This is what makes
// ContentId match the version-control blob hash.
func HashBlob(data []byte) Sha1Hash {
	h := sha1.New() //nolint:gosec
	fmt.Fprintf(h, "blob %d\x00", len(data))
	h.Write(data)
	var out Sha1Hash
	copy(out[:], h.Sum(nil))
	return out
}

// ParseSha1Hash parses a 40-character hex string into a Sha1Hash.
func ParseSha1Hash(s string) (Sha1Hash, error) {
	var out Sha1Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, errors.Wrap(err, "invalid hex")
	}
	if len(b) != len(out) {
		return out, errors.Errorf("expected %d byte hash, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

func (h Sha1Hash) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns the raw 20 bytes of the hash.
func (h Sha1Hash) Bytes() []byte { return h[:] }

// hasher accumulates bytes and produces a Sha1Hash, used to build the chained
// hashes (SimpleId, EntityId) that fold a parent hash, a name and a kind
// together.
type hasher struct {
	h []byte
}

func newHasher() *hasher { return &hasher{} }

func (b *hasher) bytes(p []byte) *hasher {
	b.h = append(b.h, p...)
	return b
}

func (b *hasher) string(s string) *hasher {
	b.h = append(b.h, s...)
	return b
}

func (b *hasher) sum() Sha1Hash {
	return HashBytes(b.h)
}

// ContentId identifies a file's bytes. Two files with identical bytes share a
// ContentId. It always equals the git blob hash of those bytes.
type ContentId struct{ hash Sha1Hash }

// ContentIdFromBytes derives a ContentId from file content.
func ContentIdFromBytes(data []byte) ContentId {
	return ContentId{HashBlob(data)}
}

// ContentIdFromHash wraps an already-computed hash (e.g. one read directly
// from a git tree entry) as a ContentId.
func ContentIdFromHash(h Sha1Hash) ContentId {
	return ContentId{h}
}

func (c ContentId) String() string { return c.hash.String() }
func (c ContentId) Hash() Sha1Hash { return c.hash }
func (c ContentId) IsZero() bool   { return c.hash == Sha1Hash{} }

// SimpleId is a revision-stable identity: a hash over (parent SimpleId ‖ name
// ‖ kind). It is not unique within one file — entities that overload (same
// name, same kind, same parent) collide on purpose, since the only
// information this id carries is the parent/name/kind path.
type SimpleId struct{ hash Sha1Hash }

// NewSimpleId computes a SimpleId from an optional parent id, a name and a kind.
func NewSimpleId(parent *SimpleId, name string, kind EntityKind) SimpleId {
	h := newHasher()
	if parent != nil {
		h.bytes(parent.hash.Bytes())
	}
	h.string(name)
	h.string(kind.String())
	return SimpleId{h.sum()}
}

func (s SimpleId) String() string { return s.hash.String() }
func (s SimpleId) Hash() Sha1Hash { return s.hash }

// EntityId is a per-(file content, location) identity: a hash over (parent
// EntityId ‖ name ‖ kind ‖ span bytes ‖ ContentId ‖ SimpleId). It changes
// whenever the file's bytes change, because it folds in ContentId and the
// exact span, which is why history joins must use SimpleId instead.
type EntityId struct{ hash Sha1Hash }

// NewEntityId computes an EntityId. span is the entity's byte span, exactly
// as serialized by Span.bytes.
func NewEntityId(parent *EntityId, name string, kind EntityKind, span Span, content ContentId, simple SimpleId) EntityId {
	h := newHasher()
	if parent != nil {
		h.bytes(parent.hash.Bytes())
	}
	h.string(name)
	h.string(kind.String())
	h.bytes(span.bytes())
	h.bytes(content.hash.Bytes())
	h.bytes(simple.hash.Bytes())
	return EntityId{h.sum()}
}

func (e EntityId) String() string { return e.hash.String() }
func (e EntityId) Hash() Sha1Hash { return e.hash }
