package migrate

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSON documents are carried as raw bytes and navigated with gjson/sjson.
// Operating on bytes instead of unmarshalled maps keeps key order stable for
// every key a migration does not touch, which is what makes up/down round
// trips reproducible.

// normalizeDoc renders a document in the canonical on-disk form: two-space
// indent with a trailing newline.
func normalizeDoc(doc []byte) []byte {
	out := pretty.Pretty(doc)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out
}

// docGet returns the value at a keypath.
func docGet(doc []byte, kp Keypath) gjson.Result {
	return gjson.GetBytes(doc, kp.queryPath())
}

// docExists reports whether a keypath resolves to a value.
func docExists(doc []byte, kp Keypath) bool {
	return docGet(doc, kp).Exists()
}

// checkParents verifies that every intermediate segment of kp exists and is
// an object. Returns ErrKeyNotFound semantics via the bool; a segment that
// exists but is not an object can never contain the key, which callers treat
// the same as a missing segment.
func checkParents(doc []byte, kp Keypath) bool {
	for i := 1; i < kp.Len(); i++ {
		res := docGet(doc, kp.Prefix(i))
		if !res.Exists() || !res.IsObject() {
			return false
		}
	}
	return true
}

// docSet writes a value (any JSON-marshalable Go value) at a keypath,
// creating intermediate objects as needed.
func docSet(doc []byte, kp Keypath, value interface{}) ([]byte, error) {
	return sjson.SetBytes(doc, kp.queryPath(), value)
}

// docSetRaw writes pre-encoded JSON at a keypath, preserving the exact
// representation of the moved value (no float round-tripping).
func docSetRaw(doc []byte, kp Keypath, raw string) ([]byte, error) {
	return sjson.SetRawBytes(doc, kp.queryPath(), []byte(raw))
}

// docDelete removes the value at a keypath. Deleting a missing key is a no-op.
func docDelete(doc []byte, kp Keypath) ([]byte, error) {
	return sjson.DeleteBytes(doc, kp.queryPath())
}
