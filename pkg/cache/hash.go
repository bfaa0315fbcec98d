package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is part of every derived key. Bump it when the same options
// start producing a different galaxy, so shared caches stop serving the old
// output.
const keyVersion = "v1"

// digest returns "<kind>:<version>:<sha256>" over the JSON encoding of
// parts. The key option structs have a fixed field order, so equal options
// always encode to equal bytes.
func digest(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p) // key structs hold only strings, ints and bools
	}
	return kind + ":" + keyVersion + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. File cache entries are named by the
// hash of their key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
