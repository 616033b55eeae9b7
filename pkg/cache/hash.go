package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// resultSchema is part of every ordering key. Bump it when the cached result
// document changes shape so old entries are never decoded.
const resultSchema = "v1"

// orderKey returns "order:<schema>:<sha256>" over the graph hash and the
// options that influence the result.
func orderKey(graphHash string, opts OrderKeyOpts) string {
	data, _ := json.Marshal(struct {
		Graph string       `json:"graph"`
		Opts  OrderKeyOpts `json:"opts"`
	}{graphHash, opts})
	return "order:" + resultSchema + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. The pipeline uses it to identify
// canonical graph documents.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortHash abbreviates a hash from [Hash] for log lines.
func ShortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
