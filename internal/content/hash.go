package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns a deterministic fingerprint of metadata and body. Metadata is
// serialized as JSON, which orders map keys, so key order in the source does
// not affect the result.
func Hash(metadata map[string]any, body string) string {
	h := sha256.New()
	meta, err := json.Marshal(metadata)
	if err != nil {
		// Values JSON cannot represent (NaN, infinities) fall back to a
		// sorted fmt rendering, which is also deterministic.
		meta = []byte(fmt.Sprintf("%v", metadata))
	}
	h.Write(meta)
	h.Write([]byte{0})
	h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))
}
