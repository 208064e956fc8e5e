package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainEntry prefixes every record hash. The version suffix allows a
// future change of the hashed fields.
const DomainEntry = "vocabdb/entry/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data). The NUL separator
// keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordHash computes the chained hash of r from every field except Hash.
func RecordHash(r Record) (string, error) {
	canonical, err := marshalCanonical(map[string]any{
		"seq":        r.Seq,
		"batch":      r.Batch,
		"store_id":   r.StoreID,
		"op":         string(r.Op),
		"element_id": int64(r.ElementID),
		"type":       r.Type,
		"db_string":  r.DBString,
		"prev_hash":  r.PrevHash,
	})
	if err != nil {
		return "", fmt.Errorf("RecordHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEntry, canonical), nil
}
