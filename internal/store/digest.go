package store

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// DomainImport prefixes the content digest of an import batch.
// The version suffix leaves room for a future algorithm change.
const DomainImport = "condsel/import/v1"

// digester accumulates the content digest of an import batch.
//
// Format: SHA256(domain + 0x00 + line1 + "\n" + line2 + "\n" ...)
// The null byte keeps the domain and data from running together. Two imports
// of the same catalog lines in the same order share a digest regardless of
// source path or import ID.
type digester struct {
	h hash.Hash
}

func newDigester(domain string) *digester {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	return &digester{h: h}
}

func (d *digester) add(line string) {
	d.h.Write([]byte(line))
	d.h.Write([]byte{'\n'})
}

func (d *digester) sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
