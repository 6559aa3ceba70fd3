package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Request identifies a parse or lex request for caching
type Request struct {
	Op    string // "parse" or "lex"
	Text  string
	Start int
	End   int
	Stop  string
	One   bool
}

// Key generates the cache key of a request
func (r Request) Key() string {
	h := sha256.New()
	h.Write([]byte(r.Stop))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(r.Start) + ":" + strconv.Itoa(r.End) + ":" + strconv.FormatBool(r.One)))
	h.Write([]byte{0})
	h.Write([]byte(r.Text))
	sum := h.Sum(nil)
	return r.Op + ":" + hex.EncodeToString(sum[:16]) // Use first 16 bytes
}
