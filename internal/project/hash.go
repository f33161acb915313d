package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// Combine строит хеш модуля: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным: вызывающий передаёт их в порядке
// отсортированных рёбер графа.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Salted hashes content together with build parameters that change the
// result of parsing, such as the target architecture of CODE blocks.
func Salted(content Digest, salt ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, s := range salt {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
