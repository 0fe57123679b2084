package providers

import (
	"math/rand/v2"
	"strconv"
)

// KeyPool is an immutable set of provider API keys.
// It is safe for concurrent use; every call to Shuffled returns a fresh copy.
type KeyPool struct {
	keys    []string
	shuffle func([]string)
}

// NewKeyPool creates a pool that shuffles keys on every call.
func NewKeyPool(keys []string) *KeyPool {
	return &KeyPool{
		keys: append([]string(nil), keys...),
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

// NewOrderedKeyPool creates a pool that always yields keys in the given order.
func NewOrderedKeyPool(keys []string) *KeyPool {
	return &KeyPool{keys: append([]string(nil), keys...)}
}

// Shuffled returns a request-local copy of the keys in iteration order.
func (p *KeyPool) Shuffled() []string {
	if p == nil {
		return nil
	}
	out := append([]string(nil), p.keys...)
	if p.shuffle != nil {
		p.shuffle(out)
	}
	return out
}

// Len returns the number of keys in the pool.
func (p *KeyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Fingerprint identifies a key in logs without revealing it.
func Fingerprint(key string) string {
	if len(key) <= 6 {
		return "…(" + strconv.Itoa(len(key)) + ")"
	}
	return key[:6] + "…"
}
