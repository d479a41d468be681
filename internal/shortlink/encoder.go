// Package shortlink maps numeric record identifiers to the public short link
// strings served by VH7 and back. It also provides the word-pair identity
// scheme used when links should be human readable.
package shortlink

import (
	"errors"
	"fmt"
	"math"
)

// DefaultAlphabet is the alphabet links are encoded with unless configured
// otherwise. Changing it after deployment invalidates every issued link.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrInvalidLink is returned by Decode for strings that cannot have been
// produced by Encode.
var ErrInvalidLink = errors.New("unrecognized short link")

// Encoder is a base-K positional codec over a fixed alphabet.
type Encoder struct {
	alphabet []byte
	index    [256]int16
}

// NewEncoder builds an Encoder for the given alphabet. The alphabet must be
// ASCII, have at least two characters and contain no duplicates.
func NewEncoder(alphabet string) (*Encoder, error) {
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("alphabet must have at least 2 characters, got %d", len(alphabet))
	}

	e := &Encoder{alphabet: []byte(alphabet)}
	for i := range e.index {
		e.index[i] = -1
	}

	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c >= 0x80 {
			return nil, fmt.Errorf("alphabet must be ASCII, got %q at %d", c, i)
		}
		if e.index[c] != -1 {
			return nil, fmt.Errorf("alphabet has duplicate character %q", c)
		}
		e.index[c] = int16(i)
	}

	return e, nil
}

// MustEncoder is NewEncoder that panics on a bad alphabet.
func MustEncoder(alphabet string) *Encoder {
	e, err := NewEncoder(alphabet)
	if err != nil {
		panic(err)
	}
	return e
}

// Base returns the size of the alphabet.
func (e *Encoder) Base() int {
	return len(e.alphabet)
}

// Encode returns the representation of n, most significant digit first.
// Encode(0) is the first character of the alphabet.
func (e *Encoder) Encode(n uint64) string {
	if n == 0 {
		return string(e.alphabet[0])
	}

	base := uint64(len(e.alphabet))

	var buf [64]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = e.alphabet[n%base]
		n /= base
	}

	return string(buf[i:])
}

// Decode is the inverse of Encode.
func (e *Encoder) Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidLink
	}

	base := uint64(len(e.alphabet))

	var n uint64
	for i := 0; i < len(s); i++ {
		d := e.index[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLink, s)
		}
		if n > (math.MaxUint64-uint64(d))/base {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidLink, s)
		}
		n = n*base + uint64(d)
	}

	return n, nil
}
