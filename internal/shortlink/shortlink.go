// Package shortlink maps recipe ids to short URL-safe tokens and back.
//
// Tokens are the base-64 positional representation of the id over Alphabet,
// most significant digit first. Every uint64 has exactly one token and every
// valid token decodes to exactly one uint64.
package shortlink

import (
	"errors"
	"math/bits"
	"strings"
)

// Alphabet is the ordered digit set; the index of a character is its value.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

const base = uint64(len(Alphabet))

// maxTokenLength is the length of the token for math.MaxUint64.
const maxTokenLength = 11

var ErrInvalidToken = errors.New("invalid short link token")

var digitValues = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		table[Alphabet[i]] = int8(i)
	}
	return table
}()

// Encode returns the token for id.
func Encode(id uint64) string {
	if id == 0 {
		return Alphabet[:1]
	}

	var buf [maxTokenLength]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = Alphabet[id%base]
		id /= base
	}
	return string(buf[i:])
}

// Decode returns the id for token. It fails with ErrInvalidToken when the
// token is empty, contains a character outside Alphabet, has a redundant
// leading zero digit or does not fit in a uint64.
func Decode(token string) (uint64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}
	for i := 0; i < len(token); i++ {
		if digitValues[token[i]] < 0 {
			return 0, ErrInvalidToken
		}
	}
	if len(token) > 1 && token[0] == Alphabet[0] {
		return 0, ErrInvalidToken
	}
	if len(token) > maxTokenLength {
		return 0, ErrInvalidToken
	}

	var id uint64
	for i := 0; i < len(token); i++ {
		hi, lo := bits.Mul64(id, base)
		if hi != 0 {
			return 0, ErrInvalidToken
		}
		sum, carry := bits.Add64(lo, uint64(digitValues[token[i]]), 0)
		if carry != 0 {
			return 0, ErrInvalidToken
		}
		id = sum
	}
	return id, nil
}

// URL builds the public short link for id under origin.
func URL(origin string, id uint64) string {
	return strings.TrimRight(origin, "/") + "/s/" + Encode(id)
}
