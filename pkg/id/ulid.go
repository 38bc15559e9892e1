// Package id generates time-sortable identifiers.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (no I, L, O, U).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26 character ULID: a 48-bit millisecond timestamp
// followed by 80 random bits, both Crockford Base32 encoded.
// ULIDs sort lexicographically by creation time.
func NewULID() string {
	return ulidAt(time.Now())
}

func ulidAt(t time.Time) string {
	var raw [16]byte
	ms := uint64(t.UnixMilli())
	for i := range 6 {
		raw[i] = byte(ms >> (40 - 8*i))
	}
	if _, err := rand.Read(raw[6:]); err != nil {
		binary.BigEndian.PutUint64(raw[8:], uint64(t.UnixNano()))
	}
	return encode(raw)
}

// encode writes 128 bits as 26 base32 digits, most significant first.
// The first digit carries the top 3 bits only.
func encode(raw [16]byte) string {
	hi := binary.BigEndian.Uint64(raw[:8])
	lo := binary.BigEndian.Uint64(raw[8:])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockfordBase32[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// Time returns the timestamp encoded in a ULID, or false when s is not one.
func Time(s string) (time.Time, bool) {
	if len(s) != 26 {
		return time.Time{}, false
	}
	var ms uint64
	for i := range 10 {
		v := decodeChar(s[i])
		if v < 0 {
			return time.Time{}, false
		}
		ms = ms<<5 | uint64(v)
	}
	for i := 10; i < 26; i++ {
		if decodeChar(s[i]) < 0 {
			return time.Time{}, false
		}
	}
	return time.UnixMilli(int64(ms)), true
}

func decodeChar(c byte) int {
	for i := range len(crockfordBase32) {
		if crockfordBase32[i] == c {
			return i
		}
	}
	return -1
}
