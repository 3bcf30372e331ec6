package table

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Integer is the set of integer types IntHash accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// StringHash hashes a string key with xxHash64.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// BytesHash hashes a byte slice key with xxHash64.
func BytesHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// IntHash uses the integer value itself as the hash code. Negative values
// wrap around to large unsigned values, so bucket indexes stay in range.
func IntHash[T Integer](key T) uint64 {
	return uint64(key)
}

// Equal compares two keys with ==.
func Equal[K comparable](a, b K) bool {
	return a == b
}

// BytesEqual compares two byte slice keys by content.
func BytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// FormatPrint writes "key : value" using the default fmt formatting.
func FormatPrint[K, V any](w io.Writer, key K, value V) {
	fmt.Fprintf(w, "%v : %v", key, value)
}

// NewComparable creates a table whose keys are compared with ==.
func NewComparable[K comparable, V any](hash HashFunc[K], print PrintFunc[K, V], del DeleteFunc[K, V], opts ...Option) *Table[K, V] {
	return New[K, V](hash, Equal[K], print, del, opts...)
}

// NewString creates a table keyed by strings using StringHash.
func NewString[V any](print PrintFunc[string, V], del DeleteFunc[string, V], opts ...Option) *Table[string, V] {
	return New[string, V](StringHash, Equal[string], print, del, opts...)
}
