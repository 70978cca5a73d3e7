// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// blakeHasher is the default [Hasher] implementation, backed by BLAKE2b-256.
// BLAKE2b is considerably faster than SHA-256 on the payload sizes the chunk
// transfer path produces, and supports native keying without an HMAC
// construction.
type blakeHasher struct {
	key []byte
}

// NewHasher constructs an unkeyed BLAKE2b-256 [Hasher].
func NewHasher() Hasher {
	return &blakeHasher{}
}

// NewKeyedHasher constructs a keyed BLAKE2b-256 [Hasher]. The key binds
// digests to one deployment, so a package exported by a foreign build with a
// different key fails the checksum gate instead of importing garbage. Keys
// longer than 64 bytes are truncated to the BLAKE2b maximum.
func NewKeyedHasher(key string) Hasher {
	k := []byte(key)
	if len(k) > blake2b.Size {
		k = k[:blake2b.Size]
	}
	return &blakeHasher{key: k}
}

// Sum implements [Hasher].
func (h *blakeHasher) Sum(data []byte) string {
	d, err := blake2b.New256(h.key)
	if err != nil {
		// New256 fails only for oversized keys, which the constructor
		// already truncates.
		panic(err)
	}
	d.Write(data)
	return hex.EncodeToString(d.Sum(nil))
}

// SumString implements [Hasher].
func (h *blakeHasher) SumString(data string) string {
	return h.Sum([]byte(data))
}
