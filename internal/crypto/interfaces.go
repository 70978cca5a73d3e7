package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/hasher_mock.go -package=mock

// Hasher produces deterministic digests used purely for integrity checking:
// chunk checksums, file-level checksums, and migration package checksums.
//
// The digest does not need to be collision-resistant against an adversary —
// the remote endpoint authenticates callers separately — it only needs to be
// deterministic and fast. This is a documented design choice, not an
// oversight.
type Hasher interface {
	// Sum returns the hex-encoded digest of data.
	Sum(data []byte) string

	// SumString is a convenience wrapper for hashing string payloads.
	SumString(data string) string
}
