package container

import "errors"

var (
	// ErrTruncated indicates the input is too short to hold the IV/salt prefix or the plaintext header.
	ErrTruncated = errors.New("container: truncated")
	// ErrBrokenContainer indicates the ciphertext is malformed or the decrypted signature does not match Magic.
	ErrBrokenContainer = errors.New("container: broken file")
	// ErrIntegrityMismatch indicates the embedded SHA-256 digest does not match the decrypted body.
	ErrIntegrityMismatch = errors.New("container: integrity mismatch")
)
