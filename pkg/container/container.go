// Package container decrypts the encrypted firmware container (".x") format.
//
// A container is laid out as:
//
//	IV (16) | Salt (16) | AES-256-CBC( OriginalSize (8, LE int64) | Magic (8) | Body | SHA-256(Body) (32) )
package container

import (
	"crypto/aes"
	"crypto/sha256"
	"fmt"
)

const (
	// Magic is the fixed signature stored after the size field.
	Magic = "\xcf\x06\x05\x04\x03\x02\x01\xfc"
	// Password is the fixed passphrase all containers are keyed with.
	Password = "OSD"
	// Iterations is the length of the SHA-256 chain used to stretch the key.
	Iterations = 1000
	// KeySize is the AES-256 key size.
	KeySize = 32
	// SaltSize is the size of the per-file salt.
	SaltSize = 16
	// HeaderSize is the size of the unencrypted IV+salt prefix.
	HeaderSize = aes.BlockSize + SaltSize

	sizeFieldSize = 8
	magicSize     = len(Magic)
	digestSize    = sha256.Size
)

// Header is the unencrypted prefix of a container.
type Header struct {
	IV   [aes.BlockSize]byte
	Salt [SaltSize]byte
}

func (h Header) String() string {
	return fmt.Sprintf("iv: %x salt: %x", h.IV[:], h.Salt[:])
}

// ParseHeader returns the IV and salt of a container without decrypting it.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes; need at least %d", ErrTruncated, len(data), HeaderSize)
	}
	var h Header
	copy(h.IV[:], data[:aes.BlockSize])
	copy(h.Salt[:], data[aes.BlockSize:HeaderSize])
	return &h, nil
}

// DeriveKey stretches Password and salt into an AES-256 key.
//
// This is PBKDF1 over SHA-256: one hash of password||salt followed by
// Iterations-1 hashes of the previous digest. It must stay bit-for-bit
// compatible with existing containers.
func DeriveKey(salt []byte) []byte {
	digest := sha256.Sum256(append([]byte(Password), salt...))
	for range Iterations - 1 {
		digest = sha256.Sum256(digest[:])
	}
	return digest[:KeySize]
}
