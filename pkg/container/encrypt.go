package container

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
)

// Encrypt builds a container around body using the given salt and IV.
// The plaintext is zero-filled up to the block size; no block is added when it is already aligned.
func Encrypt(body, salt, iv []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	plain := make([]byte, 0, sizeFieldSize+magicSize+len(body)+digestSize+aes.BlockSize)
	plain = binary.LittleEndian.AppendUint64(plain, uint64(len(body)))
	plain = append(plain, Magic...)
	plain = append(plain, body...)
	digest := sha256.Sum256(body)
	plain = append(plain, digest[:]...)
	if rem := len(plain) % aes.BlockSize; rem != 0 {
		plain = append(plain, make([]byte, aes.BlockSize-rem)...)
	}

	block, err := aes.NewCipher(DeriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %v", err)
	}

	out := make([]byte, HeaderSize+len(plain))
	copy(out, iv)
	copy(out[aes.BlockSize:], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[HeaderSize:], plain)

	return out, nil
}

// Seal is Encrypt with a random salt and IV.
func Seal(body []byte) ([]byte, error) {
	prefix := make([]byte, HeaderSize)
	if _, err := io.ReadFull(rand.Reader, prefix); err != nil {
		return nil, fmt.Errorf("failed to generate IV/salt: %v", err)
	}
	return Encrypt(body, prefix[aes.BlockSize:], prefix[:aes.BlockSize])
}
