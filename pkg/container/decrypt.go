package container

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
)

// Decrypt verifies and decrypts a container, returning the plaintext body.
func Decrypt(data []byte) ([]byte, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	plain, err := decryptCBC(data[HeaderSize:], DeriveKey(hdr.Salt[:]), hdr.IV[:])
	if err != nil {
		return nil, err
	}
	if len(plain) < sizeFieldSize+magicSize {
		return nil, fmt.Errorf("%w: plaintext is %d bytes", ErrTruncated, len(plain))
	}

	size := int64(binary.LittleEndian.Uint64(plain[:sizeFieldSize]))
	if string(plain[sizeFieldSize:sizeFieldSize+magicSize]) != Magic {
		return nil, fmt.Errorf("%w: invalid signature %x", ErrBrokenContainer, plain[sizeFieldSize:sizeFieldSize+magicSize])
	}

	start := int64(sizeFieldSize + magicSize)
	if size < 0 || size > int64(len(plain))-start-digestSize {
		return nil, fmt.Errorf("%w: body size %d exceeds %d decrypted bytes", ErrIntegrityMismatch, size, len(plain))
	}
	body := plain[start : start+size]
	want := plain[start+size : start+size+digestSize]

	got := sha256.Sum256(body)
	if subtle.ConstantTimeCompare(got[:], want) != 1 {
		return nil, fmt.Errorf("%w: sha256 %x; expected %x", ErrIntegrityMismatch, got, want)
	}

	return body, nil
}

func decryptCBC(ciphertext, key, iv []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", ErrBrokenContainer, len(ciphertext))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %v", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}
