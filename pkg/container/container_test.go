package container

import (
	"bytes"
	"crypto/aes"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSalt = []byte("0123456789abcdef")
	testIV   = []byte("fedcba9876543210")
)

func isVerifyError(err error) bool {
	return errors.Is(err, ErrBrokenContainer) || errors.Is(err, ErrIntegrityMismatch)
}

func TestDeriveKey(t *testing.T) {
	key := DeriveKey(testSalt)
	require.Len(t, key, KeySize)
	assert.Equal(t, key, DeriveKey(testSalt), "derivation must be deterministic")
	assert.NotEqual(t, key, DeriveKey([]byte("another-salt-xyz")))

	// manual chain
	d := sha256.Sum256(append([]byte("OSD"), testSalt...))
	for i := 1; i < 1000; i++ {
		d = sha256.Sum256(d[:])
	}
	assert.Equal(t, d[:], key)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty", body: []byte{}},
		{name: "short", body: []byte("<data/>")},
		{name: "block aligned", body: bytes.Repeat([]byte{0x41}, 64)},
		{name: "unaligned", body: bytes.Repeat([]byte("rawprogram "), 37)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encrypt(tt.body, testSalt, testIV)
			require.NoError(t, err)
			assert.Zero(t, (len(enc)-HeaderSize)%aes.BlockSize)

			got, err := Decrypt(enc)
			require.NoError(t, err)
			assert.Equal(t, tt.body, got)
		})
	}
}

func TestSeal(t *testing.T) {
	body := []byte(`<?xml version="1.0" ?><data></data>`)
	enc, err := Seal(body)
	require.NoError(t, err)
	got, err := Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestDecryptTruncated(t *testing.T) {
	for _, n := range []int{0, 1, 16, 31} {
		_, err := Decrypt(make([]byte, n))
		assert.ErrorIs(t, err, ErrTruncated, "len %d", n)
	}
	// header only, no cipher body
	_, err := Decrypt(make([]byte, HeaderSize))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecryptUnalignedBody(t *testing.T) {
	enc, err := Encrypt([]byte("hello"), testSalt, testIV)
	require.NoError(t, err)
	_, err = Decrypt(enc[:len(enc)-3])
	assert.ErrorIs(t, err, ErrBrokenContainer)
}

func TestDecryptTamper(t *testing.T) {
	// 16 + 64 + 32 = 112 bytes: seven full blocks, no fill
	body := bytes.Repeat([]byte{0x5a}, 64)
	enc, err := Encrypt(body, testSalt, testIV)
	require.NoError(t, err)
	require.Len(t, enc, HeaderSize+112)

	for i := HeaderSize; i < len(enc); i++ {
		tampered := bytes.Clone(enc)
		tampered[i] ^= 0x01
		got, err := Decrypt(tampered)
		require.Error(t, err, "flipped byte %d decrypted silently", i)
		assert.Nil(t, got)
		assert.True(t, isVerifyError(err), "byte %d: unexpected error %v", i, err)
	}
}

func TestDecryptCorruptChecksum(t *testing.T) {
	body := []byte("0123456789abcdef")
	enc, err := Encrypt(body, testSalt, testIV)
	require.NoError(t, err)

	tampered := bytes.Clone(enc)
	tampered[len(tampered)-1] ^= 0xff
	_, err = Decrypt(tampered)
	assert.ErrorIs(t, err, ErrIntegrityMismatch)
}

func TestDecryptScenario(t *testing.T) {
	body := make([]byte, 64)
	for i := range body {
		body[i] = byte(i * 3)
	}
	enc, err := Encrypt(body, testSalt, testIV)
	require.NoError(t, err)

	got, err := Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	for i := 0; i < aes.BlockSize; i++ {
		badIV := bytes.Clone(enc)
		badIV[i] ^= 0x80
		got, err := Decrypt(badIV)
		assert.Nil(t, got)
		assert.True(t, isVerifyError(err), "iv byte %d: unexpected error %v", i, err)
		if i >= 8 {
			assert.ErrorIs(t, err, ErrBrokenContainer, "iv byte %d lands in the signature", i)
		}
	}
}

func TestDecryptWrongSalt(t *testing.T) {
	enc, err := Encrypt([]byte("body"), testSalt, testIV)
	require.NoError(t, err)
	enc[aes.BlockSize] ^= 0x01
	_, err = Decrypt(enc)
	assert.True(t, isVerifyError(err), "unexpected error %v", err)
}

func TestParseHeader(t *testing.T) {
	enc, err := Encrypt([]byte("body"), testSalt, testIV)
	require.NoError(t, err)
	h, err := ParseHeader(enc)
	require.NoError(t, err)
	assert.Equal(t, testIV, h.IV[:])
	assert.Equal(t, testSalt, h.Salt[:])
	assert.Contains(t, h.String(), "salt: 3031")
}

func TestEncryptBadInputs(t *testing.T) {
	_, err := Encrypt(nil, []byte("short"), testIV)
	assert.Error(t, err)
	_, err = Encrypt(nil, testSalt, []byte("short"))
	assert.Error(t, err)
}
