// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package channel carries the symmetric cipher plumbing: raw AES-CBC
// with PKCS#7 padding, and an authenticated message channel built on
// top of it. The avalanche analyzer consumes EncryptCBC as its encrypt
// capability.
package channel // import "github.com/randlab/randlab/internal/channel"

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// ErrBadPadding is returned when a decrypted block does not end in valid
// PKCS#7 padding.
var ErrBadPadding = errors.New("invalid pkcs7 padding")

// EncryptCBC encrypts plaintext under AES-CBC with PKCS#7 padding. The
// key must be a valid AES key length (16, 24 or 32 bytes); the IV must
// be one block. Identical inputs give identical output.
func EncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing aes: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// DecryptCBC reverses EncryptCBC and strips the padding.
func DecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing aes: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a positive multiple of the block size", len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

// ZeroIV returns the all-zero IV used as the fixed baseline in key
// sensitivity analysis. Never use it for transporting data.
func ZeroIV() []byte {
	return make([]byte, aes.BlockSize)
}

func pkcs7Pad(b []byte, size int) []byte {
	pad := size - len(b)%size
	return append(append([]byte{}, b...), bytes.Repeat([]byte{byte(pad)}, pad)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, ErrBadPadding
	}
	pad := int(b[len(b)-1])
	if pad == 0 || pad > size {
		return nil, ErrBadPadding
	}
	for _, c := range b[len(b)-pad:] {
		if int(c) != pad {
			return nil, ErrBadPadding
		}
	}
	return b[:len(b)-pad], nil
}
