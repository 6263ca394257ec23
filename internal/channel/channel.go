// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// Authenticated demonstration channel over a shared master secret. The
// two directions of the HKDF expansion keep the cipher key and the MAC
// key independent; messages travel as IV || ciphertext || HMAC tag.

package channel

import (
	"crypto/aes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrTagMismatch is returned when a message fails authentication.
var ErrTagMismatch = errors.New("message authentication failed")

const tagSize = sha256.Size

// Channel encrypts and authenticates messages under keys derived from a
// shared master secret.
type Channel struct {
	encKey []byte
	macKey []byte
}

// New derives the channel keys from master via HKDF-SHA256.
func New(master []byte) (*Channel, error) {
	if len(master) == 0 {
		return nil, errors.New("empty master secret")
	}
	c := &Channel{
		encKey: make([]byte, 32),
		macKey: make([]byte, 32),
	}
	kdf := hkdf.New(sha256.New, master, nil, []byte("randlab channel v1"))
	if _, err := io.ReadFull(kdf, c.encKey); err != nil {
		return nil, fmt.Errorf("deriving cipher key: %w", err)
	}
	if _, err := io.ReadFull(kdf, c.macKey); err != nil {
		return nil, fmt.Errorf("deriving mac key: %w", err)
	}
	return c, nil
}

// Seal encrypts plaintext under a fresh random IV and appends an
// HMAC-SHA256 tag over IV and ciphertext.
func (c *Channel) Seal(plaintext []byte) ([]byte, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generating iv: %w", err)
	}
	ct, err := EncryptCBC(c.encKey, iv, plaintext)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(iv)
	mac.Write(ct)
	out := make([]byte, 0, len(iv)+len(ct)+tagSize)
	out = append(out, iv...)
	out = append(out, ct...)
	return mac.Sum(out), nil
}

// Open authenticates and decrypts a sealed message.
func (c *Channel) Open(msg []byte) ([]byte, error) {
	if len(msg) < aes.BlockSize+aes.BlockSize+tagSize {
		return nil, fmt.Errorf("message too short: %d bytes", len(msg))
	}
	iv := msg[:aes.BlockSize]
	ct := msg[aes.BlockSize : len(msg)-tagSize]
	tag := msg[len(msg)-tagSize:]

	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(iv)
	mac.Write(ct)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, ErrTagMismatch
	}
	return DecryptCBC(c.encKey, iv, ct)
}
