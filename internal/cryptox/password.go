// Package cryptox encodes the password stored in a credential record.
//
// The default PlainCodec keeps the password exactly as typed, which is the
// documented behavior of the local account system and offers no protection
// at rest. BcryptCodec and Argon2Codec are opt-in (config "password_codec")
// for deployments that must not keep plaintext. Switching codecs does not
// migrate existing records: a record written by one codec will not verify
// under another, and the login simply fails as invalid credentials.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	CodecPlain    = "plain"
	CodecBcrypt   = "bcrypt"
	CodecArgon2ID = "argon2id"
)

var ErrUnknownCodec = errors.New("unknown password codec")

// PasswordCodec turns a password into the bytes kept in the store and checks
// a candidate against them.
type PasswordCodec interface {
	Name() string
	Encode(password []byte) ([]byte, error)
	// Verify reports whether password matches stored. Malformed stored data
	// never matches.
	Verify(stored, password []byte) bool
}

// NewCodec returns the codec registered under name.
func NewCodec(name string) (PasswordCodec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecPlain:
		return PlainCodec{}, nil
	case CodecBcrypt:
		return BcryptCodec{Cost: bcrypt.DefaultCost}, nil
	case CodecArgon2ID:
		return Argon2Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

type PlainCodec struct{}

func (PlainCodec) Name() string { return CodecPlain }

func (PlainCodec) Encode(password []byte) ([]byte, error) {
	return append([]byte{}, password...), nil
}

func (PlainCodec) Verify(stored, password []byte) bool {
	return subtle.ConstantTimeCompare(stored, password) == 1
}

type BcryptCodec struct {
	Cost int
}

func (BcryptCodec) Name() string { return CodecBcrypt }

func (c BcryptCodec) Encode(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, c.Cost)
}

func (BcryptCodec) Verify(stored, password []byte) bool {
	return bcrypt.CompareHashAndPassword(stored, password) == nil
}

// Argon2Codec stores "argon2id$<salt>$<key>" with base64 (raw std) fields.
type Argon2Codec struct{}

const argon2SaltSize = 16

func (Argon2Codec) Name() string { return CodecArgon2ID }

func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func (Argon2Codec) Encode(password []byte) ([]byte, error) {
	salt := make([]byte, argon2SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	key := DeriveKey(password, salt)

	enc := base64.RawStdEncoding
	return []byte(CodecArgon2ID + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key)), nil
}

func (Argon2Codec) Verify(stored, password []byte) bool {
	parts := strings.Split(string(stored), "$")
	if len(parts) != 3 || parts[0] != CodecArgon2ID {
		return false
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}
	key, err := enc.DecodeString(parts[2])
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, DeriveKey(password, salt)) == 1
}
