// Package argon2id hashes and verifies passwords with argon2id, using the
// PHC string format "$argon2id$v=19$m=...,t=...,p=...$salt$hash".
package argon2id

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("the encoded hash is not in the correct format")
	ErrIncompatibleVersion = errors.New("incompatible version of argon2")
)

const (
	DefaultMemory      = 64 * 1024 // KiB
	DefaultIterations  = 1
	DefaultParallelism = 4
	DefaultSaltLength  = 16
	DefaultKeyLength   = 32
)

const numHashSections = 6

type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultParams = Params{
	Memory:      DefaultMemory,
	Iterations:  DefaultIterations,
	Parallelism: DefaultParallelism,
	SaltLength:  DefaultSaltLength,
	KeyLength:   DefaultKeyLength,
}

// EncodeHash hashes password with a random salt.
func EncodeHash(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	return EncodeHashWithSalt(password, p, salt), nil
}

func EncodeHashWithSalt(password string, p Params, salt []byte) string {
	b64Hash := base64.RawStdEncoding.EncodeToString(hashWithSalt(password, p, salt))
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations,
		p.Parallelism, b64Salt, b64Hash)
}

func hashWithSalt(password string, p Params, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

func DecodeHash(encodedHash string) (p *Params, salt, hash []byte, err error) {
	sections := strings.Split(encodedHash, "$")
	if len(sections) != numHashSections || sections[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(sections[2], "v=%d", &version); err != nil {
		return nil, nil, nil, errors.Join(ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return nil, nil, nil, ErrIncompatibleVersion
	}

	p = &Params{}
	if _, err := fmt.Sscanf(sections[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return nil, nil, nil, errors.Join(ErrInvalidHash, err)
	}

	salt, err = base64.RawStdEncoding.Strict().DecodeString(sections[4])
	if err != nil {
		return nil, nil, nil, errors.Join(ErrInvalidHash, err)
	}
	p.SaltLength = uint32(len(salt))

	hash, err = base64.RawStdEncoding.Strict().DecodeString(sections[5])
	if err != nil {
		return nil, nil, nil, errors.Join(ErrInvalidHash, err)
	}
	p.KeyLength = uint32(len(hash))
	return p, salt, hash, nil
}

// Compare reports whether password matches encodedHash.
func Compare(password, encodedHash string) (bool, error) {
	p, salt, hash, err := DecodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	other := hashWithSalt(password, *p, salt)
	return subtle.ConstantTimeCompare(hash, other) == 1, nil
}
