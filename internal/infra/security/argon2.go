package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

var errInvalidHashFormat = errors.New("argon2: invalid hash format")

// Argon2Config holds the Argon2id cost parameters. Stored hashes embed their
// own parameters, so the active config only governs new hashes.
type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var (
	argonMu     sync.RWMutex
	activeArgon = Argon2Config{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
)

// CurrentArgon2Config returns the parameters new hashes are produced with.
func CurrentArgon2Config() Argon2Config {
	argonMu.RLock()
	defer argonMu.RUnlock()
	return activeArgon
}

// ConfigureArgon2 swaps the active parameters. Invalid parameters leave the
// current config untouched.
func ConfigureArgon2(cfg Argon2Config) error {
	if err := validateArgon2Config(cfg); err != nil {
		return err
	}
	argonMu.Lock()
	activeArgon = cfg
	argonMu.Unlock()
	return nil
}

// validateArgon2Config enforces floor values below which hashes stop being
// a meaningful defense.
func validateArgon2Config(cfg Argon2Config) error {
	if cfg.Memory < 8*1024 {
		return errors.New("argon2: memory must be at least 8 MiB")
	}
	if cfg.Iterations == 0 {
		return errors.New("argon2: iterations must be positive")
	}
	if cfg.Parallelism == 0 {
		return errors.New("argon2: parallelism must be positive")
	}
	if cfg.SaltLength < 8 {
		return errors.New("argon2: salt must be at least 8 bytes")
	}
	if cfg.KeyLength < 16 {
		return errors.New("argon2: key must be at least 16 bytes")
	}
	return nil
}

// HashPassword derives an Argon2id hash under the active config and encodes
// it as argon2id$v=19$m=<m>,t=<t>,p=<p>$<salt>$<hash> with raw base64 segments.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("argon2: password must not be empty")
	}

	cfg := CurrentArgon2Config()

	salt := make([]byte, cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, cfg.KeyLength)

	encoded := strings.Join([]string{
		argon2Variant,
		argon2Version,
		fmt.Sprintf("m=%d,t=%d,p=%d", cfg.Memory, cfg.Iterations, cfg.Parallelism),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	}, "$")

	return encoded, nil
}

// VerifyPassword compares the password against a stored hash in constant
// time. A malformed stored hash fails closed as (false, err); callers must
// never treat that as an authenticated state.
func VerifyPassword(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	cfg, salt, expected, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func decodeArgon2Hash(encoded string) (Argon2Config, []byte, []byte, error) {
	var none Argon2Config

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return none, nil, nil, errInvalidHashFormat
	}
	if parts[0] != argon2Variant {
		return none, nil, nil, fmt.Errorf("argon2: unexpected variant %q", parts[0])
	}
	if parts[1] != argon2Version {
		return none, nil, nil, fmt.Errorf("argon2: unsupported version %q", parts[1])
	}

	memory, iterations, parallelism, err := parseArgon2Params(parts[2])
	if err != nil {
		return none, nil, nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return none, nil, nil, fmt.Errorf("argon2: decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return none, nil, nil, fmt.Errorf("argon2: decode hash: %w", err)
	}

	cfg := Argon2Config{
		Memory:      memory,
		Iterations:  iterations,
		Parallelism: parallelism,
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}
	if err := validateArgon2Config(cfg); err != nil {
		return none, nil, nil, err
	}

	return cfg, salt, key, nil
}

func parseArgon2Params(segment string) (uint32, uint32, uint8, error) {
	var memory, iterations uint32
	var parallelism uint8

	entries := strings.Split(segment, ",")
	if len(entries) != 3 {
		return 0, 0, 0, errInvalidHashFormat
	}

	for _, entry := range entries {
		name, raw, found := strings.Cut(entry, "=")
		if !found {
			return 0, 0, 0, errInvalidHashFormat
		}

		switch name {
		case "m":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return 0, 0, 0, errInvalidHashFormat
			}
			memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return 0, 0, 0, errInvalidHashFormat
			}
			iterations = uint32(v)
		case "p":
			v, err := strconv.ParseUint(raw, 10, 8)
			if err != nil {
				return 0, 0, 0, errInvalidHashFormat
			}
			parallelism = uint8(v)
		default:
			return 0, 0, 0, errInvalidHashFormat
		}
	}

	return memory, iterations, parallelism, nil
}
