package license

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Key format constants. A key looks like HSPC-XXXX-XXXX-XXXX-YYYY: the
// literal prefix, three payload segments and one checksum segment.
const (
	keyPrefix      = "HSPC"
	keySegments    = 5
	keySegmentLen  = 4
	payloadStart   = 1
	checksumIndex  = 4
	checksumModulo = 36
)

// ErrProAlreadyActive is returned by StartTrial when a pro license exists.
var ErrProAlreadyActive = errors.New("pro license is already active")

// ErrInvalidKey is returned when a license key fails format or checksum
// validation. This is an ordinary rejection, never a panic and never a
// network call.
var ErrInvalidKey = errors.New("invalid license key")

// Manager handles loading, saving and mutating the license file.
type Manager struct {
	path string
}

// NewManager creates a manager bound to the given license file path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the license from disk. An absent file yields the default free
// license; a malformed file is a hard error rather than a silent fallback,
// so tampering does not quietly grant or revoke entitlements.
func (m *Manager) Load() (License, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return License{}, fmt.Errorf("failed to read license file: %w", err)
	}

	var l License
	if err := json.Unmarshal(data, &l); err != nil {
		return License{}, fmt.Errorf("failed to parse license file: %w", err)
	}
	return l, nil
}

// Save writes the license to disk, creating the parent directory if needed.
func (m *Manager) Save(l License) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create license directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize license: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write license file: %w", err)
	}
	return nil
}

// ValidateKey checks a pro key's format and checksum: five dash-separated
// segments, literal HSPC prefix, three 4-character alphanumeric payload
// segments, and a checksum segment whose last character equals the sum of
// the payload segments' base-36 digit values mod 36, as a base-36 digit.
func ValidateKey(key string) bool {
	parts := strings.Split(key, "-")
	if len(parts) != keySegments {
		return false
	}
	if parts[0] != keyPrefix {
		return false
	}

	for _, segment := range parts[payloadStart:] {
		if len(segment) != keySegmentLen {
			return false
		}
		for _, c := range segment {
			if !isASCIIAlphanumeric(c) {
				return false
			}
		}
	}

	return verifyChecksum(parts[payloadStart:checksumIndex], parts[checksumIndex])
}

// verifyChecksum checks the trailing character of the checksum segment
// against the payload's base-36 digit sum.
func verifyChecksum(payload []string, checksum string) bool {
	sum := 0
	for _, segment := range payload {
		for _, c := range segment {
			sum += base36Digit(c)
		}
	}

	last := rune(checksum[len(checksum)-1])
	return base36Digit(last) == sum%checksumModulo
}

func isASCIIAlphanumeric(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// base36Digit returns the base-36 value of an alphanumeric character,
// case insensitive.
func base36Digit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// ActivatePro validates the key and persists a pro license with no expiry.
func (m *Manager) ActivatePro(key string) (License, error) {
	if !ValidateKey(key) {
		return License{}, fmt.Errorf("%w: expected format %s-XXXX-XXXX-XXXX-XXXX", ErrInvalidKey, keyPrefix)
	}

	upper := strings.ToUpper(key)
	l := License{
		Key:         &upper,
		Tier:        TierPro,
		ActivatedAt: time.Now().Unix(),
	}
	if err := m.Save(l); err != nil {
		return License{}, err
	}
	return l, nil
}

// StartTrial issues a 14-day trial. It fails when a pro license is active
// and is idempotent for a live trial: the same license is returned unchanged
// so trials cannot be renewed ahead of expiry.
func (m *Manager) StartTrial() (License, error) {
	current, err := m.Load()
	if err != nil {
		return License{}, err
	}

	if current.Tier == TierPro {
		return License{}, ErrProAlreadyActive
	}
	if current.Tier == TierTrial && !current.IsTrialExpired() {
		return current, nil
	}

	now := time.Now().Unix()
	expires := now + int64(TrialDuration.Seconds())
	l := License{
		Tier:        TierTrial,
		ActivatedAt: now,
		ExpiresAt:   &expires,
	}
	if err := m.Save(l); err != nil {
		return License{}, err
	}
	return l, nil
}

// DowngradeToFree unconditionally resets to the default free state.
func (m *Manager) DowngradeToFree() (License, error) {
	l := Default()
	if err := m.Save(l); err != nil {
		return License{}, err
	}
	return l, nil
}
