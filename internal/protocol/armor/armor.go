// Package armor turns ASCII-armored OpenPGP input into the raw packet
// stream the packet walker expects.
package armor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	pgparmor "github.com/ProtonMail/go-crypto/openpgp/armor"
)

type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

var (
	ErrInvalidMode = errors.New("armor: invalid mode")
	ErrNoBlock     = errors.New("armor: no armored block found")
)

var beginMarker = []byte("-----BEGIN PGP ")

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways, "true", "yes":
		return ModeAlways, nil
	case ModeNever, "false", "no", "binary":
		return ModeNever, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
}

// IsArmored reports whether data starts with an armor header line.
func IsArmored(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), beginMarker)
}

// Unwrap returns the binary packet stream held in data. blockType is empty
// when data was passed through unchanged.
func Unwrap(data []byte, mode Mode) (packets []byte, blockType string, err error) {
	switch mode {
	case ModeNever:
		return data, "", nil
	case ModeAuto:
		if !IsArmored(data) {
			return data, "", nil
		}
	case ModeAlways:
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	block, err := pgparmor.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, "", ErrNoBlock
		}
		return nil, "", fmt.Errorf("armor: decode: %w", err)
	}
	body, err := io.ReadAll(block.Body)
	if err != nil {
		return nil, "", fmt.Errorf("armor: read %s body: %w", block.Type, err)
	}
	return body, block.Type, nil
}
