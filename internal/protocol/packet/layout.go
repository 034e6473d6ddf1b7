package packet

import (
	"encoding/binary"
	"fmt"
)

const (
	PKESKVersionLen = 1
	KeyIDLen        = 8
	PKESKPrefixLen  = PKESKVersionLen + KeyIDLen

	SEIPPrefixLen = 16
	SEIPHashLen   = 20
	SEIPMinLen    = 1 + SEIPPrefixLen + SEIPHashLen
)

// PKESK is a field view over a tag 1 body. Only Material is extracted.
type PKESK struct {
	Version  byte
	KeyID    []byte
	Material []byte
}

// KeyIDUint64 returns the key ID the way RFC 4880 tools print it.
func (k PKESK) KeyIDUint64() uint64 {
	return binary.BigEndian.Uint64(k.KeyID)
}

func ParsePKESK(body []byte) (PKESK, error) {
	if len(body) < PKESKPrefixLen {
		return PKESK{}, fmt.Errorf("%w: PKESK body is %d bytes, need at least %d", ErrMalformed, len(body), PKESKPrefixLen)
	}
	return PKESK{
		Version:  body[0],
		KeyID:    body[PKESKVersionLen:PKESKPrefixLen:PKESKPrefixLen],
		Material: body[PKESKPrefixLen:],
	}, nil
}

// SEIP is a field view over a tag 18 body. All fields alias the body.
type SEIP struct {
	Version    byte
	Prefix     []byte
	Ciphertext []byte
	Hash       []byte
}

func ParseSEIP(body []byte) (SEIP, error) {
	if len(body) < SEIPMinLen {
		return SEIP{}, fmt.Errorf("%w: SEIP body is %d bytes, need at least %d", ErrMalformed, len(body), SEIPMinLen)
	}
	prefixEnd := 1 + SEIPPrefixLen
	hashStart := len(body) - SEIPHashLen
	return SEIP{
		Version:    body[0],
		Prefix:     body[1:prefixEnd:prefixEnd],
		Ciphertext: body[prefixEnd:hashStart:hashStart],
		Hash:       body[hashStart:],
	}, nil
}
