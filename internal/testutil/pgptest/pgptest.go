// Package pgptest builds real OpenPGP messages for tests.
package pgptest

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	pgppacket "github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/danmuck/pgpextract/internal/protocol/packet"
)

const writeChunk = 1024

// NewEntity generates a throwaway RSA key with an encryption subkey.
func NewEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("pgpextract test", "", "test@example.org", &pgppacket.Config{RSABits: 2048})
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return entity
}

// Encrypt returns a binary message for entity. Plaintext is written in
// small chunks so that go-crypto frames a large message with partial body
// lengths.
func Encrypt(t *testing.T, entity *openpgp.Entity, plaintext []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := openpgp.Encrypt(&buf, []*openpgp.Entity{entity}, nil, nil, nil)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	for len(plaintext) > 0 {
		n := min(len(plaintext), writeChunk)
		if _, err := w.Write(plaintext[:n]); err != nil {
			t.Fatalf("encrypt write: %v", err)
		}
		plaintext = plaintext[n:]
	}
	if err := w.Close(); err != nil {
		t.Fatalf("encrypt close: %v", err)
	}
	return buf.Bytes()
}

// Reframe rewrites every new-format packet that uses partial body lengths
// into a single fixed-length packet, leaving the bodies untouched.
func Reframe(t *testing.T, msg []byte) []byte {
	t.Helper()
	var out []byte
	for i := 0; i < len(msg); {
		first := msg[i]
		if first&0xC0 != 0xC0 {
			t.Fatalf("reframe: offset %d is not a new-format header", i)
		}
		tag := packet.Tag(first & 0x3F)
		i++
		var body []byte
		for {
			if i >= len(msg) {
				t.Fatalf("reframe: truncated length at %d", i)
			}
			l := msg[i]
			var n, hdr int
			partial := false
			switch {
			case l < 192:
				n, hdr = int(l), 1
			case l < 224:
				n, hdr = (int(l)-192)<<8+int(msg[i+1])+192, 2
			case l == 255:
				n, hdr = int(binary.BigEndian.Uint32(msg[i+1:i+5])), 5
			default:
				n, hdr, partial = 1<<(l&0x1F), 1, true
			}
			i += hdr
			body = append(body, msg[i:i+n]...)
			i += n
			if !partial {
				break
			}
		}
		hdr, err := packet.AppendHeader(out, packet.FormatNew, tag, uint32(len(body)))
		if err != nil {
			t.Fatalf("reframe: %v", err)
		}
		out = append(hdr, body...)
	}
	return out
}

// Decrypt decrypts msg with entity and returns the literal data.
func Decrypt(t *testing.T, entity *openpgp.Entity, msg []byte) []byte {
	t.Helper()
	md, err := openpgp.ReadMessage(bytes.NewReader(msg), openpgp.EntityList{entity}, nil, nil)
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(md.UnverifiedBody); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return buf.Bytes()
}

// Random returns n random bytes.
func Random(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("random: %v", err)
	}
	return b
}
