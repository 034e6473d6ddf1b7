package sink

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/pgpextract/internal/protocol/packet"
)

const DefaultCipher = "aes-256-cfb"

// Report prints what was extracted and the openssl invocation that would
// decrypt the SEIP body once the session key is known.
type Report struct {
	Out      io.Writer
	Cipher   string
	SEIPFile string

	pkesk *packet.PKESK
}

// ObservePacket keeps the PKESK field view so WritePKESK can print the
// version and key ID the material belongs to.
func (r *Report) ObservePacket(p packet.Packet) {
	r.pkesk = nil
	if p.Tag != packet.TagPKESK {
		return
	}
	if k, err := packet.ParsePKESK(p.Body); err == nil {
		r.pkesk = &k
	}
}

func (r *Report) Info(msg string) {
	fmt.Fprintln(r.Out, msg)
}

func (r *Report) WritePKESK(material []byte) error {
	if r.pkesk != nil {
		if _, err := fmt.Fprintf(r.Out, "  Version: %d\n  Key ID:  %016X\n", r.pkesk.Version, r.pkesk.KeyIDUint64()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.Out, "  Session key material: %d bytes\n", len(material))
	return err
}

func (r *Report) WriteSEIP(body []byte) error {
	seip, err := packet.ParseSEIP(body)
	if err != nil {
		return err
	}
	cipher := r.Cipher
	if cipher == "" {
		cipher = DefaultCipher
	}
	seipFile := r.SEIPFile
	if seipFile == "" {
		seipFile = DefaultSEIPFile
	}

	var b strings.Builder
	fmt.Fprintln(&b, "Content structure:")
	fmt.Fprintf(&b, "  Version (1 byte):  %02x\n", seip.Version)
	fmt.Fprintf(&b, "  Prefix (16 bytes): %s\n", HexDump(seip.Prefix))
	fmt.Fprintf(&b, "  Data until hash:   %s\n", HexDump(seip.Ciphertext))
	fmt.Fprintf(&b, "  Hash (20 bytes):   %s\n", HexDump(seip.Hash))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "OpenSSL command:")
	fmt.Fprintln(&b, DecryptCommand(cipher, seip.Prefix, seipFile))
	_, err = io.WriteString(r.Out, b.String())
	return err
}

// HexDump renders b as contiguous upper-case hex.
func HexDump(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// DecryptCommand builds the suggested openssl invocation. The key is left
// as $KEY; recovering it is outside this tool.
func DecryptCommand(cipher string, iv []byte, in string) string {
	return fmt.Sprintf("openssl enc -%s -d -K $KEY -iv %s -in %s -out decrypted.bin", cipher, HexDump(iv), in)
}
