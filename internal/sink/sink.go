// Package sink holds the packet.Sink implementations the CLI wires
// together: artifact files, the badger store, the console report and
// metrics.
package sink

import "github.com/danmuck/pgpextract/internal/protocol/packet"

const (
	KindPKESK = "pkesk"
	KindSEIP  = "seip"
)

// Tee fans every call out to each sink in order and stops at the first
// write error.
type Tee []packet.Sink

func (t Tee) WritePKESK(material []byte) error {
	for _, s := range t {
		if err := s.WritePKESK(material); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) WriteSEIP(body []byte) error {
	for _, s := range t {
		if err := s.WriteSEIP(body); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Info(msg string) {
	for _, s := range t {
		s.Info(msg)
	}
}

func (t Tee) ObservePacket(p packet.Packet) {
	for _, s := range t {
		if o, ok := s.(packet.PacketObserver); ok {
			o.ObservePacket(p)
		}
	}
}
