package sink

import (
	"github.com/danmuck/pgpextract/internal/observability"
	"github.com/danmuck/pgpextract/internal/protocol/packet"
)

// Metrics counts every walked packet. It never writes artifacts.
type Metrics struct{}

func (Metrics) ObservePacket(p packet.Packet) { observability.RecordPacket(p) }
func (Metrics) WritePKESK([]byte) error       { return nil }
func (Metrics) WriteSEIP([]byte) error        { return nil }
func (Metrics) Info(string)                   {}
