package sink

import (
	"fmt"

	"github.com/danmuck/pgpextract/internal/observability"
	"github.com/danmuck/pgpextract/internal/protocol/packet"
	"github.com/danmuck/pgpextract/internal/store"
)

// StoreSink records artifacts in a store, tagged with the source name and
// the offset of the packet they came from.
type StoreSink struct {
	Store  *store.Store
	Source string

	offset int
}

func (s *StoreSink) ObservePacket(p packet.Packet) {
	s.offset = p.Offset
}

func (s *StoreSink) WritePKESK(material []byte) error {
	return s.put(store.KindPKESK, material)
}

func (s *StoreSink) WriteSEIP(body []byte) error {
	return s.put(store.KindSEIP, body)
}

func (s *StoreSink) Info(string) {}

func (s *StoreSink) put(kind store.Kind, data []byte) error {
	rec := store.Record{
		Kind:   kind,
		Source: s.Source,
		Offset: s.offset,
		Data:   append([]byte(nil), data...),
	}
	if err := s.Store.Put(rec); err != nil {
		observability.RecordArtifact("store", string(kind), false)
		return fmt.Errorf("store %s artifact: %w", kind, err)
	}
	observability.RecordArtifact("store", string(kind), true)
	return nil
}
