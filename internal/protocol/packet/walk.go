package packet

import (
	"errors"
	"fmt"
)

// Packet is one framed packet. Body aliases the walked buffer.
type Packet struct {
	Header
	Offset int
	Body   []byte
}

// Next is the offset of the packet that follows p.
func (p Packet) Next() int {
	return p.Offset + p.HeaderLen + len(p.Body)
}

func (p Packet) fail(err error) error {
	return &DecodeError{Offset: p.Offset, Format: p.Format, Tag: p.Tag, Err: err}
}

// Walk calls fn for every packet in buf, in order. It stops at the first
// header that cannot be decoded, at a body that runs past the end of buf,
// or at the first error returned by fn. Reaching exactly len(buf) is the
// only clean end.
func Walk(buf []byte, fn func(Packet) error) error {
	for offset := 0; offset < len(buf); {
		h, err := DecodeHeader(buf, offset)
		if err != nil {
			return &DecodeError{Offset: offset, Format: h.Format, Tag: h.Tag, Err: err}
		}
		start := offset + h.HeaderLen
		if uint64(h.BodyLen) > uint64(len(buf)-start) {
			return &DecodeError{
				Offset: offset,
				Format: h.Format,
				Tag:    h.Tag,
				Err:    fmt.Errorf("%w: body needs %d bytes, %d remain", ErrTruncated, h.BodyLen, len(buf)-start),
			}
		}
		end := start + int(h.BodyLen)
		if err := fn(Packet{Header: h, Offset: offset, Body: buf[start:end:end]}); err != nil {
			return err
		}
		offset = end
	}
	return nil
}

// Sink receives extracted artifacts. Writes happen only after the packet
// body has been validated, in walk order.
type Sink interface {
	WritePKESK(material []byte) error
	WriteSEIP(body []byte) error
	Info(msg string)
}

// PacketObserver is implemented by sinks that want to see every packet,
// including the ones that are not extracted.
type PacketObserver interface {
	ObservePacket(p Packet)
}

// Extract walks buf and hands PKESK material and SEIP bodies to sink. Every
// match is delivered, so a sink that keeps one artifact per kind ends up
// with the last one in the buffer.
func Extract(buf []byte, sink Sink) error {
	observer, _ := sink.(PacketObserver)
	return Walk(buf, func(p Packet) error {
		if observer != nil {
			observer.ObservePacket(p)
		}
		switch p.Tag {
		case TagPKESK:
			k, err := ParsePKESK(p.Body)
			if err != nil {
				return p.fail(err)
			}
			sink.Info(fmt.Sprintf("found PKESK packet, length: %d", p.BodyLen))
			if err := sink.WritePKESK(k.Material); err != nil {
				return fmt.Errorf("write PKESK at offset %d: %w", p.Offset, err)
			}
		case TagSEIP:
			if _, err := ParseSEIP(p.Body); err != nil {
				return p.fail(err)
			}
			sink.Info(fmt.Sprintf("found SEIP packet, length: %d", p.BodyLen))
			if err := sink.WriteSEIP(p.Body); err != nil {
				return fmt.Errorf("write SEIP at offset %d: %w", p.Offset, err)
			}
		}
		return nil
	})
}

// List returns every packet in buf. On error it also returns the packets
// decoded before the failure.
func List(buf []byte) ([]Packet, error) {
	var out []Packet
	err := Walk(buf, func(p Packet) error {
		out = append(out, p)
		return nil
	})
	return out, err
}

// Offset extracts the failing offset from a walk error.
func Offset(err error) (int, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset, true
	}
	return 0, false
}
