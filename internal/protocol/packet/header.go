package packet

import "encoding/binary"

// Format selects one of the two RFC 4880 header encodings.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatOld
	FormatNew
)

func (f Format) String() string {
	switch f {
	case FormatOld:
		return "old"
	case FormatNew:
		return "new"
	default:
		return "unknown"
	}
}

const (
	tagBit       = 0x80
	newFormatBit = 0x40

	oneOctetMax  = 191
	twoOctetMax  = 8383
	twoOctetBase = 192
	fiveOctet    = 255
	partialFirst = 224
)

// Header is one decoded packet header.
type Header struct {
	Format    Format
	Tag       Tag
	BodyLen   uint32
	HeaderLen int
}

// DecodeHeader decodes the packet header starting at buf[offset]. On error
// the returned Header still carries Format and Tag when the first byte was a
// valid tag byte.
func DecodeHeader(buf []byte, offset int) (Header, error) {
	if offset < 0 || offset >= len(buf) {
		return Header{}, ErrTruncated
	}
	b := buf[offset]
	if b&tagBit == 0 {
		return Header{}, ErrMalformed
	}
	rest := buf[offset+1:]
	if b&newFormatBit != 0 {
		return decodeNew(Tag(b&0x3F), rest)
	}
	return decodeOld(Tag((b>>2)&0x0F), b&0x03, rest)
}

func decodeNew(tag Tag, rest []byte) (Header, error) {
	h := Header{Format: FormatNew, Tag: tag}
	if len(rest) < 1 {
		return h, ErrTruncated
	}
	l := rest[0]
	switch {
	case l < twoOctetBase:
		h.BodyLen = uint32(l)
		h.HeaderLen = 2
	case l < partialFirst:
		if len(rest) < 2 {
			return h, ErrTruncated
		}
		h.BodyLen = (uint32(l)-twoOctetBase)<<8 + uint32(rest[1]) + twoOctetBase
		h.HeaderLen = 3
	case l == fiveOctet:
		if len(rest) < 5 {
			return h, ErrTruncated
		}
		h.BodyLen = binary.BigEndian.Uint32(rest[1:5])
		h.HeaderLen = 6
	default:
		return h, ErrPartialLength
	}
	return h, nil
}

func decodeOld(tag Tag, lengthType byte, rest []byte) (Header, error) {
	h := Header{Format: FormatOld, Tag: tag}
	switch lengthType {
	case 0:
		if len(rest) < 1 {
			return h, ErrTruncated
		}
		h.BodyLen = uint32(rest[0])
		h.HeaderLen = 2
	case 1:
		if len(rest) < 2 {
			return h, ErrTruncated
		}
		h.BodyLen = uint32(binary.BigEndian.Uint16(rest[0:2]))
		h.HeaderLen = 3
	case 2:
		if len(rest) < 4 {
			return h, ErrTruncated
		}
		h.BodyLen = binary.BigEndian.Uint32(rest[0:4])
		h.HeaderLen = 5
	default:
		return h, ErrReservedLength
	}
	return h, nil
}

// AppendHeader appends the shortest header of the given format for a body
// of bodyLen bytes.
func AppendHeader(dst []byte, format Format, tag Tag, bodyLen uint32) ([]byte, error) {
	switch format {
	case FormatNew:
		if tag > 0x3F {
			return dst, ErrTagRange
		}
		dst = append(dst, tagBit|newFormatBit|byte(tag))
		switch {
		case bodyLen <= oneOctetMax:
			return append(dst, byte(bodyLen)), nil
		case bodyLen <= twoOctetMax:
			n := bodyLen - twoOctetBase
			return append(dst, byte(n>>8)+twoOctetBase, byte(n)), nil
		default:
			dst = append(dst, fiveOctet)
			return binary.BigEndian.AppendUint32(dst, bodyLen), nil
		}
	case FormatOld:
		if tag > 0x0F {
			return dst, ErrTagRange
		}
		first := tagBit | byte(tag)<<2
		switch {
		case bodyLen <= 0xFF:
			return append(dst, first, byte(bodyLen)), nil
		case bodyLen <= 0xFFFF:
			return binary.BigEndian.AppendUint16(append(dst, first|1), uint16(bodyLen)), nil
		default:
			return binary.BigEndian.AppendUint32(append(dst, first|2), bodyLen), nil
		}
	default:
		return dst, ErrMalformed
	}
}
