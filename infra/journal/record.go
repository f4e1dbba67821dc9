package journal

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"
)

type RecordType uint8

const (
	// RecordAdd carries one dictionary word as its payload.
	RecordAdd RecordType = iota + 1
)

func (t RecordType) String() string {
	switch t {
	case RecordAdd:
		return "ADD"
	default:
		return fmt.Sprintf("RecordType(%d)", uint8(t))
	}
}

type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Data []byte
}

func NewRecord(t RecordType, seq uint64, data []byte) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}

// Frame layout, big endian:
// [type:1][seq:8][time:8][len:4][payload][crc:4]
// The crc is CRC32-IEEE over header and payload.
const (
	headerSize = 1 + 8 + 8 + 4
	crcSize    = 4

	// MaxPayload bounds a single record. A larger length in a header can only
	// come from a damaged segment.
	MaxPayload = 1 << 20
)

var (
	ErrCorrupt    = errors.New("journal: corrupt record")
	ErrTooLarge   = errors.New("journal: record payload too large")
	ErrOutOfOrder = errors.New("journal: sequence not increasing")
	ErrClosed     = errors.New("journal: closed")
)

func encodeFrame(buf *bytes.Buffer, r *Record) error {
	if len(r.Data) > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(r.Data))
	}
	var hdr [headerSize]byte
	hdr[0] = byte(r.Type)
	binary.BigEndian.PutUint64(hdr[1:9], r.Seq)
	binary.BigEndian.PutUint64(hdr[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(hdr[17:21], uint32(len(r.Data)))
	buf.Write(hdr[:])
	buf.Write(r.Data)

	var sum [crcSize]byte
	binary.BigEndian.PutUint32(sum[:], crc32.ChecksumIEEE(buf.Bytes()))
	buf.Write(sum[:])
	return nil
}

// readFrame decodes the next frame. It returns io.EOF on a clean end and
// io.ErrUnexpectedEOF when the segment stops inside a frame.
func readFrame(r *bufio.Reader) (*Record, int64, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, 0, err
	}
	l := binary.BigEndian.Uint32(hdr[17:21])
	if l > MaxPayload {
		return nil, 0, fmt.Errorf("%w: payload length %d", ErrCorrupt, l)
	}

	body := make([]byte, l+crcSize)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, err
	}
	payload := body[:l]
	want := binary.BigEndian.Uint32(body[l:])

	h := crc32.NewIEEE()
	h.Write(hdr[:])
	h.Write(payload)
	if h.Sum32() != want {
		return nil, 0, fmt.Errorf("%w: crc mismatch at seq %d",
			ErrCorrupt, binary.BigEndian.Uint64(hdr[1:9]))
	}

	rec := &Record{
		Type: RecordType(hdr[0]),
		Seq:  binary.BigEndian.Uint64(hdr[1:9]),
		Time: int64(binary.BigEndian.Uint64(hdr[9:17])),
		Data: payload,
	}
	return rec, int64(headerSize + len(body)), nil
}
