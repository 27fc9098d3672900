// Package stream implements an incremental byte-stream parser for the
// PX4 ULog flight-log format. Callers feed arbitrarily-sized chunks to
// Parser.ConsumeBytes as they become available (from a file, a socket, a
// serial port — any source outside this package's concern) and receive
// decoded messages through sink callbacks.
package stream

import (
	"bytes"
	"encoding/binary"

	"github.com/flightdeck/go-ulog/ulog"
)

const (
	headerSize     = 16
	maxMessageSize = 3 + 65535
)

var magic = [7]byte{0x55, 0x4C, 0x6F, 0x67, 0x01, 0x12, 0x35}

type parserState int

const (
	stateAwaitingHeader parserState = iota
	stateAfterHeader
	stateDefinitions
	stateData
)

type subscription struct {
	messageName string
	multiID     ulog.MultiID
}

// DataMessage is a decoded Data record, delivered to a DataSink.
// Payload includes the leading two-byte subscription id; Format's field
// offsets are relative to the start of Payload, so they can be applied
// directly.
type DataMessage struct {
	MessageName string
	MultiID     ulog.MultiID
	MessageID   uint16
	Format      *ulog.FlattenedFormat
	Payload     []byte
}

// DataSink receives decoded Data records. The Payload slice is only valid
// for the duration of the call; sinks that need to retain it must copy it.
type DataSink func(DataMessage)

// LoggingMessage is a decoded Logging ('L') record.
type LoggingMessage struct {
	Level     byte
	Timestamp uint64
	Message   string
}

// LoggingSink receives decoded Logging records.
type LoggingSink func(LoggingMessage)

// FlagBits is the decoded payload of a FlagBits ('B') record.
type FlagBits struct {
	CompatFlags     [8]byte
	IncompatFlags   [8]byte
	AppendedOffsets [3]uint64
}

// FlagBitsSink receives the FlagBits record, if one is present.
type FlagBitsSink func(FlagBits)

// Parser is an incremental ULog stream parser. The zero value is not
// usable; construct one with NewParser or NewParserWithConfig.
type Parser struct {
	cfg   Config
	state parserState
	carry []byte

	version        uint8
	startTimestamp uint64

	rawFormats    map[string]ulog.RawFormat
	flattened     map[string]*ulog.FlattenedFormat
	subscriptions map[uint16]subscription

	dataSink    DataSink
	loggingSink LoggingSink
	flagBits    FlagBitsSink
}

// NewParser builds a Parser with default configuration.
func NewParser() *Parser {
	return NewParserWithConfig(Config{})
}

// NewParserWithConfig builds a Parser with the given configuration.
func NewParserWithConfig(cfg Config) *Parser {
	return &Parser{
		cfg:           cfg.withDefaults(),
		state:         stateAwaitingHeader,
		rawFormats:    make(map[string]ulog.RawFormat),
		subscriptions: make(map[uint16]subscription),
	}
}

// Version returns the file format version read from the header, valid
// only once at least the header has been consumed.
func (p *Parser) Version() uint8 { return p.version }

// StartTimestamp returns the logging start timestamp read from the
// header, valid only once at least the header has been consumed.
func (p *Parser) StartTimestamp() uint64 { return p.startTimestamp }

// SetDataSink installs the callback invoked for each Data record.
func (p *Parser) SetDataSink(sink DataSink) { p.dataSink = sink }

// SetLoggingSink installs the callback invoked for each Logging record.
func (p *Parser) SetLoggingSink(sink LoggingSink) { p.loggingSink = sink }

// SetFlagBitsSink installs the callback invoked for a FlagBits record.
func (p *Parser) SetFlagBitsSink(sink FlagBitsSink) { p.flagBits = sink }

// ConsumeBytes feeds the next chunk of the stream to the parser. It may
// invoke any installed sink any number of times before returning. Bytes
// that do not yet form a complete record, and a complete record that ends
// exactly at the end of the buffered bytes, are retained internally and
// combined with the next call's chunk (or delivered by Finalize).
func (p *Parser) ConsumeBytes(chunk []byte) error {
	combined := make([]byte, len(p.carry)+len(chunk))
	copy(combined, p.carry)
	copy(combined[len(p.carry):], chunk)

	buf := combined
	for {
		consumed, err := p.parseSingleEntry(buf)
		if err != nil {
			return err
		}
		if consumed == 0 {
			break
		}
		buf = buf[consumed:]
	}

	if len(buf) > maxMessageSize {
		return otherErr("stream: carry buffer exceeds maximum message size (%d bytes)", len(buf))
	}
	p.carry = append(p.carry[:0], buf...)
	return nil
}

// Finalize must be called once the byte stream is known to have ended.
// Because record delivery requires strictly more buffered bytes than one
// full record (see parseSingleEntry), the very last record of a file
// would otherwise never be delivered; Finalize forces it through if the
// remaining carry buffer holds exactly one complete record.
func (p *Parser) Finalize() error {
	buf := p.carry
	if len(buf) == 0 {
		return nil
	}
	if p.state == stateAwaitingHeader {
		return invalidFileErr("stream: truncated file header (%d of %d bytes)", len(buf), headerSize)
	}
	if len(buf) < 3 {
		return otherErr("stream: truncated record header (%d bytes)", len(buf))
	}
	size := binary.LittleEndian.Uint16(buf[0:2])
	total := int(size) + 3
	if len(buf) != total {
		return otherErr("stream: truncated record: have %d bytes, want %d", len(buf), total)
	}
	if err := p.dispatch(buf[2], buf[3:total]); err != nil {
		return err
	}
	p.carry = p.carry[:0]
	return nil
}

// parseSingleEntry attempts to consume exactly one header or record from
// the front of buf. It returns the number of bytes consumed, or 0 if buf
// does not yet hold enough data to make progress.
func (p *Parser) parseSingleEntry(buf []byte) (int, error) {
	if p.state == stateAwaitingHeader {
		if len(buf) < headerSize {
			return 0, nil
		}
		if !bytes.Equal(buf[:7], magic[:]) {
			return 0, invalidFileErr("stream: bad file magic")
		}
		p.version = buf[7]
		p.startTimestamp = binary.LittleEndian.Uint64(buf[8:16])
		p.state = stateAfterHeader
		return headerSize, nil
	}

	if len(buf) < 3 {
		return 0, nil
	}
	size := binary.LittleEndian.Uint16(buf[0:2])
	total := int(size) + 3
	// Delivery requires strictly more than one full record's worth of
	// buffered bytes, not merely that many: a record sitting exactly at
	// the end of the currently buffered data is held back until more
	// bytes (or Finalize) confirm the stream didn't mean to extend it.
	if len(buf) <= total {
		return 0, nil
	}
	if err := p.dispatch(buf[2], buf[3:total]); err != nil {
		return 0, err
	}
	return total, nil
}
