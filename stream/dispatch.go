package stream

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/flightdeck/go-ulog/ulog"
)

const (
	recordFlagBits     byte = 'B'
	recordFormat       byte = 'F'
	recordAddLoggedMsg byte = 'A'
	recordLogging      byte = 'L'
	recordData         byte = 'D'
)

// dispatch routes one decoded record to its handler. Record types this
// package has no use for (information, multi-information, parameter,
// remove-logged-message, synchronization, dropout) are accepted and
// ignored rather than rejected, since they carry no framing information
// this parser needs.
func (p *Parser) dispatch(msgType byte, payload []byte) error {
	switch msgType {
	case recordFlagBits:
		return p.handleFlagBits(payload)
	case recordFormat:
		return p.handleFormat(payload)
	case recordAddLoggedMsg:
		return p.handleAddLoggedMessage(payload)
	case recordLogging:
		return p.handleLogging(payload)
	case recordData:
		return p.handleData(payload)
	default:
		return nil
	}
}

// handleFlagBits only accepts a FlagBits record as the very first record
// after the header. A second one, or one arriving after a Format record
// has already moved the parser into the definitions section, is an error.
func (p *Parser) handleFlagBits(payload []byte) error {
	if p.state != stateAfterHeader {
		return otherErr("stream: flag bits record must be the first record after the header")
	}
	var fb FlagBits
	if len(payload) >= 8 {
		copy(fb.CompatFlags[:], payload[:8])
	}
	if len(payload) >= 16 {
		copy(fb.IncompatFlags[:], payload[8:16])
	}
	for i := 0; i < 3; i++ {
		lo, hi := 16+i*8, 16+(i+1)*8
		if len(payload) < hi {
			break
		}
		fb.AppendedOffsets[i] = binary.LittleEndian.Uint64(payload[lo:hi])
	}
	p.state = stateDefinitions
	if p.flagBits != nil {
		p.flagBits(fb)
	}
	return nil
}

func (p *Parser) handleFormat(payload []byte) error {
	if p.state == stateData {
		return otherErr("stream: format record seen after the data section started")
	}
	if p.state == stateAfterHeader {
		p.state = stateDefinitions
	}
	text, err := ulog.DecodeUTF8(payload)
	if err != nil {
		return otherErr("stream: format payload is not valid utf-8: %v", err)
	}
	rf, err := parseFormatString(text)
	if err != nil {
		return err
	}
	if _, exists := p.rawFormats[rf.Name]; exists {
		return otherErr("stream: duplicate format definition for message %q", rf.Name)
	}
	p.rawFormats[rf.Name] = rf
	return nil
}

func (p *Parser) handleAddLoggedMessage(payload []byte) error {
	if len(payload) < 3 {
		return otherErr("stream: add_logged_message payload too short (%d bytes)", len(payload))
	}
	multiID := ulog.MultiID(payload[0])
	msgID := binary.LittleEndian.Uint16(payload[1:3])
	name, err := ulog.DecodeUTF8(payload[3:])
	if err != nil {
		return otherErr("stream: add_logged_message name is not valid utf-8: %v", err)
	}

	if p.state != stateData {
		if err := p.enterDataSection(); err != nil {
			return err
		}
	}
	if _, ok := p.flattened[name]; !ok {
		return otherErr("stream: subscribed to unknown message type %q", name)
	}
	if _, exists := p.subscriptions[msgID]; exists {
		return otherErr("stream: message id %d is already registered", msgID)
	}
	p.subscriptions[msgID] = subscription{messageName: name, multiID: multiID}
	return nil
}

func (p *Parser) handleLogging(payload []byte) error {
	if len(payload) < 9 {
		return otherErr("stream: logging payload too short (%d bytes)", len(payload))
	}
	if p.state != stateData {
		if err := p.enterDataSection(); err != nil {
			return err
		}
	}
	level := payload[0]
	ts := binary.LittleEndian.Uint64(payload[1:9])
	raw := payload[9:]
	if !utf8.Valid(raw) {
		p.cfg.LogFunc("stream: repairing invalid utf-8 in logging message (level=%d ts=%d)", level, ts)
	}
	msg := ulog.DecodeUTF8Lossy(raw)
	if p.loggingSink != nil {
		p.loggingSink(LoggingMessage{Level: level, Timestamp: ts, Message: msg})
	}
	return nil
}

// handleData requires the parser to already be in the data section: unlike
// AddLoggedMessage and Logging, a Data record never triggers the
// definitions-to-data transition itself.
func (p *Parser) handleData(payload []byte) error {
	if len(payload) < 2 {
		return otherErr("stream: data payload too short (%d bytes)", len(payload))
	}
	if p.state != stateData {
		return otherErr("stream: data record encountered before the data section was started")
	}
	msgID := binary.LittleEndian.Uint16(payload[0:2])
	sub, ok := p.subscriptions[msgID]
	if !ok {
		return otherErr("stream: data record for unknown subscription id %d", msgID)
	}
	format, ok := p.flattened[sub.messageName]
	if !ok {
		return otherErr("stream: data record for unflattened message %q", sub.messageName)
	}
	if p.dataSink != nil {
		p.dataSink(DataMessage{
			MessageName: sub.messageName,
			MultiID:     sub.multiID,
			MessageID:   msgID,
			Format:      format,
			Payload:     payload,
		})
	}
	return nil
}

// enterDataSection freezes the set of raw formats seen so far and
// flattens them, irreversibly leaving the definitions section. It is
// triggered by the first AddLoggedMessage or Logging record.
func (p *Parser) enterDataSection() error {
	flat, err := ulog.Flatten(p.rawFormats)
	if err != nil {
		return wrapOther(err)
	}
	p.flattened = flat
	p.state = stateData
	return nil
}
