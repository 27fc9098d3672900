// Package ulogtest provides byte-stream builders used by the stream test
// suite, mirroring the role of the teacher's test helper
// package for building raw CAN frame fixtures.
package ulogtest

import "encoding/binary"

// Magic is the fixed 7-byte ULog file magic.
var Magic = [7]byte{0x55, 0x4C, 0x6F, 0x67, 0x01, 0x12, 0x35}

// Header builds a 16-byte ULog file header.
func Header(version byte, startTimestamp uint64) []byte {
	b := make([]byte, 16)
	copy(b, Magic[:])
	b[7] = version
	binary.LittleEndian.PutUint64(b[8:16], startTimestamp)
	return b
}

// Record wraps payload in a <u16 size><u8 type><payload> record frame.
func Record(msgType byte, payload []byte) []byte {
	out := make([]byte, 3+len(payload))
	binary.LittleEndian.PutUint16(out[0:2], uint16(len(payload)))
	out[2] = msgType
	copy(out[3:], payload)
	return out
}

// Concat joins byte slices into one, for assembling whole fixture streams.
func Concat(parts ...[]byte) []byte {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
