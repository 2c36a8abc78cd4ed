// Package ibus builds FlySky iBus servo frames.
package ibus

import (
	"encoding/binary"
)

const (
	// Header1 is the first iBus frame header byte (frame length).
	Header1 byte = 0x20
	// Header2 is the second iBus frame header byte (command: servo data).
	Header2 byte = 0x40
	// ChannelCount is the number of channels carried per frame.
	ChannelCount = 14
	// FrameSize is the full frame length: header (2) + channels (14*2) + checksum (2).
	FrameSize = 32
	// NeutralPWM pads channels the caller does not drive.
	NeutralPWM uint16 = 1500
)

// BuildFrame encodes channel pulse widths into a 32-byte iBus frame.
// Missing trailing channels are padded with NeutralPWM; extra channels are
// ignored. The checksum is 0xFFFF minus the sum of all preceding bytes.
func BuildFrame(channels []uint16) []byte {
	frame := make([]byte, FrameSize)
	frame[0] = Header1
	frame[1] = Header2

	for i := 0; i < ChannelCount; i++ {
		v := NeutralPWM
		if i < len(channels) {
			v = channels[i]
		}
		binary.LittleEndian.PutUint16(frame[2+2*i:], v)
	}

	checksum := uint16(0xFFFF)
	for _, b := range frame[:FrameSize-2] {
		checksum -= uint16(b)
	}
	binary.LittleEndian.PutUint16(frame[FrameSize-2:], checksum)

	return frame
}

// Valid reports whether a 32-byte frame carries the expected headers and a
// correct checksum.
func Valid(frame []byte) bool {
	if len(frame) != FrameSize || frame[0] != Header1 || frame[1] != Header2 {
		return false
	}
	checksum := uint16(0xFFFF)
	for _, b := range frame[:FrameSize-2] {
		checksum -= uint16(b)
	}
	return binary.LittleEndian.Uint16(frame[FrameSize-2:]) == checksum
}

// Channels decodes the channel values from a frame. The frame is assumed
// valid.
func Channels(frame []byte) []uint16 {
	channels := make([]uint16, ChannelCount)
	for i := range channels {
		channels[i] = binary.LittleEndian.Uint16(frame[2+2*i:])
	}
	return channels
}
