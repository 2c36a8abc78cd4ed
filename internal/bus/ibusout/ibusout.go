// Package ibusout mirrors RC override frames onto a UDP iBus link, for
// receivers that consume the raw servo frame directly instead of the bus.
package ibusout

import (
	"fmt"
	"log"
	"net"

	"github.com/mavteleop/mavteleop-go/internal/msg"
	"github.com/mavteleop/mavteleop-go/pkg/ibus"
)

// Sink writes iBus frames to a UDP target. One datagram per override frame,
// fire-and-forget.
type Sink struct {
	conn *net.UDPConn
}

// Dial resolves the target address and opens the socket.
func Dial(target string) (*Sink, error) {
	addr, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return nil, fmt.Errorf("ibus target %s: %w", target, err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("ibus target %s: %w", target, err)
	}
	log.Printf("iBus mirror enabled, sending to %s", target)
	return &Sink{conn: conn}, nil
}

// WriteFrame implements teleop.FrameSink.
func (s *Sink) WriteFrame(frame *msg.OverrideFrame) error {
	_, err := s.conn.Write(ibus.BuildFrame(frame.Channels[:]))
	return err
}

// Close closes the socket.
func (s *Sink) Close() error {
	return s.conn.Close()
}
