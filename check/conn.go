package check

import (
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// packetConn hides the address family differences of the underlying socket
type packetConn interface {
	Close() error
	ICMPRequestType() icmp.Type
	ReadFrom(b []byte) (n int, src net.Addr, err error)
	SetReadDeadline(t time.Time) error
	WriteTo(b []byte, dst net.Addr) (int, error)
	Protocol() int
}

type icmpv4Conn struct {
	c *icmp.PacketConn
}

func (c *icmpv4Conn) Close() error {
	return c.c.Close()
}

func (c *icmpv4Conn) SetReadDeadline(t time.Time) error {
	return c.c.SetReadDeadline(t)
}

func (c *icmpv4Conn) ReadFrom(b []byte) (int, net.Addr, error) {
	return c.c.ReadFrom(b)
}

func (c *icmpv4Conn) WriteTo(b []byte, dst net.Addr) (int, error) {
	return c.c.WriteTo(b, dst)
}

func (c *icmpv4Conn) ICMPRequestType() icmp.Type {
	return ipv4.ICMPTypeEcho
}

func (c *icmpv4Conn) Protocol() int {
	return protocolICMP
}

type icmpV6Conn struct {
	c *icmp.PacketConn
}

func (c *icmpV6Conn) Close() error {
	return c.c.Close()
}

func (c *icmpV6Conn) SetReadDeadline(t time.Time) error {
	return c.c.SetReadDeadline(t)
}

func (c *icmpV6Conn) ReadFrom(b []byte) (int, net.Addr, error) {
	return c.c.ReadFrom(b)
}

func (c *icmpV6Conn) WriteTo(b []byte, dst net.Addr) (int, error) {
	return c.c.WriteTo(b, dst)
}

func (c *icmpV6Conn) ICMPRequestType() icmp.Type {
	return ipv6.ICMPTypeEchoRequest
}

func (c *icmpV6Conn) Protocol() int {
	return protocolIPv6ICMP
}
