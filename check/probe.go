package check

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	timeSliceLength  = 8
	trackerLength    = len(uuid.UUID{})
	protocolICMP     = 1
	protocolIPv6ICMP = 58
)

// SocketType selects the transport used to exchange echo packets. Raw
// sockets are the default and need CAP_NET_RAW, datagram sockets work
// unprivileged where the kernel allows ping sockets.
type SocketType int

const (
	SocketRaw SocketType = iota
	SocketDatagram
)

func (s SocketType) String() string {
	switch s {
	case SocketDatagram:
		return "Datagram"
	default:
		return "Raw"
	}
}

var (
	ipv4Proto = map[SocketType]string{SocketRaw: "ip4:icmp", SocketDatagram: "udp4"}
	ipv6Proto = map[SocketType]string{SocketRaw: "ip6:ipv6-icmp", SocketDatagram: "udp6"}
)

var (
	// ErrSocketPermission means the socket could not be created due to
	// missing privileges rather than any network condition
	ErrSocketPermission = errors.New("insufficient permission to open ICMP socket, grant CAP_NET_RAW or use a datagram socket")

	// ErrResolveFailed means the target hostname did not resolve to any address
	ErrResolveFailed = errors.New("hostname resolution failed")
)

// Prober issues a single echo request per call and blocks until the matching
// reply arrives or the timeout elapses
type Prober interface {
	Probe(seq int, timeout time.Duration) Outcome
}

// Pinger sends ICMP echo requests to a single resolved target over a raw or
// datagram socket. The socket is opened once at construction and held for
// the lifetime of the check, callers must Close it.
type Pinger struct {
	addr       string
	ipaddr     *net.IPAddr
	ipv4       bool
	socketType SocketType
	id         int
	tracker    uuid.UUID
	conn       packetConn
}

// NewPinger resolves addr once and opens the socket. A hostname that
// resolves to multiple addresses uses the first one only.
func NewPinger(addr string, socketType SocketType) (*Pinger, error) {
	ipaddr, err := net.ResolveIPAddr("ip", addr)
	if err != nil {
		return nil, fmt.Errorf("%w for %v: %v", ErrResolveFailed, addr, err)
	}
	logrus.Debug("Resolved ", addr, " to ", ipaddr)

	p := &Pinger{
		addr:       addr,
		ipaddr:     ipaddr,
		ipv4:       isIPv4(ipaddr.IP),
		socketType: socketType,
		id:         rand.New(rand.NewSource(getSeed())).Intn(math.MaxUint16),
		tracker:    uuid.New(),
	}
	if err := p.listen(); err != nil {
		return nil, err
	}
	return p, nil
}

// Addr returns the target as given by the caller
func (p *Pinger) Addr() string {
	return p.addr
}

// IPAddr returns the resolved target address
func (p *Pinger) IPAddr() *net.IPAddr {
	return p.ipaddr
}

func (p *Pinger) listen() error {
	var err error
	if p.ipv4 {
		var c icmpv4Conn
		c.c, err = icmp.ListenPacket(ipv4Proto[p.socketType], "")
		p.conn = &c
	} else {
		var c icmpV6Conn
		c.c, err = icmp.ListenPacket(ipv6Proto[p.socketType], "")
		p.conn = &c
	}
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrSocketPermission, err)
		}
		return fmt.Errorf("open %v socket: %w", p.socketType, err)
	}
	return nil
}

// Close releases the socket
func (p *Pinger) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// Probe sends one echo request and blocks until the matching reply arrives
// or timeout elapses. A timeout or an ICMP destination unreachable message
// is reported as a Failure outcome, never retried here.
func (p *Pinger) Probe(seq int, timeout time.Duration) Outcome {
	if err := p.sendEcho(seq); err != nil {
		logrus.Debug("Sending packet: ", err)
		return Failed(seq, ReasonOther)
	}
	sentAt := time.Now()
	deadline := sentAt.Add(timeout)

	buf := make([]byte, 512)
	for {
		if err := p.conn.SetReadDeadline(deadline); err != nil {
			logrus.Debug("Setting read deadline: ", err)
			return Failed(seq, ReasonOther)
		}
		n, _, err := p.conn.ReadFrom(buf)
		if err != nil {
			var neterr *net.OpError
			if errors.As(err, &neterr) && neterr.Timeout() {
				return Failed(seq, ReasonTimeout)
			}
			logrus.Debug("Received packet: ", err)
			return Failed(seq, ReasonOther)
		}

		outcome, matched := p.processReply(seq, sentAt, buf[:n])
		if matched {
			return outcome
		}
		// Unrelated traffic, keep reading until the deadline
		if !time.Now().Before(deadline) {
			return Failed(seq, ReasonTimeout)
		}
	}
}

func (p *Pinger) sendEcho(seq int) error {
	var dst net.Addr = p.ipaddr
	if p.socketType == SocketDatagram {
		dst = &net.UDPAddr{IP: p.ipaddr.IP, Zone: p.ipaddr.Zone}
	}

	trackerEncoded, err := p.tracker.MarshalBinary()
	if err != nil {
		return fmt.Errorf("unable to marshal tracker UUID: %w", err)
	}
	payload := append(timeToBytes(time.Now()), trackerEncoded...)

	msg := &icmp.Message{
		Type: p.conn.ICMPRequestType(),
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: payload,
		},
	}
	msgBytes, err := msg.Marshal(nil)
	if err != nil {
		return err
	}

	_, err = p.conn.WriteTo(msgBytes, dst)
	return err
}

// processReply inspects one received packet. The second return value is
// false when the packet was not a response to the probe in flight.
func (p *Pinger) processReply(seq int, sentAt time.Time, raw []byte) (Outcome, bool) {
	receivedAt := time.Now()

	m, err := icmp.ParseMessage(p.conn.Protocol(), raw)
	if err != nil {
		logrus.Debug("Parsing ICMP message: ", err)
		return Outcome{}, false
	}

	switch m.Type {
	case ipv4.ICMPTypeEchoReply, ipv6.ICMPTypeEchoReply:
	case ipv4.ICMPTypeDestinationUnreachable, ipv6.ICMPTypeDestinationUnreachable:
		// A raw socket sees unreachables for every flow on the host, only
		// claim the ones whose quoted invoking packet is our echo
		if !p.claimUnreachable(seq, m.Body) {
			return Outcome{}, false
		}
		logrus.Debug("Destination unreachable for probe ", seq)
		return Failed(seq, ReasonUnreachable), true
	default:
		return Outcome{}, false
	}

	pkt, ok := m.Body.(*icmp.Echo)
	if !ok {
		return Outcome{}, false
	}
	if !p.matchID(pkt.ID) || pkt.Seq != seq {
		return Outcome{}, false
	}
	if len(pkt.Data) < timeSliceLength+trackerLength {
		return Outcome{}, false
	}
	var tracker uuid.UUID
	if err := tracker.UnmarshalBinary(pkt.Data[timeSliceLength : timeSliceLength+trackerLength]); err != nil || tracker != p.tracker {
		return Outcome{}, false
	}

	rtt := receivedAt.Sub(bytesToTime(pkt.Data[:timeSliceLength]))
	if rtt < 0 {
		rtt = receivedAt.Sub(sentAt)
	}
	return Success(seq, rtt), true
}

// claimUnreachable reports whether an ICMP error message was triggered by
// the probe in flight. The quoted invoking packet must carry our echo ID
// and sequence number. Routers only have to quote the first bytes of the
// invoking packet, so the tracker UUID is verified only where it survived.
func (p *Pinger) claimUnreachable(seq int, body icmp.MessageBody) bool {
	var quoted []byte
	switch b := body.(type) {
	case *icmp.DstUnreach:
		quoted = b.Data
	case *icmp.PacketTooBig:
		quoted = b.Data
	default:
		return false
	}

	// Strip the embedded IP header to reach the invoking echo
	if p.ipv4 {
		if len(quoted) < ipv4.HeaderLen {
			return false
		}
		hlen := int(quoted[0]&0x0f) << 2
		if hlen < ipv4.HeaderLen || len(quoted) < hlen {
			return false
		}
		quoted = quoted[hlen:]
	} else {
		if len(quoted) < ipv6.HeaderLen {
			return false
		}
		quoted = quoted[ipv6.HeaderLen:]
	}

	invoking, err := icmp.ParseMessage(p.conn.Protocol(), quoted)
	if err != nil {
		return false
	}
	if invoking.Type != ipv4.ICMPTypeEcho && invoking.Type != ipv6.ICMPTypeEchoRequest {
		return false
	}
	echo, ok := invoking.Body.(*icmp.Echo)
	if !ok {
		return false
	}
	if !p.matchID(echo.ID) || echo.Seq != seq {
		return false
	}
	if len(echo.Data) >= timeSliceLength+trackerLength {
		var tracker uuid.UUID
		if err := tracker.UnmarshalBinary(echo.Data[timeSliceLength : timeSliceLength+trackerLength]); err != nil || tracker != p.tracker {
			return false
		}
	}
	return true
}

func (p *Pinger) matchID(id int) bool {
	// Datagram sockets rewrite the echo identifier in the kernel
	if p.socketType == SocketDatagram {
		return true
	}
	return id == p.id
}

func bytesToTime(b []byte) time.Time {
	var nsec int64
	for i := uint8(0); i < 8; i++ {
		nsec += int64(b[i]) << ((7 - i) * 8)
	}
	return time.Unix(nsec/1000000000, nsec%1000000000)
}

func timeToBytes(t time.Time) []byte {
	nsec := t.UnixNano()
	b := make([]byte, 8)
	for i := uint8(0); i < 8; i++ {
		b[i] = byte((nsec >> ((7 - i) * 8)) & 0xff)
	}
	return b
}

func isIPv4(ip net.IP) bool {
	return len(ip.To4()) == net.IPv4len
}

var seed int64 = time.Now().UnixNano()

// getSeed returns a goroutine-safe unique seed
func getSeed() int64 {
	return atomic.AddInt64(&seed, 1)
}
