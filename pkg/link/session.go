package link

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/miiarobot/miia.go/pkg/proto"
)

// State of a session.
type State int

// Session states.
const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateExchanging
	StateClosing
	StateDegraded
)

var stateNames = []string{"closed", "opening", "open", "exchanging", "closing", "degraded"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Device defaults documented for the MiiA.bit.
const (
	DefaultBaud    = 57600
	DefaultTimeout = 100 * time.Millisecond
)

// Session owns one serial connection to the robot. Every exchange is a
// blocking write followed by a bounded read of the exact reply length.
// A Session is not safe for concurrent use: callers must serialize
// access, holding their lock for the full duration of each Exchange.
type Session struct {
	Device  string
	Baud    int
	Timeout time.Duration // default bound, also used for the open handshake
	Dial    Dialer        // defaults to DialSerial

	state State
	port  Port
}

// NewSession creates a closed session for the named serial device.
func NewSession(device string) *Session {
	return &Session{
		Device:  device,
		Baud:    DefaultBaud,
		Timeout: DefaultTimeout,
	}
}

// State reports the current session state.
func (s *Session) State() State { return s.state }

// Open dials the device and verifies the firmware answers a ping within
// the session timeout. Failure of either step is a *ConnectError and
// leaves the session closed.
func (s *Session) Open() error {
	if s.state != StateClosed {
		return &ConnectError{Device: s.Device, Cause: fmt.Errorf("session %s", s.state)}
	}
	s.state = StateOpening
	dial := s.Dial
	if dial == nil {
		dial = DialSerial
	}
	baud := s.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := dial(s.Device, baud)
	if err != nil {
		s.state = StateClosed
		return &ConnectError{Device: s.Device, Cause: err}
	}
	s.port = port
	s.state = StateOpen
	if err := s.ping(); err != nil {
		port.Close()
		s.port = nil
		s.state = StateClosed
		return &ConnectError{Device: s.Device, Cause: err}
	}
	glog.V(1).Infof("session open: %s @%d", s.Device, baud)
	return nil
}

func (s *Session) ping() error {
	frame, err := proto.PingFrame().Encode()
	if err != nil {
		return err
	}
	raw, err := s.Exchange(frame, proto.ReplyLen(proto.OpPing), 0)
	if err != nil {
		return err
	}
	_, err = proto.Decode(proto.OpPing, raw)
	return err
}

// Exchange writes frame and reads exactly replyLen bytes, blocking until
// all bytes arrive or timeout elapses. A timeout bound of zero uses the
// session default; an unbounded read is never performed. Any I/O failure
// or timeout leaves the session Degraded; only Close then Open recovers.
func (s *Session) Exchange(frame []byte, replyLen int, timeout time.Duration) ([]byte, error) {
	switch s.state {
	case StateOpen:
	case StateDegraded:
		return nil, ErrDegraded
	default:
		return nil, ErrNotOpen
	}
	if timeout <= 0 {
		timeout = s.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s.state = StateExchanging
	defer func() {
		if s.state == StateExchanging {
			s.state = StateOpen
		}
	}()

	if _, err := s.port.Write(frame); err != nil {
		s.state = StateDegraded
		return nil, fmt.Errorf("write: %w", err)
	}

	buf := make([]byte, replyLen)
	deadline := time.Now().Add(timeout)
	got := 0
	for got < replyLen {
		remain := time.Until(deadline)
		if remain <= 0 {
			s.state = StateDegraded
			return nil, &TimeoutError{Want: replyLen, Got: got}
		}
		if err := s.port.SetReadTimeout(remain); err != nil {
			s.state = StateDegraded
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
		n, err := s.port.Read(buf[got:])
		if err != nil {
			s.state = StateDegraded
			if os.IsTimeout(err) {
				return nil, &TimeoutError{Want: replyLen, Got: got}
			}
			return nil, fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			// zero-byte read reports the port-level timeout expired
			s.state = StateDegraded
			return nil, &TimeoutError{Want: replyLen, Got: got}
		}
		got += n
	}
	return buf, nil
}

// Close releases the connection. Idempotent, callable from any state;
// this is also the only sanctioned way out of Degraded.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosing
	var err error
	if s.port != nil {
		err = s.port.Close()
		s.port = nil
	}
	s.state = StateClosed
	glog.V(1).Infof("session closed: %s", s.Device)
	return err
}
