package bot

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miiarobot/miia.go/pkg/link"
	"github.com/miiarobot/miia.go/pkg/proto"
)

// spyTransport records every exchange and plays back scripted replies.
// With no script, every exchange times out.
type spyTransport struct {
	exchanges [][]byte
	replies   [][]byte
	opens     int
	closes    int
}

func (s *spyTransport) Open() error  { s.opens++; return nil }
func (s *spyTransport) Close() error { s.closes++; return nil }

func (s *spyTransport) Exchange(frame []byte, replyLen int, _ time.Duration) ([]byte, error) {
	s.exchanges = append(s.exchanges, append([]byte(nil), frame...))
	if len(s.replies) == 0 {
		return nil, &link.TimeoutError{Want: replyLen}
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func ack(op proto.Opcode) []byte { return []byte{byte(op), 0} }

func TestInvalidArgumentsNoIO(t *testing.T) {
	spy := &spyTransport{}
	b := New(spy)

	testCases := []struct {
		name string
		call func() error
	}{
		{"red too large", func() error { return b.SetRGBLED(300, 0, 0) }},
		{"servo negative", func() error { return b.SetServoAngle(-5) }},
		{"unknown motor", func() error { return b.SetMotor(proto.Motor('c'), proto.Forward, 10) }},
		{"unknown direction", func() error { return b.SetMotor(proto.MotorA, proto.Direction(9), 10) }},
		{"speed too large", func() error { return b.SetMotor(proto.MotorA, proto.Forward, 300) }},
		{"calibration out of range", func() error { return b.SetMotorCalibration(proto.MotorA, 60) }},
		{"calibration unknown motor", func() error { return b.SetMotorCalibration(proto.Motor('x'), 0) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var ae *proto.ArgumentError
			require.True(t, errors.As(err, &ae), "want *proto.ArgumentError, got %v", err)
			require.Empty(t, spy.exchanges, "no transport I/O on invalid arguments")
		})
	}
}

func TestActuatorCommands(t *testing.T) {
	spy := &spyTransport{replies: [][]byte{
		ack(proto.OpRGBRed), ack(proto.OpServo), ack(proto.OpMotorB), ack(proto.OpBuzzer),
	}}
	b := New(spy)

	require.NoError(t, b.SetRGBLED(12, 0, 90))
	require.NoError(t, b.SetServoAngle(85))
	require.NoError(t, b.SetMotor(proto.MotorB, proto.Reverse, 40))
	require.NoError(t, b.SetBuzzer(true))

	require.Equal(t, [][]byte{
		{204, 12, 205, 0, 206, 90},
		{208, 85},
		{203, 1, 40},
		{201, 1},
	}, spy.exchanges)
}

func TestActuatorRetriesOnceOnTimeout(t *testing.T) {
	spy := &spyTransport{} // never responds
	b := New(spy)

	err := b.SetServoAngle(10)
	var te *link.TimeoutError
	require.True(t, errors.As(err, &te))
	require.Len(t, spy.exchanges, 2, "exactly one retry")
	// the session degraded on timeout, so the retry cycles it
	require.Equal(t, 1, spy.closes)
	require.Equal(t, 1, spy.opens)
}

func TestActuatorRetrySucceeds(t *testing.T) {
	// first exchange times out, the retry finds an ack
	first := true
	tr := transportFunc{
		open:  func() error { return nil },
		close: func() error { return nil },
		exchange: func(frame []byte, replyLen int, _ time.Duration) ([]byte, error) {
			if first {
				first = false
				return nil, &link.TimeoutError{Want: replyLen}
			}
			return ack(proto.Opcode(frame[0])), nil
		},
	}
	b := New(&tr)
	require.NoError(t, b.SetServoAngle(10))
	require.False(t, first)
}

type transportFunc struct {
	open     func() error
	close    func() error
	exchange func([]byte, int, time.Duration) ([]byte, error)
}

func (t *transportFunc) Open() error  { return t.open() }
func (t *transportFunc) Close() error { return t.close() }
func (t *transportFunc) Exchange(f []byte, n int, d time.Duration) ([]byte, error) {
	return t.exchange(f, n, d)
}

func TestSensorQueryNeverRetries(t *testing.T) {
	spy := &spyTransport{}
	b := New(spy)

	err := b.RefreshSensors()
	var te *link.TimeoutError
	require.True(t, errors.As(err, &te))
	require.Len(t, spy.exchanges, 1)
	require.Zero(t, spy.closes)
	require.Zero(t, spy.opens)
}

func TestRefreshSensors(t *testing.T) {
	spy := &spyTransport{replies: [][]byte{
		{0x63, 0x01, 0x63, 0x7a, 0xf4, 0x7a},
	}}
	b := New(spy)

	require.Equal(t, proto.Snapshot{}, b.Sensors())
	require.NoError(t, b.RefreshSensors())
	require.Equal(t, proto.Snapshot{Button: true, Distance: 244}, b.Sensors())
	require.Equal(t, [][]byte{{209}}, spy.exchanges)
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	spy := &spyTransport{replies: [][]byte{
		{0x63, 0x00, 0x63, 0x7a, 37, 0x7a},
		{0x63, 0x01, 0x63}, // truncated
	}}
	b := New(spy)

	require.NoError(t, b.RefreshSensors())
	prev := b.Sensors()

	err := b.RefreshSensors()
	var me *proto.MalformedError
	require.True(t, errors.As(err, &me))
	require.Equal(t, prev, b.Sensors(), "snapshot untouched on failure")

	// timeout likewise leaves the snapshot alone
	require.Error(t, b.RefreshSensors())
	require.Equal(t, prev, b.Sensors())
}

func TestFirmwareFault(t *testing.T) {
	spy := &spyTransport{replies: [][]byte{{byte(proto.OpServo), 3}}}
	b := New(spy)

	err := b.SetServoAngle(10)
	var fe *proto.FaultError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, byte(3), fe.Code)
	require.Len(t, spy.exchanges, 1, "faults are not retried")
}

func TestMotorCalibration(t *testing.T) {
	spy := &spyTransport{replies: [][]byte{
		ack(proto.OpMotorA), ack(proto.OpMotorA), ack(proto.OpMotorB),
	}}
	b := New(spy)

	require.NoError(t, b.SetMotorCalibration(proto.MotorA, -20))
	require.NoError(t, b.SetMotor(proto.MotorA, proto.Forward, 50))
	// trim pushing past the encodable range is clamped
	require.NoError(t, b.SetMotor(proto.MotorA, proto.Forward, 10))
	require.NoError(t, b.SetMotor(proto.MotorB, proto.Forward, 50))

	require.Equal(t, [][]byte{
		{202, 0, 30},
		{202, 0, 0},
		{203, 0, 50}, // calibration is per motor
	}, spy.exchanges)
	require.Empty(t, spy.replies)
}

// scriptedPort backs the end-to-end scenario with a real link.Session.
type scriptedPort struct {
	written bytes.Buffer
	replies [][]byte
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.replies) == 0 {
		return 0, nil
	}
	chunk := p.replies[0]
	p.replies = p.replies[1:]
	return copy(b, chunk), nil
}

func (p *scriptedPort) Write(b []byte) (int, error) { return p.written.Write(b) }

func (p *scriptedPort) SetReadTimeout(time.Duration) error { return nil }

func (p *scriptedPort) Close() error { return nil }

func TestScenario(t *testing.T) {
	port := &scriptedPort{replies: [][]byte{
		{200, 0}, // handshake
		ack(proto.OpRGBRed),
		ack(proto.OpServo),
		{0x63, 0x00, 0x63, 0x7a, 37, 0x7a},
	}}
	session := link.NewSession("/dev/ttyUSB0")
	session.Timeout = 10 * time.Millisecond
	session.Dial = func(string, int) (link.Port, error) { return port, nil }
	b := New(session)

	require.NoError(t, b.Connect())
	require.Equal(t, link.StateOpen, session.State())

	require.NoError(t, b.SetRGBLED(12, 0, 90))
	require.NoError(t, b.SetServoAngle(85))
	require.NoError(t, b.RefreshSensors())
	require.Equal(t, proto.Snapshot{Button: false, Distance: 37}, b.Sensors())

	require.NoError(t, b.Close())
	require.Equal(t, link.StateClosed, session.State())

	require.Equal(t, []byte{
		200,
		204, 12, 205, 0, 206, 90,
		208, 85,
		209,
	}, port.written.Bytes())
}
