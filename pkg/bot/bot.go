// Package bot exposes the MiiA.bit operations to callers: it validates
// arguments, dispatches frames over the transport session and caches the
// most recent sensor snapshot.
package bot

import (
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/miiarobot/miia.go/pkg/link"
	"github.com/miiarobot/miia.go/pkg/proto"
)

// Transport is the serial session surface the dispatcher drives.
// Implemented by *link.Session.
type Transport interface {
	Open() error
	Close() error
	Exchange(frame []byte, replyLen int, timeout time.Duration) ([]byte, error)
}

// Bot dispatches robot commands and caches sensor state. Like the
// underlying session it is not safe for concurrent use; callers must
// serialize access externally.
type Bot struct {
	// Timeout bounds each exchange; zero uses the session default.
	Timeout time.Duration

	transport Transport
	cal       map[proto.Motor]int
	snap      proto.Snapshot
}

// New creates a Bot over a transport session.
func New(t Transport) *Bot {
	return &Bot{
		transport: t,
		cal:       map[proto.Motor]int{proto.MotorA: 0, proto.MotorB: 0},
	}
}

// Connect opens the underlying session.
func (b *Bot) Connect() error { return b.transport.Open() }

// Close closes the underlying session.
func (b *Bot) Close() error { return b.transport.Close() }

// SetRGBLED mixes the RGB LED color. Channel intensities are 0-100;
// all zeros turns the LED off.
func (b *Bot) SetRGBLED(red, green, blue int) error {
	return b.actuate(proto.RGBFrame(red, green, blue))
}

// SetServoAngle drives the positional servo. Position 0-100 maps to
// 0-180 degrees.
func (b *Bot) SetServoAngle(position int) error {
	return b.actuate(proto.ServoFrame(position))
}

// SetBuzzer switches the buzzer on or off.
func (b *Bot) SetBuzzer(on bool) error {
	return b.actuate(proto.BuzzerFrame(on))
}

// SetMotor drives one DC motor. The stored calibration trim is applied
// to the validated speed before encoding.
func (b *Bot) SetMotor(motor proto.Motor, dir proto.Direction, speed int) error {
	if speed < 0 || speed > proto.MaxSpeed {
		return &proto.ArgumentError{Field: "speed", Value: speed, Min: 0, Max: proto.MaxSpeed, Ranged: true}
	}
	frame, err := proto.MotorFrame(motor, dir, clampSpeed(speed+b.cal[motor]))
	if err != nil {
		return err
	}
	return b.actuate(frame)
}

// SetMotorCalibration stores a per-motor speed trim applied to every
// subsequent SetMotor call. Local only; nothing is sent to the robot.
func (b *Bot) SetMotorCalibration(motor proto.Motor, factor int) error {
	if !motor.IsValid() {
		return &proto.ArgumentError{Field: "motor", Raw: motor.String()}
	}
	if factor < proto.MinCalibration || factor > proto.MaxCalibration {
		return &proto.ArgumentError{
			Field: "calibration", Value: factor,
			Min: proto.MinCalibration, Max: proto.MaxCalibration, Ranged: true,
		}
	}
	b.cal[motor] = factor
	return nil
}

// RefreshSensors queries the robot and replaces the cached snapshot in
// one swap. On any failure the previous snapshot is left untouched and
// the failure propagates. Sensor queries are never retried: a stale but
// consistent snapshot beats surprising latency.
func (b *Bot) RefreshSensors() error {
	resp, err := b.do(proto.SensorsFrame())
	if err != nil {
		return err
	}
	b.snap = *resp.Snapshot
	return nil
}

// Sensors returns the most recent snapshot. All fields come from the
// same exchange; the zero value is returned until the first successful
// RefreshSensors.
func (b *Bot) Sensors() proto.Snapshot { return b.snap }

// actuate sends an actuator frame, retrying exactly once on a reply
// timeout. The session degrades on timeout, so the retry cycles it
// before resending.
func (b *Bot) actuate(frame proto.Frame) error {
	_, err := b.do(frame)
	var te *link.TimeoutError
	if errors.As(err, &te) {
		glog.V(1).Infof("%s timed out, retrying once", frame.Op())
		if rerr := b.cycle(); rerr != nil {
			return rerr
		}
		_, err = b.do(frame)
	}
	return err
}

func (b *Bot) cycle() error {
	if err := b.transport.Close(); err != nil {
		return err
	}
	return b.transport.Open()
}

// do encodes, exchanges and decodes one frame. Argument validation
// happens in Encode, before any transport I/O.
func (b *Bot) do(frame proto.Frame) (proto.Response, error) {
	raw, err := frame.Encode()
	if err != nil {
		return proto.Response{}, err
	}
	reply, err := b.transport.Exchange(raw, frame.ReplyLen(), b.Timeout)
	if err != nil {
		return proto.Response{}, err
	}
	resp, err := proto.Decode(frame.Op(), reply)
	if err != nil {
		return proto.Response{}, err
	}
	if resp.Status == proto.StatusFault {
		return proto.Response{}, &proto.FaultError{Code: resp.Fault}
	}
	return resp, nil
}

func clampSpeed(speed int) int {
	if speed < 0 {
		return 0
	}
	if speed > proto.MaxSpeed {
		return proto.MaxSpeed
	}
	return speed
}
