package proto

import "fmt"

// Opcode selects the robot operation a frame performs.
type Opcode byte

// Opcodes understood by the firmware. 201-208 are the documented actuator
// opcodes; OpPing and OpSensors are the host-side handshake and sensor
// query. 207 is unassigned.
const (
	OpPing     Opcode = 200
	OpBuzzer   Opcode = 201
	OpMotorA   Opcode = 202
	OpMotorB   Opcode = 203
	OpRGBRed   Opcode = 204
	OpRGBGreen Opcode = 205
	OpRGBBlue  Opcode = 206
	OpServo    Opcode = 208
	OpSensors  Opcode = 209
)

var opcodeNames = map[Opcode]string{
	OpPing:     "ping",
	OpBuzzer:   "buzzer",
	OpMotorA:   "motor_a",
	OpMotorB:   "motor_b",
	OpRGBRed:   "rgb_led_r",
	OpRGBGreen: "rgb_led_g",
	OpRGBBlue:  "rgb_led_b",
	OpServo:    "servo",
	OpSensors:  "sensors",
}

// String implements fmt.Stringer.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", byte(op))
}

// Motor selects one of the two DC motors.
type Motor byte

// Available motors.
const (
	MotorA Motor = 'a'
	MotorB Motor = 'b'
)

// IsValid indicates the motor is one of the supported set.
func (m Motor) IsValid() bool {
	return m == MotorA || m == MotorB
}

// Opcode maps the motor to its drive opcode.
func (m Motor) Opcode() Opcode {
	if m == MotorB {
		return OpMotorB
	}
	return OpMotorA
}

// String implements fmt.Stringer.
func (m Motor) String() string { return string(rune(m)) }

// Direction of DC motor rotation. Stop is a host-level convenience and
// is encoded as Forward at speed 0.
type Direction int

// Directions.
const (
	Forward Direction = 0
	Reverse Direction = 1
	Stop    Direction = 2
)

// IsValid indicates the direction is one of the supported set.
func (d Direction) IsValid() bool {
	return d == Forward || d == Reverse || d == Stop
}

// ParseDirection resolves a direction name.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	case "stop":
		return Stop, nil
	}
	return 0, &ArgumentError{Field: "direction", Raw: s}
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Stop:
		return "stop"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Documented argument ranges.
const (
	MaxChannel     = 100 // RGB channel intensity
	MaxSpeed       = 100 // motor speed
	MaxServo       = 100 // servo position, maps to 0-180 degrees
	MinCalibration = -50 // motor speed trim
	MaxCalibration = 50
)

type argRange struct {
	name     string
	min, max int
}

// Per-opcode argument tables. Arity and ranges are fixed, which keeps
// frame lengths deterministic.
var opArgs = map[Opcode][]argRange{
	OpPing:     {},
	OpBuzzer:   {{"state", 0, 1}},
	OpMotorA:   {{"direction", 0, 1}, {"speed", 0, MaxSpeed}},
	OpMotorB:   {{"direction", 0, 1}, {"speed", 0, MaxSpeed}},
	OpRGBRed:   {{"red", 0, MaxChannel}},
	OpRGBGreen: {{"green", 0, MaxChannel}},
	OpRGBBlue:  {{"blue", 0, MaxChannel}},
	OpServo:    {{"position", 0, MaxServo}},
	OpSensors:  {},
}

// Reply layouts.
const (
	ackLen      = 2 // [echoed opcode, status]
	snapshotLen = 6 // [0x63, button, 0x63, 0x7a, distance, 0x7a]

	markButton   = 0x63
	markDistance = 0x7a
)

// ReplyLen returns the fixed reply length for a frame led by op,
// or 0 if the opcode is not recognized.
func ReplyLen(op Opcode) int {
	if op == OpSensors {
		return snapshotLen
	}
	if _, ok := opArgs[op]; ok {
		return ackLen
	}
	return 0
}
