package proto

// Command pairs an opcode with its ordered arguments.
type Command struct {
	Op   Opcode
	Args []int
}

// Frame is one or more commands sent as a single write. Most operations
// are a single command; the RGB LED is one frame of three channel
// commands, matching the firmware contract.
type Frame struct {
	cmds []Command
}

// NewFrame builds a frame from commands.
func NewFrame(cmds ...Command) Frame {
	return Frame{cmds: cmds}
}

// Op returns the leading opcode, which determines the reply format.
func (f Frame) Op() Opcode {
	if len(f.cmds) == 0 {
		return 0
	}
	return f.cmds[0].Op
}

// ReplyLen returns the fixed number of reply bytes the firmware sends
// for this frame.
func (f Frame) ReplyLen() int {
	return ReplyLen(f.Op())
}

// Encode validates every argument against the opcode tables and packs
// the frame, one byte per field. It fails with *ArgumentError on any
// unrecognized opcode, arity mismatch or out-of-range value.
func (f Frame) Encode() ([]byte, error) {
	if len(f.cmds) == 0 {
		return nil, &ArgumentError{Field: "frame", Raw: "empty"}
	}
	var b []byte
	for _, cmd := range f.cmds {
		ranges, ok := opArgs[cmd.Op]
		if !ok {
			return nil, &ArgumentError{Field: "opcode", Value: int(cmd.Op)}
		}
		if len(cmd.Args) != len(ranges) {
			return nil, &ArgumentError{Field: cmd.Op.String() + " arity", Value: len(cmd.Args)}
		}
		b = append(b, byte(cmd.Op))
		for i, arg := range cmd.Args {
			r := ranges[i]
			if arg < r.min || arg > r.max {
				return nil, &ArgumentError{Field: r.name, Value: arg, Min: r.min, Max: r.max, Ranged: true}
			}
			b = append(b, byte(arg))
		}
	}
	return b, nil
}

// PingFrame builds the handshake frame sent on session open.
func PingFrame() Frame {
	return NewFrame(Command{Op: OpPing})
}

// SensorsFrame builds the sensor snapshot query.
func SensorsFrame() Frame {
	return NewFrame(Command{Op: OpSensors})
}

// RGBFrame builds the LED frame. Channel intensities are 0-100; all
// zeros turns the LED off.
func RGBFrame(red, green, blue int) Frame {
	return NewFrame(
		Command{Op: OpRGBRed, Args: []int{red}},
		Command{Op: OpRGBGreen, Args: []int{green}},
		Command{Op: OpRGBBlue, Args: []int{blue}},
	)
}

// ServoFrame builds the servo positioning frame. Position 0-100 maps to
// 0-180 degrees.
func ServoFrame(position int) Frame {
	return NewFrame(Command{Op: OpServo, Args: []int{position}})
}

// BuzzerFrame builds the buzzer on/off frame.
func BuzzerFrame(on bool) Frame {
	state := 0
	if on {
		state = 1
	}
	return NewFrame(Command{Op: OpBuzzer, Args: []int{state}})
}

// MotorFrame builds the drive frame for one DC motor. It fails with
// *ArgumentError if the motor or direction enumeration is unrecognized,
// before anything is encoded.
func MotorFrame(motor Motor, dir Direction, speed int) (Frame, error) {
	if !motor.IsValid() {
		return Frame{}, &ArgumentError{Field: "motor", Raw: motor.String()}
	}
	if !dir.IsValid() {
		return Frame{}, &ArgumentError{Field: "direction", Value: int(dir)}
	}
	if dir == Stop {
		dir, speed = Forward, 0
	}
	return NewFrame(Command{Op: motor.Opcode(), Args: []int{int(dir), speed}}), nil
}
