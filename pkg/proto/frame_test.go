package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameEncode(t *testing.T) {
	testCases := []struct {
		name   string
		frame  Frame
		expect []byte
	}{
		{"ping", PingFrame(), []byte{200}},
		{"sensors", SensorsFrame(), []byte{209}},
		{"buzzer on", BuzzerFrame(true), []byte{201, 1}},
		{"buzzer off", BuzzerFrame(false), []byte{201, 0}},
		{"servo", ServoFrame(85), []byte{208, 85}},
		{"servo min", ServoFrame(0), []byte{208, 0}},
		{"servo max", ServoFrame(100), []byte{208, 100}},
		{"rgb", RGBFrame(12, 0, 90), []byte{204, 12, 205, 0, 206, 90}},
		{"rgb off", RGBFrame(0, 0, 0), []byte{204, 0, 205, 0, 206, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.frame.Encode()
			require.NoError(t, err)
			require.Equal(t, tc.expect, b)
			require.Equal(t, tc.expect[0], byte(tc.frame.Op()))
		})
	}
}

func TestFrameEncodeMotor(t *testing.T) {
	testCases := []struct {
		name   string
		motor  Motor
		dir    Direction
		speed  int
		expect []byte
	}{
		{"a forward", MotorA, Forward, 50, []byte{202, 0, 50}},
		{"a reverse", MotorA, Reverse, 100, []byte{202, 1, 100}},
		{"b forward", MotorB, Forward, 1, []byte{203, 0, 1}},
		{"b stop", MotorB, Stop, 80, []byte{203, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := MotorFrame(tc.motor, tc.dir, tc.speed)
			require.NoError(t, err)
			b, err := frame.Encode()
			require.NoError(t, err)
			require.Equal(t, tc.expect, b)
		})
	}
}

func TestFrameEncodeInvalidArgs(t *testing.T) {
	testCases := []struct {
		name  string
		frame Frame
	}{
		{"red too large", RGBFrame(300, 0, 0)},
		{"green negative", RGBFrame(0, -1, 0)},
		{"blue too large", RGBFrame(0, 0, 101)},
		{"servo negative", ServoFrame(-5)},
		{"servo too large", ServoFrame(101)},
		{"unknown opcode", NewFrame(Command{Op: 207})},
		{"arity mismatch", NewFrame(Command{Op: OpServo, Args: []int{1, 2}})},
		{"empty frame", NewFrame()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.frame.Encode()
			require.Nil(t, b)
			require.Error(t, err)
			require.IsType(t, &ArgumentError{}, err)
		})
	}
}

func TestMotorFrameInvalidEnums(t *testing.T) {
	_, err := MotorFrame(Motor('c'), Forward, 10)
	require.IsType(t, &ArgumentError{}, err)

	_, err = MotorFrame(MotorA, Direction(7), 10)
	require.IsType(t, &ArgumentError{}, err)

	frame, err := MotorFrame(MotorA, Forward, 101)
	require.NoError(t, err)
	_, err = frame.Encode()
	require.IsType(t, &ArgumentError{}, err)
}

func TestParseDirection(t *testing.T) {
	for name, expect := range map[string]Direction{
		"forward": Forward, "reverse": Reverse, "stop": Stop,
	} {
		dir, err := ParseDirection(name)
		require.NoError(t, err)
		require.Equal(t, expect, dir)
		require.Equal(t, name, dir.String())
	}
	_, err := ParseDirection("sideways")
	require.IsType(t, &ArgumentError{}, err)
}
