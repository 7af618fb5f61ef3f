package robot

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/miiarobot/miia.go/pkg/cli/sh"
	"github.com/miiarobot/miia.go/pkg/proto"
)

func intArg(c *ishell.Context, n int, name string) (int, error) {
	val, err := strconv.Atoi(c.Args[n])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return val, nil
}

var (
	// LEDCmd sets the RGB LED color.
	LEDCmd = ishell.Cmd{
		Name:    "led",
		Aliases: []string{"rgb"},
		Help:    "RED GREEN BLUE (each 0-100)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("RED GREEN BLUE required"))
				return
			}
			var channels [3]int
			for i, name := range []string{"RED", "GREEN", "BLUE"} {
				val, err := intArg(c, i, name)
				if err != nil {
					c.Err(err)
					return
				}
				channels[i] = val
			}
			if err := sh.ShellFrom(c).Bot.SetRGBLED(channels[0], channels[1], channels[2]); err != nil {
				c.Err(err)
			}
		}),
	}

	// ServoCmd positions the servo.
	ServoCmd = ishell.Cmd{
		Name: "servo",
		Help: "POSITION (0-100, maps to 0-180 degrees)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("POSITION required"))
				return
			}
			pos, err := intArg(c, 0, "POSITION")
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ShellFrom(c).Bot.SetServoAngle(pos); err != nil {
				c.Err(err)
			}
		}),
	}

	// MotorCmd drives a DC motor.
	MotorCmd = ishell.Cmd{
		Name:    "motor",
		Aliases: []string{"m"},
		Help:    "MOTOR(a|b) DIRECTION(forward|reverse|stop) [SPEED(0-100)]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("MOTOR and DIRECTION required"))
				return
			}
			if len(c.Args[0]) != 1 {
				c.Err(fmt.Errorf("invalid MOTOR %q", c.Args[0]))
				return
			}
			dir, err := proto.ParseDirection(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			var speed int
			if len(c.Args) > 2 {
				if speed, err = intArg(c, 2, "SPEED"); err != nil {
					c.Err(err)
					return
				}
			}
			if err := sh.ShellFrom(c).Bot.SetMotor(proto.Motor(c.Args[0][0]), dir, speed); err != nil {
				c.Err(err)
			}
		}),
	}

	// BuzzerCmd switches the buzzer.
	BuzzerCmd = ishell.Cmd{
		Name: "buzzer",
		Help: "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
				c.Err(fmt.Errorf("on or off required"))
				return
			}
			if err := sh.ShellFrom(c).Bot.SetBuzzer(c.Args[0] == "on"); err != nil {
				c.Err(err)
			}
		}),
	}

	// CalCmd stores a motor calibration trim.
	CalCmd = ishell.Cmd{
		Name: "cal",
		Help: "MOTOR(a|b) FACTOR(-50..50)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("MOTOR and FACTOR required"))
				return
			}
			if len(c.Args[0]) != 1 {
				c.Err(fmt.Errorf("invalid MOTOR %q", c.Args[0]))
				return
			}
			factor, err := intArg(c, 1, "FACTOR")
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ShellFrom(c).Bot.SetMotorCalibration(proto.Motor(c.Args[0][0]), factor); err != nil {
				c.Err(err)
			}
		}),
	}

	// SensorsCmd refreshes and prints the sensor snapshot.
	SensorsCmd = ishell.Cmd{
		Name:    "sensors",
		Aliases: []string{"s"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if err := s.Bot.RefreshSensors(); err != nil {
				c.Err(err)
				return
			}
			s.PrintResult(c, s.Bot.Sensors())
		}),
	}
)

func init() {
	sh.AddCmds(
		&LEDCmd,
		&ServoCmd,
		&MotorCmd,
		&BuzzerCmd,
		&CalCmd,
		&SensorsCmd,
	)
}
