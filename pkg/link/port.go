package link

import (
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the minimal serial device surface the session needs.
// Satisfied by go.bug.st/serial ports and by in-memory test doubles.
type Port interface {
	io.ReadWriter
	SetReadTimeout(d time.Duration) error
	Close() error
}

// Dialer opens a Port for a device path at a baud rate.
type Dialer func(device string, baud int) (Port, error)

// DialSerial opens device as a raw 8N1 serial port.
func DialSerial(device string, baud int) (Port, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	return port, nil
}
