// Package link owns the serial connection to the robot and performs
// blocking write-then-read exchanges with bounded timeouts.
package link
