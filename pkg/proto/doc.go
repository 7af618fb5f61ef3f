// Package proto implements the MiiA.bit serial command protocol.
package proto

// The protocol is exchanged between the host and the MiiA.bit firmware
// over a USB serial link. Every field is packed as a single byte, so the
// total length of a command frame and of its reply are both fixed by the
// leading opcode. There is no checksum; the firmware's sensor record uses
// marker bytes as terminators, and everything else relies on exact length
// matching.
//
// Producer: host library
// Consumer: MiiA.bit firmware
