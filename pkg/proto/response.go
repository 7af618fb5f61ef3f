package proto

import "fmt"

// Status classifies a decoded firmware reply.
type Status int

// Statuses.
const (
	StatusOK Status = iota
	StatusFault
)

// Response is a decoded firmware reply. A fault reported by the firmware
// is data, not a decoding failure: Decode surfaces it through Status and
// Fault rather than as an error.
type Response struct {
	Status   Status
	Fault    byte      // raw firmware fault code when Status == StatusFault
	Snapshot *Snapshot // sensor payload, set only for OpSensors replies
}

// Snapshot is one atomically replaced set of sensor readings.
type Snapshot struct {
	Button   bool `json:"button"`
	Distance int  `json:"distance"`
}

// Decode interprets raw as the reply to a frame led by op. It fails with
// *MalformedError when the byte count differs from the opcode's fixed
// reply length or a marker byte mismatches.
func Decode(op Opcode, raw []byte) (Response, error) {
	want := ReplyLen(op)
	if want == 0 {
		return Response{}, &MalformedError{Reason: fmt.Sprintf("no reply format for %s", op)}
	}
	if len(raw) != want {
		return Response{}, &MalformedError{Reason: fmt.Sprintf("%s reply is %d bytes, want %d", op, len(raw), want)}
	}
	if op == OpSensors {
		snap, err := decodeSnapshot(raw)
		if err != nil {
			return Response{}, err
		}
		return Response{Snapshot: &snap}, nil
	}
	if raw[0] != byte(op) {
		return Response{}, &MalformedError{Reason: fmt.Sprintf("ack echoes %s, want %s", Opcode(raw[0]), op)}
	}
	if code := raw[1]; code != 0 {
		return Response{Status: StatusFault, Fault: code}, nil
	}
	return Response{}, nil
}

func decodeSnapshot(raw []byte) (Snapshot, error) {
	if raw[0] != markButton || raw[2] != markButton {
		return Snapshot{}, &MalformedError{Reason: "button marker mismatch"}
	}
	if raw[3] != markDistance || raw[5] != markDistance {
		return Snapshot{}, &MalformedError{Reason: "distance marker mismatch"}
	}
	return Snapshot{Button: raw[1] != 0, Distance: int(raw[4])}, nil
}
