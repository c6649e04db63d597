package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedFrame is returned when a frame is not a valid envelope or
	// its payload does not match the event.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnknownEvent is returned for inbound frames naming an event the
	// relay does not accept.
	ErrUnknownEvent = errors.New("unknown event")
)

// Envelope is the outer shape of every frame.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound is a decoded client frame. Exactly one payload field is set,
// matching Event.
type Inbound struct {
	Event       string
	Join        *JoinPayload
	Leave       *LeavePayload
	SendMessage *SendMessagePayload
}

// Encode renders an outbound frame.
func Encode(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", event, err)
	}
	return frame, nil
}

// DecodeInbound parses a client frame.
func DecodeInbound(frame []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	in := Inbound{Event: env.Event}
	var target any
	switch env.Event {
	case EventJoin:
		in.Join = &JoinPayload{}
		target = in.Join
	case EventLeave:
		in.Leave = &LeavePayload{}
		target = in.Leave
	case EventSendMessage:
		in.SendMessage = &SendMessagePayload{}
		target = in.SendMessage
	case "":
		return Inbound{}, fmt.Errorf("%w: missing event", ErrMalformedFrame)
	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}

	if len(env.Payload) == 0 {
		return Inbound{}, fmt.Errorf("%w: %s has no payload", ErrMalformedFrame, env.Event)
	}
	if err := json.Unmarshal(env.Payload, target); err != nil {
		return Inbound{}, fmt.Errorf("%w: %s payload: %v", ErrMalformedFrame, env.Event, err)
	}
	return in, nil
}
