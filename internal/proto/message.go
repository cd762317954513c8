// Package proto defines the wire format shared by the server and both
// clients. Every message is a single line of the form TAG:PAYLOAD
// terminated by '\n'.
package proto

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLineLen bounds the encoded form of a message, terminator included.
const MaxLineLen = 255

// Message tags understood by the protocol.
const (
	TagSLogin   = "slogin"
	TagRLogin   = "rlogin"
	TagJoin     = "join"
	TagLeave    = "leave"
	TagSendAll  = "sendall"
	TagQuit     = "quit"
	TagOK       = "ok"
	TagErr      = "err"
	TagDelivery = "delivery"
)

var (
	// ErrTooLong reports a message whose encoded form exceeds MaxLineLen.
	ErrTooLong = errors.New("encoded message exceeds maximum length")
	// ErrMalformed reports a line that cannot be decoded into a message.
	ErrMalformed = errors.New("malformed message")
)

// Message is an immutable tag/payload pair. The first ':' of a line always
// marks the tag boundary, so tags never contain a colon; payloads may.
type Message struct {
	Tag     string
	Payload string
}

// Encode renders the message as a terminated wire line. It fails with
// ErrTooLong if the result would exceed MaxLineLen.
func (m Message) Encode() ([]byte, error) {
	line := m.Tag + ":" + m.Payload + "\n"
	if len(line) > MaxLineLen {
		return nil, ErrTooLong
	}
	return []byte(line), nil
}

// Parse decodes one wire line (terminator already stripped) into a
// Message. The payload is everything after the first ':'; a line with no
// separator or an empty tag is malformed.
func Parse(line string) (Message, error) {
	tag, payload, found := strings.Cut(line, ":")
	if !found || tag == "" {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	return Message{Tag: tag, Payload: payload}, nil
}

// DeliveryPayload builds the colon-delimited payload of a delivery
// message: room name, sender username, and the broadcast text.
func DeliveryPayload(room, sender, text string) string {
	return room + ":" + sender + ":" + text
}

// SplitDelivery decomposes a delivery payload into its three fields.
func SplitDelivery(payload string) (room, sender, text string, err error) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: delivery payload %q", ErrMalformed, payload)
	}
	return parts[0], parts[1], parts[2], nil
}
