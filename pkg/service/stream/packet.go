package stream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Engine.IO v4 packet types
const (
	engineOpen    byte = '0'
	engineClose   byte = '1'
	enginePing    byte = '2'
	enginePong    byte = '3'
	engineMessage byte = '4'
	engineUpgrade byte = '5'
	engineNoop    byte = '6'
)

// Socket.IO v5 protocol packet types carried in engine messages
const (
	socketConnect      byte = '0'
	socketDisconnect   byte = '1'
	socketEvent        byte = '2'
	socketAck          byte = '3'
	socketConnectError byte = '4'
	socketBinaryEvent  byte = '5'
	socketBinaryAck    byte = '6'
)

const defaultNamespace = "/"

type openPayload struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// liveness is how long the server may stay silent before the connection is considered dead
func (p openPayload) liveness() time.Duration {
	interval := time.Duration(p.PingInterval) * time.Millisecond
	timeout := time.Duration(p.PingTimeout) * time.Millisecond
	if interval <= 0 {
		interval = 25 * time.Second
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return interval + timeout
}

// socketPacket is a decoded Socket.IO packet
type socketPacket struct {
	Type      byte
	Namespace string
	AckID     *int
	Data      json.RawMessage
}

// frame is one decoded websocket text message
type frame struct {
	Engine byte
	// Payload is the engine payload, e.g. the open handshake or ping payload
	Payload []byte
	// Socket is set for engine message frames
	Socket *socketPacket
}

func decodeFrame(data []byte) (*frame, error) {
	if len(data) == 0 {
		return nil, goerr.New("empty frame")
	}

	f := &frame{Engine: data[0], Payload: data[1:]}
	switch f.Engine {
	case engineOpen, engineClose, enginePing, enginePong, engineUpgrade, engineNoop:
		return f, nil
	case engineMessage:
		pkt, err := decodeSocketPacket(f.Payload)
		if err != nil {
			return nil, err
		}
		f.Socket = pkt
		return f, nil
	default:
		return nil, goerr.New("unknown engine packet type", goerr.V("type", string(f.Engine)))
	}
}

// decodeSocketPacket parses <type>[<namespace>,][<ackId>][<json>]
func decodeSocketPacket(data []byte) (*socketPacket, error) {
	if len(data) == 0 {
		return nil, goerr.New("empty socket packet")
	}

	pkt := &socketPacket{Type: data[0], Namespace: defaultNamespace}
	switch pkt.Type {
	case socketConnect, socketDisconnect, socketEvent, socketAck, socketConnectError:
	case socketBinaryEvent, socketBinaryAck:
		return nil, goerr.New("binary packets are not supported")
	default:
		return nil, goerr.New("unknown socket packet type", goerr.V("type", string(pkt.Type)))
	}
	rest := data[1:]

	if len(rest) > 0 && rest[0] == '/' {
		idx := bytes.IndexByte(rest, ',')
		if idx < 0 {
			pkt.Namespace = string(rest)
			return pkt, nil
		}
		pkt.Namespace = string(rest[:idx])
		rest = rest[idx+1:]
	}

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		id, err := strconv.Atoi(string(rest[:digits]))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid ack id")
		}
		pkt.AckID = &id
		rest = rest[digits:]
	}

	if len(rest) > 0 {
		if !json.Valid(rest) {
			return nil, goerr.New("invalid socket packet payload", goerr.V("payload", string(rest)))
		}
		pkt.Data = json.RawMessage(rest)
	}
	return pkt, nil
}

// decodeEvent splits an event payload ["name", arg...] into name and args
func decodeEvent(data json.RawMessage) (string, []json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return "", nil, goerr.Wrap(err, "event payload is not an array")
	}
	if len(items) == 0 {
		return "", nil, goerr.New("event payload is empty")
	}

	var name string
	if err := json.Unmarshal(items[0], &name); err != nil {
		return "", nil, goerr.Wrap(err, "event name is not a string")
	}
	return name, items[1:], nil
}

func namespacePrefix(namespace string) string {
	if namespace == "" || namespace == defaultNamespace {
		return ""
	}
	return namespace + ","
}

func encodeConnect(namespace string, auth any) ([]byte, error) {
	buf := []byte{engineMessage, socketConnect}
	buf = append(buf, namespacePrefix(namespace)...)
	if auth != nil {
		payload, err := json.Marshal(auth)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode connect auth")
		}
		buf = append(buf, payload...)
	}
	return buf, nil
}

func encodeAck(namespace string, id int) []byte {
	buf := []byte{engineMessage, socketAck}
	buf = append(buf, namespacePrefix(namespace)...)
	buf = strconv.AppendInt(buf, int64(id), 10)
	return append(buf, "[]"...)
}

func encodePong(payload []byte) []byte {
	return append([]byte{enginePong}, payload...)
}

// connectError extracts the message of a CONNECT_ERROR payload, {"message": "..."} or a bare string in v4
func connectError(data json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return string(data)
}
