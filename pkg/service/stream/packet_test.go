package stream

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestDecodeFrame(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		f, err := decodeFrame([]byte(`0{"sid":"abc","pingInterval":100,"pingTimeout":50}`))
		gt.NoError(t, err).Required()
		gt.Equal(t, engineOpen, f.Engine)
		gt.Nil(t, f.Socket)
	})

	t.Run("ping with payload", func(t *testing.T) {
		f, err := decodeFrame([]byte("2keepalive"))
		gt.NoError(t, err).Required()
		gt.Equal(t, enginePing, f.Engine)
		gt.Equal(t, "3keepalive", string(encodePong(f.Payload)))
	})

	t.Run("connect ack", func(t *testing.T) {
		f, err := decodeFrame([]byte(`40{"sid":"xyz"}`))
		gt.NoError(t, err).Required()
		gt.Equal(t, socketConnect, f.Socket.Type)
		gt.Equal(t, "/", f.Socket.Namespace)
		gt.Nil(t, f.Socket.AckID)
	})

	t.Run("event with namespace and ack id", func(t *testing.T) {
		f, err := decodeFrame([]byte(`42/ops,17["alert",{"eventId":"e-1"}]`))
		gt.NoError(t, err).Required()
		gt.Equal(t, socketEvent, f.Socket.Type)
		gt.Equal(t, "/ops", f.Socket.Namespace)
		gt.NotNil(t, f.Socket.AckID)
		gt.Equal(t, 17, *f.Socket.AckID)

		name, args, err := decodeEvent(f.Socket.Data)
		gt.NoError(t, err).Required()
		gt.Equal(t, "alert", name)
		gt.Equal(t, 1, len(args))
	})

	t.Run("namespace only", func(t *testing.T) {
		f, err := decodeFrame([]byte(`41/ops`))
		gt.NoError(t, err).Required()
		gt.Equal(t, socketDisconnect, f.Socket.Type)
		gt.Equal(t, "/ops", f.Socket.Namespace)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, input := range []string{"", "9", "4", "49", `42["alert",`, `45-["x"]`} {
			_, err := decodeFrame([]byte(input))
			gt.Error(t, err)
		}
	})
}

func TestDecodeEvent(t *testing.T) {
	_, _, err := decodeEvent([]byte(`{}`))
	gt.Error(t, err)

	_, _, err = decodeEvent([]byte(`[]`))
	gt.Error(t, err)

	_, _, err = decodeEvent([]byte(`[1, 2]`))
	gt.Error(t, err)

	name, args, err := decodeEvent([]byte(`["liveOccupancy"]`))
	gt.NoError(t, err).Required()
	gt.Equal(t, "liveOccupancy", name)
	gt.Equal(t, 0, len(args))
}

func TestEncode(t *testing.T) {
	pkt, err := encodeConnect("/", map[string]string{"token": "tok"})
	gt.NoError(t, err).Required()
	gt.Equal(t, `40{"token":"tok"}`, string(pkt))

	pkt, err = encodeConnect("/ops", nil)
	gt.NoError(t, err).Required()
	gt.Equal(t, `40/ops,`, string(pkt))

	gt.Equal(t, `435[]`, string(encodeAck("/", 5)))
	gt.Equal(t, `43/ops,5[]`, string(encodeAck("/ops", 5)))
}

func TestConnectError(t *testing.T) {
	gt.Equal(t, "invalid token", connectError([]byte(`{"message":"invalid token"}`)))
	gt.Equal(t, "nope", connectError([]byte(`"nope"`)))
}

func TestBuildEndpoint(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
		fail   bool
	}{
		{name: "https origin", input: "https://cms.example.com", expect: "wss://cms.example.com/socket.io/?EIO=4&transport=websocket"},
		{name: "http origin", input: "http://localhost:3000/", expect: "ws://localhost:3000/socket.io/?EIO=4&transport=websocket"},
		{name: "bare host", input: "cms.example.com", expect: "wss://cms.example.com/socket.io/?EIO=4&transport=websocket"},
		{name: "custom path", input: "ws://localhost/rt/", expect: "ws://localhost/rt/?EIO=4&transport=websocket"},
		{name: "empty", input: "", fail: true},
		{name: "bad scheme", input: "ftp://cms.example.com", fail: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := buildEndpoint(tc.input)
			if tc.fail {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Equal(t, tc.expect, got)
		})
	}
}
