package node

import (
	"bytes"
	"testing"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	testCases := []struct {
		Name string
		Msg  Message
	}{
		{"announce", Announce("127.0.0.1:5000")},
		{"requestRoster", RequestRoster()},
		{"roster", Roster([]string{"127.0.0.1:5000", "127.0.0.1:5001"})},
		{"chat", Chat("random message 42")},
	}

	for _, test := range testCases {
		var buf bytes.Buffer
		if err := writeFrame(&buf, test.Msg); err != nil {
			t.Fatalf("%s: writeFrame failed: %v", test.Name, err)
		}

		got, err := readFrame(&buf)
		if err != nil {
			t.Fatalf("%s: readFrame failed: %v", test.Name, err)
		}

		if got.Kind != test.Msg.Kind {
			t.Fatalf("%s: kind mismatch: got %v want %v", test.Name, got.Kind, test.Msg.Kind)
		}
		if got.Addr != test.Msg.Addr {
			t.Fatalf("%s: addr mismatch: got %q want %q", test.Name, got.Addr, test.Msg.Addr)
		}
		if got.Text != test.Msg.Text {
			t.Fatalf("%s: text mismatch: got %q want %q", test.Name, got.Text, test.Msg.Text)
		}
		if len(got.Addrs) != len(test.Msg.Addrs) {
			t.Fatalf("%s: addrs mismatch: got %v want %v", test.Name, got.Addrs, test.Msg.Addrs)
		}
	}
}

func TestReadFrameRejectsZeroLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
	if _, err := readFrame(buf); err == nil {
		t.Fatal("expected an error for a zero-length frame")
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := readFrame(buf); err == nil {
		t.Fatal("expected an error for an oversized frame length")
	}
}

func TestReadFrameRejectsUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, Chat("hi")); err != nil {
		t.Fatalf("writeFrame failed: %v", err)
	}
	raw := buf.Bytes()
	raw[4] = 0xEE // stomp the tag byte with an unknown kind

	if _, err := readFrame(bytes.NewReader(raw)); err == nil {
		t.Fatal("expected an error for an unknown message kind")
	}
}

func TestReadFrameSurfacesShortRead(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 10, 1, 2})
	if _, err := readFrame(buf); err == nil {
		t.Fatal("expected an error when the body is shorter than advertised")
	}
}
