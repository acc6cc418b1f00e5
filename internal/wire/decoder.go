package wire

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

// Kind discriminates the decoded message variants.
type Kind int

const (
	// KindGesture carries a classified gesture event.
	KindGesture Kind = iota
	// KindConnected is the server's post-handshake acknowledgement.
	KindConnected
	// KindPong answers a keepalive ping.
	KindPong
	// KindUnrecognized is any well-formed message whose type this client
	// does not act on. Accepted and ignored for forward compatibility.
	KindUnrecognized
)

// Message is the typed result of decoding one wire payload.
type Message struct {
	Kind  Kind
	Event gesture.Event // populated only for KindGesture
	Type  string        // raw "type" value, kept for logging
}

// gestureTag is the substring pre-check that routes the dominant message
// type to the gesture parse path without a generic type lookup first.
var gestureTag = []byte(`"type":"gesture"`)

// Decode parses one raw payload into a typed Message.
//
// A decode error means the single message is discarded; it is never fatal
// to the caller's loop.
func Decode(raw []byte) (Message, error) {
	raw = normalizeTimestamp(raw)

	if !gjson.ValidBytes(raw) {
		return Message{}, fmt.Errorf("malformed json payload")
	}

	if bytes.Contains(raw, gestureTag) {
		return decodeGesture(raw)
	}

	switch t := gjson.GetBytes(raw, "type").String(); t {
	case "gesture":
		return decodeGesture(raw)
	case "connected":
		return Message{Kind: KindConnected, Type: t}, nil
	case "pong":
		return Message{Kind: KindPong, Type: t}, nil
	default:
		return Message{Kind: KindUnrecognized, Type: t}, nil
	}
}

// decodeGesture extracts the gesture fields. The gesture name and a numeric
// confidence are required; timestamp is informational and defaults to zero.
func decodeGesture(raw []byte) (Message, error) {
	name := gjson.GetBytes(raw, "gesture")
	if !name.Exists() || name.Type != gjson.String || name.Str == "" {
		return Message{}, fmt.Errorf("gesture name missing or empty")
	}

	conf := gjson.GetBytes(raw, "confidence")
	if !conf.Exists() || conf.Type != gjson.Number {
		return Message{}, fmt.Errorf("gesture %q: confidence missing or not numeric", name.Str)
	}

	ts := gjson.GetBytes(raw, "timestamp")
	var sourceTime float64
	switch {
	case !ts.Exists():
		// tolerated; SourceTime stays zero
	case ts.Type == gjson.Number:
		sourceTime = ts.Num
	default:
		// an ISO string would have been rewritten by normalizeTimestamp;
		// anything still non-numeric here is a bad field
		return Message{}, fmt.Errorf("gesture %q: timestamp not numeric", name.Str)
	}

	return Message{
		Kind: KindGesture,
		Type: "gesture",
		Event: gesture.Event{
			Category:   gesture.ParseCategory(name.Str),
			Confidence: gesture.Clamp01(conf.Num),
			SourceTime: sourceTime,
		},
	}, nil
}

// isoLayouts are tried in order for string timestamps. Detectors commonly
// emit bare isoformat() values with no zone suffix; those are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// normalizeTimestamp rewrites an ISO-8601 "timestamp" field in place to its
// epoch-seconds equivalent so the rest of the pipeline only ever sees the
// numeric representation. On any conversion failure the original payload is
// returned unmodified and structural parsing fails naturally downstream.
func normalizeTimestamp(raw []byte) []byte {
	ts := gjson.GetBytes(raw, "timestamp")
	if !ts.Exists() || ts.Type != gjson.String {
		return raw
	}

	parsed, ok := parseISO(ts.Str)
	if !ok {
		return raw
	}

	seconds := float64(parsed.UnixNano()) / float64(time.Second)
	out, err := sjson.SetBytes(raw, "timestamp", seconds)
	if err != nil {
		return raw
	}
	return out
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
