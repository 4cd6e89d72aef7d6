package pcf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Header is the first line of a record.
type Header struct {
	Tag        Tag
	Key        string
	Shape      Shape
	PayloadLen int64
}

// EncodeHeader renders h as a newline-terminated header line.
func EncodeHeader(h Header) string {
	return string(h.Tag) + " " + h.Key + " " + h.Shape.String() + " " + strconv.FormatInt(h.PayloadLen, 10) + "\n"
}

// DecodeHeader parses a header line. The trailing newline is optional.
// The tag is returned as found; callers decide what to do with unknown tags.
func DecodeHeader(line string) (Header, error) {
	return decodeHeader(line, -1)
}

func decodeHeader(line string, off int64) (Header, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Header{}, &RecordError{Offset: off, Line: line, Reason: fmt.Sprintf("expected 4 header fields, got %d", len(fields))}
	}
	shape, err := ParseShape(fields[2])
	if err != nil {
		return Header{}, &RecordError{Offset: off, Line: line, Reason: err.Error()}
	}
	n, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil || n < 0 {
		return Header{}, &RecordError{Offset: off, Line: line, Reason: fmt.Sprintf("invalid payload length %q", fields[3])}
	}
	return Header{
		Tag:        Tag(fields[0]),
		Key:        fields[1],
		Shape:      shape,
		PayloadLen: n,
	}, nil
}

// EncodePayload renders the values and gradients lines of a record and
// returns the bytes together with their exact length.
//
// Floats are written with the shortest text that parses back to the same
// float32, so a save/load round trip is lossless.
func EncodePayload(values, grads []float32) ([]byte, int64) {
	buf := make([]byte, 0, (len(values)+len(grads))*12+6)
	buf = appendVector(buf, values)
	buf = appendVector(buf, grads)
	return buf, int64(len(buf))
}

func appendVector(buf []byte, v []float32) []byte {
	buf = append(buf, '[')
	for i, x := range v {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, float64(x), 'g', -1, 32)
	}
	return append(buf, ']', '\n')
}

// DecodePayload reads exactly h.PayloadLen bytes from s and parses them as
// two vectors of h.Shape.NumElements() values each.
func DecodePayload(s Stream, h Header) (values, grads []float32, err error) {
	off := s.Offset()
	raw, err := s.ReadExact(h.PayloadLen)
	if err != nil {
		return nil, nil, err
	}
	values, grads, reason := parsePayload(raw, h.Shape.NumElements())
	if reason != "" {
		return nil, nil, &RecordError{Offset: off, Reason: fmt.Sprintf("%s: %s", h.Key, reason)}
	}
	return values, grads, nil
}

// SkipPayload advances s past the payload of h without reading it.
func SkipPayload(s Stream, h Header) error {
	return s.Skip(h.PayloadLen)
}

func parsePayload(raw []byte, n int) (values, grads []float32, reason string) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return nil, nil, "payload has no line terminator"
	}
	first, rest := raw[:i], raw[i+1:]
	if len(rest) == 0 || rest[len(rest)-1] != '\n' || bytes.IndexByte(rest[:len(rest)-1], '\n') >= 0 {
		return nil, nil, "payload must hold exactly two lines"
	}
	second := rest[:len(rest)-1]

	values, reason = parseVector(string(first), n)
	if reason != "" {
		return nil, nil, "values: " + reason
	}
	grads, reason = parseVector(string(second), n)
	if reason != "" {
		return nil, nil, "gradients: " + reason
	}
	return values, grads, ""
}

// parseVector accepts bracketed ([a b c]) or plain (a b c) vector text.
func parseVector(line string, n int) ([]float32, string) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "[") {
		if !strings.HasSuffix(line, "]") {
			return nil, "unterminated vector"
		}
		line = line[1 : len(line)-1]
	}
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Sprintf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Sprintf("value %d: %v", i, err)
		}
		out[i] = float32(v)
	}
	return out, ""
}
