package netlist

import (
	"fmt"
	"strings"
)

// Kind is the signal kind carried by a pin.
type Kind int

const (
	// KindWire is a single-bit net.
	KindWire Kind = iota
	// KindInteger is an integer-valued signal.
	KindInteger
	// KindReal is a real-valued signal.
	KindReal
)

var kindTags = [...]string{
	KindWire:    "Wire",
	KindInteger: "Integer",
	KindReal:    "Real",
}

// Kinds returns every known signal kind in declaration order.
func Kinds() []Kind { return []Kind{KindWire, KindInteger, KindReal} }

// String returns the lowercase kind name ("wire", "integer", "real").
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return strings.ToLower(kindTags[k])
}

// Tag returns the serialized form of the kind ("Wire", "Integer", "Real").
func (k Kind) Tag() string {
	if !k.valid() {
		return ""
	}
	return kindTags[k]
}

// Compatible reports whether a pin of kind k may be wired to a pin of kind
// other. Only identical kinds are compatible; there are no casting rules.
func (k Kind) Compatible(other Kind) bool { return k == other }

func (k Kind) valid() bool { return k >= KindWire && k <= KindReal }

// MarshalText encodes the kind by its tag.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid pin kind %d", int(k))
	}
	return []byte(kindTags[k]), nil
}

// UnmarshalText decodes a kind tag, case-insensitively.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind parses a kind tag such as "Wire" or "integer".
func ParseKind(s string) (Kind, error) {
	for i, tag := range kindTags {
		if strings.EqualFold(s, tag) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pin kind %q", s)
}

// Direction is the fixed direction of a pin.
type Direction int

const (
	// Input pins are driven by at most one output.
	Input Direction = iota
	// Output pins drive any number of inputs.
	Output
)

// String returns "Input" or "Output".
func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if d != Input && d != Output {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes "Input" or "Output", case-insensitively.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection parses "input"/"in" or "output"/"out", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "input", "in":
		return Input, nil
	case "output", "out":
		return Output, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
