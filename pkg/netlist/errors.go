package netlist

import (
	"errors"
	"fmt"
)

var (
	// ErrBadIndex is returned by [Netlist.AddWire] when a pin handle does
	// not resolve to a live pin, either because it was never issued or
	// because its pin has since been removed.
	ErrBadIndex = errors.New("pin index points to a pin that doesn't exist")

	// ErrIdenticalPins is returned by [Netlist.AddWire] when both handles
	// name the same pin.
	ErrIdenticalPins = errors.New("pins a and b are identical")

	// ErrCompatibility is returned by [Netlist.AddWire] when the two pins
	// carry different signal kinds.
	ErrCompatibility = errors.New("pins on either side of the connection are incompatible")

	// ErrDirection is returned by [Netlist.AddWire] unless exactly one pin
	// is an input and the other an output.
	ErrDirection = errors.New("a wire must connect an input to an output")

	// ErrInputDriven is returned by [Netlist.AddWire] when the input already
	// has a driver. The existing wire must be removed first.
	ErrInputDriven = errors.New("input is already driven")

	// ErrUnknownModule is returned by [Netlist.AddPin] when the module
	// handle does not resolve.
	ErrUnknownModule = errors.New("unknown module")

	// ErrInvariant is returned by [Netlist.Validate] when the graph is
	// internally inconsistent. This indicates a bug, not a user error.
	ErrInvariant = errors.New("netlist invariant violated")
)

// ConnectionError describes why [Netlist.AddWire] rejected a connection.
// It unwraps to one of the connection sentinels, so callers can test it
// with errors.Is.
type ConnectionError struct {
	Reason error    // one of ErrBadIndex, ErrIdenticalPins, ErrCompatibility, ErrDirection, ErrInputDriven
	Pin    PinIndex // offending pin for ErrBadIndex and ErrInputDriven
	Kinds  [2]Kind  // kinds of both sides for ErrCompatibility
}

func (e *ConnectionError) Error() string {
	switch e.Reason {
	case ErrBadIndex:
		return fmt.Sprintf("the supplied pin index `%s` points to a pin that doesn't exist", e.Pin)
	case ErrCompatibility:
		return fmt.Sprintf("%v: %s and %s", e.Reason, e.Kinds[0], e.Kinds[1])
	case ErrInputDriven:
		return "the input is already driven, remove the existing connection first"
	}
	return e.Reason.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Reason }
