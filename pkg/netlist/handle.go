package netlist

import "github.com/matzehuels/casperflow/pkg/arena"

// ModuleIndex is a stable handle to a module in a [Netlist].
type ModuleIndex arena.Index

// PinIndex is a stable handle to a pin in a [Netlist].
type PinIndex arena.Index

// WireIndex is a stable handle to a wire in a [Netlist].
type WireIndex arena.Index

func (i ModuleIndex) String() string { return arena.Index(i).String() }
func (i PinIndex) String() string    { return arena.Index(i).String() }
func (i WireIndex) String() string   { return arena.Index(i).String() }
