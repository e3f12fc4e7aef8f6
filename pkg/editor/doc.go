// Package editor is the boundary between a netlist and an interactive
// front end.
//
// An [Editor] owns one netlist behind a mutex held for exactly one
// operation. Front ends never see handles: [Editor.Snapshot] returns a
// [Graph] whose modules, pins and wires carry small sequential ids, and
// every mutating method takes those ids back.
//
// # Snapshot Ids
//
// Each snapshot renumbers from zero: modules in arena order, pins module by
// module (inputs, then outputs), wires in arena order. The editor keeps the
// most recent numbering to resolve incoming ids. Because a snapshot and a
// later mutation are separate lock acquisitions, another caller may remove
// the entity in between; such ids fail with a BAD_INDEX coded error (see
// package errors) and the caller should take a fresh snapshot. Entities
// created after a snapshot have no id until the next one; [Editor.AddModule]
// returns the module's stable id instead, and [Editor.ModuleID] maps it to a
// snapshot id once one exists.
//
// # Poisoning
//
// If an operation panics while holding the lock, the editor is poisoned:
// the panic propagates to that caller and every later call returns a
// POISONED coded error.
package editor
