// Package netmsg is the messaging core of a game-networking runtime:
// it marshals typed application messages to and from opaque byte
// batches addressed to remote peers, via a registry that maps message
// types to a compact wire tag, a zero-copy per-peer batching layer,
// and a hook pipeline that can observe or veto traffic in either
// direction.
//
// The public types below are aliases over the internal packages that
// actually implement them (internal/registry, internal/hook,
// internal/wire, internal/buffer, internal/interfaces) — the same
// split the teacher uses between its root package and
// internal/interfaces, so internal packages can share contracts
// without importing the root package and creating a cycle.
package netmsg

import (
	"sync"

	"github.com/frostgate-games/netmsg/internal/buffer"
	"github.com/frostgate-games/netmsg/internal/hook"
	"github.com/frostgate-games/netmsg/internal/interfaces"
	"github.com/frostgate-games/netmsg/internal/registry"
	"github.com/frostgate-games/netmsg/internal/wire"
)

// Writer is the fixed-ceiling append-only byte writer every message's
// Serialize method appends to (spec §4.2).
type Writer = buffer.Writer

// Reader is the cursor over a byte range every message's Receive
// method decodes from (spec §4.2).
type Reader = buffer.Reader

// OwnerHandle identifies who a piece of application state belongs to;
// see DefaultOwner and the registry's owner-binding filter (spec §3).
type OwnerHandle = registry.OwnerHandle

// DefaultOwner is the canonical owner type admitted by an Unbound
// message descriptor.
type DefaultOwner = registry.DefaultOwner

// OwnerBinding is a message descriptor's owner-binding annotation
// (spec §9 Design Notes): either Unbound() or BoundTo(kinds...).
type OwnerBinding = registry.OwnerBinding

// Unbound returns a binding admitted only by the canonical default
// owner.
func Unbound() OwnerBinding { return registry.Unbound() }

// BoundTo returns a binding admitted only by owners whose OwnerKind is
// one of kinds.
func BoundTo(kinds ...string) OwnerBinding { return registry.BoundTo(kinds...) }

// NetworkContext accompanies every dispatched message (spec §6.2).
type NetworkContext = registry.NetworkContext

// Message is the application message contract (spec §6.2): Serialize
// appends a payload to an outbound writer, Receive decodes one from an
// inbound reader.
type Message = registry.Message

// MessageDescriptor is the link-time registration record a message
// type supplies from its own init() (spec §9's "builder API").
type MessageDescriptor = registry.MessageDescriptor

// DeliveryClass is the opaque transport-level parameter from spec §3.
type DeliveryClass = wire.DeliveryClass

const (
	// Unreliable is the default, non-fragmented delivery class.
	Unreliable = wire.Unreliable
	// ReliableFragmentedSequenced is the only delivery class the core
	// itself distinguishes, raising the per-batch ceiling to 64000
	// bytes.
	ReliableFragmentedSequenced = wire.ReliableFragmentedSequenced
)

// Hook is the observer/veto contract from spec §4.5.
type Hook = hook.Hook

// BaseHook is a no-op embeddable Hook for callers that only care about
// a handful of the 8 lifecycle callbacks.
type BaseHook = hook.BaseHook

// Transport delivers a finished batch to a single peer (spec §6.3).
type Transport = interfaces.Transport

// Logger is the logging contract accepted by CoreParams.
type Logger = interfaces.Logger

var (
	registrationMu sync.Mutex
	registered     []MessageDescriptor
)

// RegisterMessage appends d to the process-wide set of admitted
// message descriptors. Message types call this from their own init(),
// the Go rendering of spec §9's "enumerate every concrete type
// reachable in the current program": a NewCore call that does not
// override CoreParams.Messages uses whatever has been registered by
// the time it runs, which requires the caller to have imported every
// message package it wants admitted.
func RegisterMessage(d MessageDescriptor) {
	registrationMu.Lock()
	defer registrationMu.Unlock()
	registered = append(registered, d)
}

// Describe is a small convenience wrapper for the common case of
// building a MessageDescriptor inline in an init() call.
func Describe(name string, binding OwnerBinding, new func() Message) MessageDescriptor {
	return MessageDescriptor{Name: name, Binding: binding, New: new}
}

func registeredMessages() []MessageDescriptor {
	registrationMu.Lock()
	defer registrationMu.Unlock()
	return append([]MessageDescriptor(nil), registered...)
}
