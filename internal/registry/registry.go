// Package registry builds the dense type→tag mapping described in
// spec §4.1: every admitted application message type is sorted by
// name and assigned tags 0..N-1, with parallel tables for dispatch
// (tag→handler) and observability (tag→name) plus a reverse lookup
// (type→tag) used at send time.
//
// Go has no enumerable-type-universe reflection, so "enumerate every
// concrete type reachable in the current program" (spec §9) is
// rendered as a caller-supplied slice of MessageDescriptor, populated
// by each message type's init() calling RegisterMessage in the root
// package. Build only ever sees the already-accumulated slice.
package registry

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/frostgate-games/netmsg/internal/buffer"
	"github.com/frostgate-games/netmsg/internal/constants"
	"github.com/frostgate-games/netmsg/internal/wire"
)

// OwnerHandle identifies who a piece of application state belongs to.
// A nil OwnerHandle is the null owner. OwnerKind returns a stable
// string identity for the concrete owner type; DefaultOwner is the
// system's canonical "admissible default owner" (spec §3).
type OwnerHandle interface {
	OwnerKind() string
}

// DefaultOwner is the canonical owner type admitted by an unbound
// message descriptor.
type DefaultOwner struct{}

// OwnerKind implements OwnerHandle.
func (DefaultOwner) OwnerKind() string { return "default" }

func ownerKind(h OwnerHandle) string {
	if h == nil {
		return ""
	}
	return h.OwnerKind()
}

// OwnerBinding is the per-type tagged variant from spec §9 Design
// Notes: either "unbound, requires the default owner" or "bound to an
// explicit set of owner kinds".
type OwnerBinding struct {
	unbound bool
	kinds   map[string]struct{}
}

// Unbound returns a binding admitted only by the canonical default
// owner (or the null owner, which is treated as the default).
func Unbound() OwnerBinding {
	return OwnerBinding{unbound: true}
}

// BoundTo returns a binding admitted only by owners whose OwnerKind is
// one of kinds.
func BoundTo(kinds ...string) OwnerBinding {
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return OwnerBinding{kinds: set}
}

func (b OwnerBinding) admits(owner OwnerHandle) bool {
	k := ownerKind(owner)
	if b.unbound {
		return k == "" || k == "default"
	}
	if k == "" {
		_, nullAdmitted := b.kinds[""]
		return nullAdmitted
	}
	_, ok := b.kinds[k]
	return ok
}

// NetworkContext accompanies every dispatched message, per spec §6.2.
type NetworkContext struct {
	Owner     OwnerHandle
	SenderID  uint64
	Timestamp float32
	Header    wire.MessageHeader
}

// Message is the application message contract from spec §6.2: a
// Receive entrypoint invoked on dispatch and a Serialize operation
// invoked on send.
type Message interface {
	Serialize(w *buffer.Writer) error
	Receive(r *buffer.Reader, ctx *NetworkContext)
}

// MessageDescriptor is the link-time registration record a message
// type supplies from its init() (spec §9: "a builder API where each
// message type registers itself via an init-time call").
type MessageDescriptor struct {
	Name    string
	Binding OwnerBinding
	New     func() Message
}

// StructureError reports a descriptor that cannot be admitted because
// it does not satisfy the message contract — the Go analogue of spec
// §4.1's InvalidMessageStructure.
type StructureError struct {
	Name   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("registry: message %q: %s", e.Name, e.Reason)
}

// Registry is the frozen, post-construction tag assignment. It is
// immutable once Build returns and requires no locking to read.
type Registry struct {
	names    []string
	handlers []Message
	forward  map[reflect.Type]uint8
}

// Build filters descs by owner, sorts the admitted set by name (byte-
// ordinal, via plain string comparison), and assigns dense tags. It
// fails with a *StructureError wrapping the offending descriptor's
// name when any descriptor's New is nil (whether or not its binding
// admits owner) or an admitted descriptor's New produces a nil Message.
func Build(descs []MessageDescriptor, owner OwnerHandle) (*Registry, error) {
	admitted := make([]MessageDescriptor, 0, len(descs))
	for _, d := range descs {
		if d.New == nil {
			return nil, &StructureError{Name: d.Name, Reason: "missing Receive entrypoint (nil New)"}
		}
		if d.Binding.admits(owner) {
			admitted = append(admitted, d)
		}
	}

	sort.Slice(admitted, func(i, j int) bool {
		return admitted[i].Name < admitted[j].Name
	})

	if len(admitted) >= constants.MaxMessageTypes {
		return nil, &StructureError{Name: admitted[constants.MaxMessageTypes-1].Name, Reason: "exceeds the 255 distinct message type limit"}
	}

	r := &Registry{
		names:    make([]string, len(admitted)),
		handlers: make([]Message, len(admitted)),
		forward:  make(map[reflect.Type]uint8, len(admitted)),
	}

	for tag, d := range admitted {
		instance := d.New()
		if instance == nil {
			return nil, &StructureError{Name: d.Name, Reason: "New produced a nil Message"}
		}
		r.names[tag] = d.Name
		r.handlers[tag] = instance
		r.forward[reflect.TypeOf(instance)] = uint8(tag)
	}

	return r, nil
}

// Len returns the number of admitted message types, N.
func (r *Registry) Len() int {
	return len(r.handlers)
}

// Tag returns the dense tag assigned to m's concrete type, and
// whether m's type was admitted at all.
func (r *Registry) Tag(m Message) (uint8, bool) {
	tag, ok := r.forward[reflect.TypeOf(m)]
	return tag, ok
}

// Handler returns the bound handler instance for tag, for use at the
// inbound dispatch site. The second return is false when tag >= N.
func (r *Registry) Handler(tag uint8) (Message, bool) {
	if int(tag) >= len(r.handlers) {
		return nil, false
	}
	return r.handlers[tag], true
}

// NameForTag returns the fully qualified name registered for tag, used
// by hooks for observability. ok is false when tag >= N.
func (r *Registry) NameForTag(tag uint8) (string, bool) {
	if int(tag) >= len(r.names) {
		return "", false
	}
	return r.names[tag], true
}
