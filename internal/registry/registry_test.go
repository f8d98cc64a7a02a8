package registry

import (
	"testing"

	"github.com/frostgate-games/netmsg/internal/buffer"
)

type fakeOwner struct{ kind string }

func (f fakeOwner) OwnerKind() string { return f.kind }

type stubMessage struct{ name string }

func (s *stubMessage) Serialize(w *buffer.Writer) error { return nil }
func (s *stubMessage) Receive(r *buffer.Reader, ctx *NetworkContext) {}

type otherMessage struct{}

func (otherMessage) Serialize(w *buffer.Writer) error { return nil }
func (otherMessage) Receive(r *buffer.Reader, ctx *NetworkContext) {}

func descFor(name string, binding OwnerBinding) MessageDescriptor {
	return MessageDescriptor{
		Name:    name,
		Binding: binding,
		New:     func() Message { return &stubMessage{name: name} },
	}
}

func TestBuild_DenseTagAssignment(t *testing.T) {
	descs := []MessageDescriptor{
		descFor("zeta", Unbound()),
		descFor("alpha", Unbound()),
		descFor("mid", Unbound()),
	}
	reg, err := Build(descs, DefaultOwner{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reg.Len())
	}
	wantOrder := []string{"alpha", "mid", "zeta"}
	for tag, want := range wantOrder {
		name, ok := reg.NameForTag(uint8(tag))
		if !ok || name != want {
			t.Errorf("tag %d = %q, want %q", tag, name, want)
		}
	}
}

func TestBuild_StableAcrossIndependentBuilds(t *testing.T) {
	descs := []MessageDescriptor{
		descFor("beta", Unbound()),
		descFor("alpha", Unbound()),
	}
	reg1, err := Build(descs, DefaultOwner{})
	if err != nil {
		t.Fatalf("Build 1: %v", err)
	}
	reg2, err := Build(descs, DefaultOwner{})
	if err != nil {
		t.Fatalf("Build 2: %v", err)
	}
	for tag := uint8(0); int(tag) < reg1.Len(); tag++ {
		n1, _ := reg1.NameForTag(tag)
		n2, _ := reg2.NameForTag(tag)
		if n1 != n2 {
			t.Errorf("tag %d diverged: %q vs %q", tag, n1, n2)
		}
	}
}

func TestBuild_OwnerFiltering(t *testing.T) {
	descs := []MessageDescriptor{
		descFor("unbound-msg", Unbound()),
		descFor("bound-msg", BoundTo("player")),
	}
	reg, err := Build(descs, fakeOwner{kind: "player"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (unbound-msg should be rejected for a non-default owner)", reg.Len())
	}
	name, _ := reg.NameForTag(0)
	if name != "bound-msg" {
		t.Errorf("admitted message = %q, want bound-msg", name)
	}
}

func TestBuild_NilNewFails(t *testing.T) {
	descs := []MessageDescriptor{
		{Name: "broken", Binding: Unbound()},
	}
	if _, err := Build(descs, DefaultOwner{}); err == nil {
		t.Fatal("Build should fail when a descriptor's New is nil")
	}
}

func TestRegistry_TagLookupRoundTrip(t *testing.T) {
	descs := []MessageDescriptor{descFor("ping", Unbound())}
	reg, err := Build(descs, DefaultOwner{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	instance, ok := reg.Handler(0)
	if !ok {
		t.Fatal("Handler(0) should be present")
	}
	tag, ok := reg.Tag(instance)
	if !ok || tag != 0 {
		t.Errorf("Tag(handler) = %d, %v; want 0, true", tag, ok)
	}
	if _, ok := reg.Tag(otherMessage{}); ok {
		t.Error("Tag() should reject a message type never registered")
	}
}

func TestRegistry_HandlerOutOfRange(t *testing.T) {
	reg, err := Build(nil, DefaultOwner{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := reg.Handler(0); ok {
		t.Error("Handler(0) should fail on an empty registry")
	}
}
