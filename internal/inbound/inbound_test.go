package inbound

import (
	"testing"

	"github.com/frostgate-games/netmsg/internal/buffer"
	"github.com/frostgate-games/netmsg/internal/hook"
	"github.com/frostgate-games/netmsg/internal/registry"
	"github.com/frostgate-games/netmsg/internal/wire"
)

type testLogger struct {
	warnings []string
	errors   []string
}

func (l *testLogger) Debugf(format string, args ...any) {}
func (l *testLogger) Infof(format string, args ...any)  {}
func (l *testLogger) Warnf(format string, args ...any)  { l.warnings = append(l.warnings, format) }
func (l *testLogger) Errorf(format string, args ...any) { l.errors = append(l.errors, format) }

type recordingMessage struct {
	received []string
	panics   bool
}

func (m *recordingMessage) Serialize(w *buffer.Writer) error { return nil }

func (m *recordingMessage) Receive(r *buffer.Reader, ctx *registry.NetworkContext) {
	if m.panics {
		panic("boom")
	}
	m.received = append(m.received, "received")
}

func buildRegistry(t *testing.T, handlers ...*recordingMessage) *registry.Registry {
	t.Helper()
	descs := make([]registry.MessageDescriptor, len(handlers))
	for i, h := range handlers {
		h := h
		descs[i] = registry.MessageDescriptor{
			Name:    string(rune('a' + i)),
			Binding: registry.Unbound(),
			New:     func() registry.Message { return h },
		}
	}
	reg, err := registry.Build(descs, registry.DefaultOwner{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return reg
}

func encodeBatch(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	w := buffer.NewWriter(256, 4096)
	if !w.TryBeginWrite(wire.BatchHeaderSize) {
		t.Fatal("reserve batch header")
	}
	if err := wire.WriteBatchHeader(w, wire.BatchHeader{Count: uint16(len(payloads))}); err != nil {
		t.Fatalf("WriteBatchHeader: %v", err)
	}
	for i, p := range payloads {
		if !w.TryBeginWrite(wire.MessageHeaderSize + len(p)) {
			t.Fatal("reserve message")
		}
		if err := wire.WriteMessageHeader(w, wire.NewMessageHeader(uint16(len(p)), uint8(i))); err != nil {
			t.Fatalf("WriteMessageHeader: %v", err)
		}
		if err := w.WriteBytes(p); err != nil {
			t.Fatalf("WriteBytes: %v", err)
		}
	}
	return append([]byte(nil), w.Bytes()...)
}

func TestHandleIncomingData_EnqueuesEachMessage(t *testing.T) {
	h1, h2 := &recordingMessage{}, &recordingMessage{}
	reg := buildRegistry(t, h1, h2)
	logger := &testLogger{}
	path := New(logger, hook.NewPipeline(), reg, registry.DefaultOwner{})

	data := encodeBatch(t, []byte("one"), []byte("two"))
	path.HandleIncomingData(7, data, 1.5)

	if path.PendingCount() != 2 {
		t.Fatalf("PendingCount() = %d, want 2", path.PendingCount())
	}
	path.ProcessIncomingMessageQueue()
	if len(h1.received) != 1 || len(h2.received) != 1 {
		t.Errorf("expected both handlers to receive exactly once, got h1=%v h2=%v", h1.received, h2.received)
	}
	if path.PendingCount() != 0 {
		t.Errorf("queue should be empty after ProcessIncomingMessageQueue")
	}
}

func TestHandleIncomingData_TruncatedBatchDiscardsRemainder(t *testing.T) {
	h1 := &recordingMessage{}
	reg := buildRegistry(t, h1)
	logger := &testLogger{}
	path := New(logger, hook.NewPipeline(), reg, registry.DefaultOwner{})

	full := encodeBatch(t, []byte("payload"))
	// Claim two messages in the header but only provide bytes for one.
	full[0] = 2
	path.HandleIncomingData(7, full, 0)

	if path.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1 (only the complete message)", path.PendingCount())
	}
	if len(logger.warnings) == 0 {
		t.Error("expected a warning for the truncated batch")
	}
}

func TestDispatch_UnknownTagIsLoggedAndSkipped(t *testing.T) {
	reg := buildRegistry(t)
	logger := &testLogger{}
	path := New(logger, hook.NewPipeline(), reg, registry.DefaultOwner{})

	data := encodeBatch(t, []byte("x"))
	path.HandleIncomingData(1, data, 0)
	path.ProcessIncomingMessageQueue()

	if len(logger.warnings) == 0 {
		t.Error("expected a warning for an unknown tag")
	}
}

func TestDispatch_HandlerPanicDoesNotStopQueue(t *testing.T) {
	panicking := &recordingMessage{panics: true}
	second := &recordingMessage{}
	reg := buildRegistry(t, panicking, second)
	logger := &testLogger{}
	path := New(logger, hook.NewPipeline(), reg, registry.DefaultOwner{})

	data := encodeBatch(t, []byte("a"), []byte("b"))
	path.HandleIncomingData(1, data, 0)
	path.ProcessIncomingMessageQueue()

	if len(second.received) != 1 {
		t.Error("second handler should still run after the first panics")
	}
	if len(logger.errors) == 0 {
		t.Error("expected the panic to be logged")
	}
	if path.PendingCount() != 0 {
		t.Error("queue should be empty after processing, even with a panicking handler")
	}
}

type vetoHook struct {
	hook.BaseHook
}

func (vetoHook) CanReceive(peerID uint64, tag uint8) bool { return false }

func TestDispatch_CanReceiveVetoReleasesReader(t *testing.T) {
	h1 := &recordingMessage{}
	reg := buildRegistry(t, h1)
	logger := &testLogger{}
	pipeline := hook.NewPipeline()
	pipeline.Register(vetoHook{})
	path := New(logger, pipeline, reg, registry.DefaultOwner{})

	data := encodeBatch(t, []byte("x"))
	path.HandleIncomingData(1, data, 0)
	path.ProcessIncomingMessageQueue()

	if len(h1.received) != 0 {
		t.Error("vetoed message should never reach the handler")
	}
}

func TestRelease_ReturnsUndispatchedReadersAndClearsQueue(t *testing.T) {
	h1 := &recordingMessage{}
	reg := buildRegistry(t, h1)
	logger := &testLogger{}
	path := New(logger, hook.NewPipeline(), reg, registry.DefaultOwner{})

	data := encodeBatch(t, []byte("one"), []byte("two"))
	path.HandleIncomingData(7, data, 0)
	if path.PendingCount() != 2 {
		t.Fatalf("PendingCount() = %d, want 2", path.PendingCount())
	}

	readers := make([]*buffer.Reader, len(path.pending))
	for i, e := range path.pending {
		readers[i] = e.reader
	}

	path.Release()

	if path.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0 after Release", path.PendingCount())
	}
	if len(h1.received) != 0 {
		t.Error("Release must not dispatch pending entries")
	}
	for i, r := range readers {
		if r.Remaining() != 0 {
			t.Errorf("reader %d was not released: Remaining() = %d, want 0", i, r.Remaining())
		}
	}
}
