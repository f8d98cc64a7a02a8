package netmsg

import "sync"

// MockTransport is a Transport test double that records every Send
// call instead of touching a socket, for verifying what a Core would
// have put on the wire without standing up a real transport.
type MockTransport struct {
	mu      sync.Mutex
	sent    []SentBatch
	failFor map[uint64]error
}

// SentBatch is one recorded Send call.
type SentBatch struct {
	PeerID   uint64
	Delivery uint8
	Payload  []byte
}

// NewMockTransport returns an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{failFor: make(map[uint64]error)}
}

// Send implements Transport, recording the call and returning the
// error previously registered for peerID via FailFor, if any.
func (t *MockTransport) Send(peerID uint64, delivery uint8, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, SentBatch{PeerID: peerID, Delivery: delivery, Payload: append([]byte(nil), payload...)})
	return t.failFor[peerID]
}

// FailFor makes subsequent Send calls addressed to peerID return err,
// for exercising ProcessSendQueues' transport-failure logging path.
func (t *MockTransport) FailFor(peerID uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failFor[peerID] = err
}

// Sent returns every batch recorded so far, in send order.
func (t *MockTransport) Sent() []SentBatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SentBatch(nil), t.sent...)
}

// Reset discards every recorded batch.
func (t *MockTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
}
