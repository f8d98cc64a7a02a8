package netmsg

import (
	"sync/atomic"

	"github.com/frostgate-games/netmsg/internal/hook"
)

// MetricsHook is a built-in Hook that feeds an atomics-based Metrics
// struct from the lifecycle callbacks — the out-of-scope "metric
// counters" collaborator (spec §1), rendered as an ordinary Hook
// instead of a bespoke Observer interface. Register it first in a
// Core's hook list to see every batch and message that passes through.
type MetricsHook struct {
	hook.BaseHook
	Metrics
}

// NewMetricsHook returns a ready-to-register MetricsHook with all
// counters at zero.
func NewMetricsHook() *MetricsHook {
	return &MetricsHook{}
}

// Metrics tracks message-core traffic counters. All fields are safe
// for concurrent reads; the hook itself is only ever driven by the
// core's single-threaded entry points.
type Metrics struct {
	MessagesReceived atomic.Uint64
	BatchesReceived  atomic.Uint64
	BytesReceived    atomic.Uint64

	MessagesSent atomic.Uint64
	BatchesSent  atomic.Uint64
	BytesSent    atomic.Uint64
}

func (h *MetricsHook) OnBeforeReceiveBatch(peerID uint64, count, totalLen int) {
	h.BatchesReceived.Add(1)
	h.BytesReceived.Add(uint64(totalLen))
}

func (h *MetricsHook) OnAfterReceiveMessage(peerID uint64, tag uint8) {
	h.MessagesReceived.Add(1)
}

func (h *MetricsHook) OnAfterSendMessage(peerID uint64, tag uint8, totalBytes int) {
	h.MessagesSent.Add(1)
	h.BytesSent.Add(uint64(totalBytes))
}

func (h *MetricsHook) OnAfterSendBatch(peerID uint64, count, totalLen int) {
	h.BatchesSent.Add(1)
}

// MetricsSnapshot is a point-in-time, non-atomic copy of Metrics for
// reporting (e.g. to the examples/hooks/prommetrics demo, or to a
// JSON status endpoint).
type MetricsSnapshot struct {
	MessagesReceived uint64
	BatchesReceived  uint64
	BytesReceived    uint64
	MessagesSent     uint64
	BatchesSent      uint64
	BytesSent        uint64
}

// Snapshot reads every counter into a MetricsSnapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		MessagesReceived: m.MessagesReceived.Load(),
		BatchesReceived:  m.BatchesReceived.Load(),
		BytesReceived:    m.BytesReceived.Load(),
		MessagesSent:     m.MessagesSent.Load(),
		BatchesSent:      m.BatchesSent.Load(),
		BytesSent:        m.BytesSent.Load(),
	}
}
