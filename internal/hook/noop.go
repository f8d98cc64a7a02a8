package hook

import "github.com/frostgate-games/netmsg/internal/wire"

// BaseHook implements Hook with no-op bodies and CanSend/CanReceive
// returning true. Embed it in a concrete hook to override only the
// callbacks of interest, the way the teacher's metrics.Observer
// implementations leave uninteresting callbacks as cheap no-ops.
type BaseHook struct{}

func (BaseHook) OnBeforeReceiveBatch(peerID uint64, count, totalLen int) {}
func (BaseHook) OnAfterReceiveBatch(peerID uint64, count, totalLen int)  {}
func (BaseHook) OnBeforeReceiveMessage(peerID uint64, tag uint8)         {}
func (BaseHook) OnAfterReceiveMessage(peerID uint64, tag uint8)          {}
func (BaseHook) OnBeforeSendMessage(peerID uint64, tag uint8, delivery wire.DeliveryClass) {
}
func (BaseHook) OnAfterSendMessage(peerID uint64, tag uint8, totalBytes int) {}
func (BaseHook) OnBeforeSendBatch(peerID uint64, count int)                  {}
func (BaseHook) OnAfterSendBatch(peerID uint64, count, totalLen int)         {}

func (BaseHook) CanSend(peerID uint64, tag uint8, delivery wire.DeliveryClass) bool {
	return true
}

func (BaseHook) CanReceive(peerID uint64, tag uint8) bool {
	return true
}
