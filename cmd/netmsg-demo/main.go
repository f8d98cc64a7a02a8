// netmsg-demo wires two in-process Cores together over the loopback
// transport and drives their send/receive ticks from a gocron
// scheduler, the same NewJob/NewTask shape the reference task manager
// uses for its periodic services, rehomed from daily archive jobs to a
// sub-second network tick.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frostgate-games/netmsg"
	"github.com/frostgate-games/netmsg/examples/hooks/prommetrics"
	memtransport "github.com/frostgate-games/netmsg/examples/transport/mem"
	"github.com/frostgate-games/netmsg/internal/logging"
)

const (
	serverPeerID = 1
	clientPeerID = 2
)

type pingMessage struct {
	Sequence uint16
}

func (m *pingMessage) Serialize(w *netmsg.Writer) error {
	if !w.TryBeginWrite(2) {
		return fmt.Errorf("ping: payload does not fit the scratch ceiling")
	}
	return w.WriteUint16(m.Sequence)
}

func (m *pingMessage) Receive(r *netmsg.Reader, ctx *netmsg.NetworkContext) {
	if !r.TryBeginRead(2) {
		return
	}
	seq, err := r.ReadUint16()
	if err != nil {
		return
	}
	fmt.Printf("peer %d: received ping #%d from peer %d\n", 0, seq, ctx.SenderID)
}

func pingDescriptor() netmsg.MessageDescriptor {
	return netmsg.Describe("demo.ping", netmsg.Unbound(), func() netmsg.Message { return &pingMessage{} })
}

func main() {
	logger := logging.NewLogger(logging.DefaultConfig())
	transport := memtransport.New()

	metricsHook := netmsg.NewMetricsHook()
	reg := prometheus.NewRegistry()
	prommetrics.Register(reg)

	server, err := netmsg.NewCore(netmsg.CoreParams{
		Messages:  []netmsg.MessageDescriptor{pingDescriptor()},
		Transport: transport,
		Logger:    logger,
		Hooks:     []netmsg.Hook{metricsHook},
	})
	if err != nil {
		logger.Errorf("netmsg-demo: failed to build server core: %v", err)
		return
	}
	server.RegisterHook(prommetrics.New(func(tag uint8) string {
		name, _ := server.NameForTag(tag)
		return name
	}))
	client, err := netmsg.NewCore(netmsg.CoreParams{
		Messages:  []netmsg.MessageDescriptor{pingDescriptor()},
		Transport: transport,
		Logger:    logger,
	})
	if err != nil {
		logger.Errorf("netmsg-demo: failed to build client core: %v", err)
		return
	}
	defer server.Close()
	defer client.Close()

	transport.Route(serverPeerID, server.HandleIncomingData)
	transport.Route(clientPeerID, client.HandleIncomingData)
	server.ClientConnected(clientPeerID)
	client.ClientConnected(serverPeerID)

	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Errorf("netmsg-demo: failed to create scheduler: %v", err)
		return
	}

	var seq uint16
	if _, err := s.NewJob(
		gocron.DurationJob(200*time.Millisecond),
		gocron.NewTask(func() {
			seq++
			if err := client.SendMessage(&pingMessage{Sequence: seq}, netmsg.Unreliable, []uint64{serverPeerID}); err != nil {
				logger.Warnf("netmsg-demo: send failed: %v", err)
			}
			client.ProcessSendQueues()
			server.ProcessIncomingMessageQueue()
		}),
	); err != nil {
		logger.Errorf("netmsg-demo: failed to register ping job: %v", err)
		return
	}

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe("127.0.0.1:9477", nil); err != nil {
			logger.Warnf("netmsg-demo: metrics server stopped: %v", err)
		}
	}()

	s.Start()
	defer func() { _ = s.Shutdown() }()

	time.Sleep(2 * time.Second)
	snap := metricsHook.Snapshot()
	fmt.Printf("messages received: %d, bytes received: %d\n", snap.MessagesReceived, snap.BytesReceived)
}
