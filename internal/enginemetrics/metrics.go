package enginemetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics collects engine activity counters on a dedicated
// registry so embedders can expose them next to their own collectors.
type PrometheusMetrics struct {
	Registry              *prometheus.Registry
	MessageDelivered      *prometheus.CounterVec
	MessageRejected       *prometheus.CounterVec
	PacketSentCounter     *prometheus.CounterVec
	PacketReceivedCounter *prometheus.CounterVec
	PacketAckedCounter    *prometheus.CounterVec
	PacketTimedOutCounter *prometheus.CounterVec
	ClientUpdateCounter   *prometheus.CounterVec
	LatestClientHeight    *prometheus.GaugeVec
}

func (m *PrometheusMetrics) IncMessageDelivered(chain, msgType string) {
	m.MessageDelivered.WithLabelValues(chain, msgType).Inc()
}

func (m *PrometheusMetrics) IncMessageRejected(chain, msgType string) {
	m.MessageRejected.WithLabelValues(chain, msgType).Inc()
}

func (m *PrometheusMetrics) IncPacketSent(chain, channel, port string) {
	m.PacketSentCounter.WithLabelValues(chain, channel, port).Inc()
}

func (m *PrometheusMetrics) IncPacketReceived(chain, channel, port string) {
	m.PacketReceivedCounter.WithLabelValues(chain, channel, port).Inc()
}

func (m *PrometheusMetrics) IncPacketAcked(chain, channel, port string) {
	m.PacketAckedCounter.WithLabelValues(chain, channel, port).Inc()
}

func (m *PrometheusMetrics) IncPacketTimedOut(chain, channel, port string) {
	m.PacketTimedOutCounter.WithLabelValues(chain, channel, port).Inc()
}

func (m *PrometheusMetrics) IncClientUpdate(chain, clientID string) {
	m.ClientUpdateCounter.WithLabelValues(chain, clientID).Inc()
}

func (m *PrometheusMetrics) SetLatestClientHeight(chain, clientID string, height uint64) {
	m.LatestClientHeight.WithLabelValues(chain, clientID).Set(float64(height))
}

func NewPrometheusMetrics() *PrometheusMetrics {
	msgLabels := []string{"chain", "type"}
	packetLabels := []string{"chain", "channel", "port"}
	clientLabels := []string{"chain", "client_id"}
	registry := prometheus.NewRegistry()
	registerer := promauto.With(registry)
	return &PrometheusMetrics{
		Registry: registry,
		MessageDelivered: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_messages_delivered",
			Help: "The total number of messages delivered successfully",
		}, msgLabels),
		MessageRejected: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_messages_rejected",
			Help: "The total number of messages rejected during validation",
		}, msgLabels),
		PacketSentCounter: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_packets_sent",
			Help: "The total number of packets committed for sending",
		}, packetLabels),
		PacketReceivedCounter: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_packets_received",
			Help: "The total number of packets received",
		}, packetLabels),
		PacketAckedCounter: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_packets_acknowledged",
			Help: "The total number of packets acknowledged",
		}, packetLabels),
		PacketTimedOutCounter: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_packets_timed_out",
			Help: "The total number of packets timed out",
		}, packetLabels),
		ClientUpdateCounter: registerer.NewCounterVec(prometheus.CounterOpts{
			Name: "ibc_engine_client_updates",
			Help: "The total number of client updates applied",
		}, clientLabels),
		LatestClientHeight: registerer.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ibc_engine_client_latest_height",
			Help: "The latest verified height of each tracked client",
		}, clientLabels),
	}
}
