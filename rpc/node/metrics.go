package node

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"time"
)

// nodeMetrics are the per remote node series, registered in the default
// VictoriaMetrics set and exposed by the serve command
type nodeMetrics struct {
	ok                *metrics.Counter
	processingErrors  *metrics.Counter
	communicationErrs *metrics.Counter
	timeouts          *metrics.Counter
	sendDuration      *metrics.Histogram
	connects          *metrics.Counter
	connectErrors     *metrics.Counter
	disconnects       *metrics.Counter
}

func newNodeMetrics(name string) *nodeMetrics {
	outcome := func(o string) *metrics.Counter {
		return metrics.GetOrCreateCounter(fmt.Sprintf(`dkvnode_commands_total{node=%q,outcome=%q}`, name, o))
	}
	return &nodeMetrics{
		ok:                outcome("ok"),
		processingErrors:  outcome("processing_error"),
		communicationErrs: outcome("communication_error"),
		timeouts:          outcome("timeout"),
		sendDuration:      metrics.GetOrCreateHistogram(fmt.Sprintf(`dkvnode_send_duration_seconds{node=%q}`, name)),
		connects:          metrics.GetOrCreateCounter(fmt.Sprintf(`dkvnode_connects_total{node=%q}`, name)),
		connectErrors:     metrics.GetOrCreateCounter(fmt.Sprintf(`dkvnode_connect_errors_total{node=%q}`, name)),
		disconnects:       metrics.GetOrCreateCounter(fmt.Sprintf(`dkvnode_disconnects_total{node=%q}`, name)),
	}
}

// observeSend records the outcome and duration of one Send
func (m *nodeMetrics) observeSend(start time.Time, err error) {
	m.sendDuration.UpdateDuration(start)

	var commErr *common.CommunicationError
	switch {
	case err == nil:
		m.ok.Inc()
	case common.IsProcessingError(err):
		m.processingErrors.Inc()
	case errors.As(err, &commErr) && commErr.IsTimeout():
		m.timeouts.Inc()
	default:
		m.communicationErrs.Inc()
	}
}
