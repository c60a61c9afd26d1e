package datadog

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	b, err := NewBackend(Config{})
	assert.Error(t, err)
	assert.Nil(t, b)
}

func TestLabelsToTags(t *testing.T) {
	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t,
		[]string{"job:analytics", "status:success", "step:load"},
		labelsToTags(metrics.Labels{"step": "load", "job": "analytics", "status": "success"}),
	)
}

func TestZeroBackendIsSafe(t *testing.T) {
	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDurationSeconds, 1, nil)
	assert.NoError(t, b.Flush())
}

func TestBackend_SendsToAgent(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	b, err := NewBackend(Config{
		Addr:       pc.LocalAddr().String(),
		Namespace:  "analytics.",
		GlobalTags: []string{"env:test"},
	})
	require.NoError(t, err)

	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"kind": metrics.RowsLoaded})
	require.NoError(t, b.Flush())

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 8192)
	var got string
	for got == "" {
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		// The client may also emit its own telemetry packets.
		for _, line := range strings.Split(string(buf[:n]), "\n") {
			if strings.HasPrefix(line, "analytics."+metrics.RowsTotal+":") {
				got = line
			}
		}
	}

	assert.True(t, strings.HasPrefix(got, "analytics."+metrics.RowsTotal+":3|c"), got)
	assert.Contains(t, got, "env:test")
	assert.Contains(t, got, "kind:loaded")
}
