package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ItemProcessed("gold", true)
	m.ItemProcessed("gold", true)
	m.ItemProcessed("free", false)
	m.SummaryGenerated("gemini")
	m.SummaryGenerated("")
	m.OverlayWritten("gold")
	m.Delivery("telegram", true)
	m.Delivery("discord", false)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if metric.GetCounter() == nil {
				continue
			}
			key := f.GetName()
			for _, l := range metric.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			values[key] = metric.GetCounter().GetValue()
		}
	}

	assert.InDelta(t, 2, values["sportswatch_items_processed_total,success=true,tier=gold"], 0.001)
	assert.InDelta(t, 1, values["sportswatch_items_processed_total,success=false,tier=free"], 0.001)
	assert.InDelta(t, 1, values["sportswatch_summaries_total,provider=gemini"], 0.001)
	assert.InDelta(t, 1, values["sportswatch_summaries_total,provider=none"], 0.001)
	assert.InDelta(t, 1, values["sportswatch_overlays_total,tier=gold"], 0.001)
	assert.InDelta(t, 1, values["sportswatch_deliveries_total,channel=discord,success=false"], 0.001)
	assert.InDelta(t, 1, values["sportswatch_deliveries_total,channel=telegram,success=true"], 0.001)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Delivery("whatsapp", true)

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sportswatch_deliveries_total{channel="whatsapp",success="true"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
