package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordCommand(t *testing.T) {
	m := New()

	m.RecordCommand("sell", true, 10*time.Millisecond)
	m.RecordCommand("sell", false, time.Millisecond)
	m.RecordCommand("sell", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("sell", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("sell", statusError)))
}

func TestMetrics_RecordPersistence(t *testing.T) {
	m := New()

	m.RecordPersistence("save", true, 48)
	m.RecordPersistence("save", false, 1000)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceOpsTotal.WithLabelValues("save", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceOpsTotal.WithLabelValues("save", statusError)))
	assert.Equal(t, 48.0, testutil.ToFloat64(m.persistenceBytes.WithLabelValues("save")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.UpdateCatalogStats(3, 67, 14)

	assert.Equal(t, 3.0, testutil.ToFloat64(a.booksTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.booksTotal))
}

func TestMetrics_WriteText(t *testing.T) {
	m := New()
	m.UpdateCatalogStats(3, 67, 14)

	var out bytes.Buffer
	require.NoError(t, m.WriteText(&out))

	assert.Contains(t, out.String(), "bdsm_books_total 3")
	assert.Contains(t, out.String(), "bdsm_units_in_stock 67")
	assert.Contains(t, out.String(), "# HELP bdsm_units_sold")
}

func TestMetrics_Router(t *testing.T) {
	m := New()
	m.RecordCommand("ls", true, time.Millisecond)

	srv := httptest.NewServer(m.NewRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `bdsm_commands_total{command="ls",status="success"} 1`)
}
