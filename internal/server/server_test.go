package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/pricing"
	"github.com/orthoprice/orthoprice/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.OpenLocal(filepath.Join(t.TempDir(), "server.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	srv := httptest.NewServer(New(st, pricing.DefaultRates(), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_MetricsCountRequests(t *testing.T) {
	srv := newTestServer(t)

	_, err := http.Get(srv.URL + "/pacientes")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "orthoprice_http_requests_total")
	assert.Contains(t, string(body), `route="/pacientes"`)
}

// The server is a drop-in backend for the remote strategy: the whole
// CRUD surface must round-trip through it unchanged.
func TestServer_RemoteStrategyRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	remote := store.NewRemote(srv.URL, nil)
	ctx := context.Background()

	patients, err := remote.Patients().List(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 3, "server seeds the same demo data")

	created, err := remote.Patients().Create(ctx, clinic.Fields{"name": "Carla", "age": 61, "loyalty": 120})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := remote.Patients().Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)

	updated, err := remote.Patients().Update(ctx, created.ID, clinic.Fields{"name": "Carla Dias", "age": 62})
	require.NoError(t, err)
	assert.Equal(t, "Carla Dias", updated.Name)
	assert.Equal(t, 0, updated.Loyalty, "update replaces the whole record")

	require.NoError(t, remote.Patients().Delete(ctx, created.ID))
	gone, err := remote.Patients().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestServer_RemoteProcedureEnrichmentAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	remote := store.NewRemote(srv.URL, nil)

	e, err := remote.Procedures().Get(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Len(t, e.Resolved, 2)
	require.NotNil(t, e.Resolved[0].Material)
	assert.Equal(t, "Anestésico", e.Resolved[0].Material.Name)
}

func TestServer_GetAbsentIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/materiais/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CreateRejectsInvalidPayload(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/pacientes", "application/json",
		strings.NewReader(`{"idade": 30}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "name is required")
}

func TestServer_UpdateAbsentIs404(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/pacientes/999",
		strings.NewReader(`{"nome_paciente": "X", "idade": 30}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_DeleteAbsentIs404(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/procedimentos/999", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_PriceQuote(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/procedimentos/1/preco")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var q struct {
		Materials float64 `json:"materials"`
		Labor     float64 `json:"labor"`
		Total     float64 `json:"total"`
		Details   string  `json:"detalhamento"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&q))

	// 15.50 x 2 + 85.00, plus 45 minutes at the default hourly rate.
	assert.InDelta(t, 116.0, q.Materials, 1e-9)
	assert.InDelta(t, 75.0, q.Labor, 1e-9)
	assert.InDelta(t, 191.0, q.Total, 1e-9)
	assert.Contains(t, q.Details, "VALOR FINAL: R$ 191,00")
}

func TestServer_PriceQuoteAbsentIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/procedimentos/999/preco")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
