package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"sales-admin/internal/event"
	"sales-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreds is an in-memory CredentialSource.
type fakeCreds struct {
	mu    sync.Mutex
	token string
}

func (f *fakeCreds) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeCreds) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
}

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *fakeCreds, *event.Bus, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := &fakeCreds{token: token}
	bus := event.NewBus()
	client, err := New(server.URL, 5*time.Second, creds, bus)
	require.NoError(t, err)
	return client, creds, bus, server
}

func writeEnvelope(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	})
	client, _, _, _ := newTestClient(t, handler, "tok-abc")

	err := client.Get(context.Background(), "/auth/me", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request carries a correlation id")
}

func TestNoTokenMeansUnauthenticatedRequest(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	})
	client, _, _, _ := newTestClient(t, handler, "")

	err := client.Get(context.Background(), "/auth/login", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedEvictsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "token expirado"})
	})
	client, creds, bus, _ := newTestClient(t, handler, "tok-stale")

	evictions := 0
	bus.Subscribe(event.SessionExpired, func(event.Event) { evictions++ })

	err := client.Get(context.Background(), "/sales/getAllSales", nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	_, ok := creds.Token()
	assert.False(t, ok, "credentials must be purged on 401")
	assert.Equal(t, 1, evictions, "exactly one eviction event per 401")
}

func TestForbiddenDoesNotEvict(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, map[string]any{"success": false, "message": "sem permissão"})
	})
	client, creds, bus, _ := newTestClient(t, handler, "tok-abc")

	evictions := 0
	bus.Subscribe(event.SessionExpired, func(event.Event) { evictions++ })

	_, err := client.Post(context.Background(), "/auth/register", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.Zero(t, evictions, "403 is a local permission failure")
	_, ok := creds.Token()
	assert.True(t, ok, "403 leaves the session intact")
}

func TestApplicationFailureCarriesServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{"success": false, "message": "data inválida"})
	})
	client, _, _, _ := newTestClient(t, handler, "")

	_, err := client.Post(context.Background(), "/sales/createSale", map[string]string{}, nil)
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "data inválida", apiErr.Message)
}

func TestSuccessFalseOnOKStatusIsAnError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"success": false, "message": "nada feito"})
	})
	client, _, _, _ := newTestClient(t, handler, "")

	err := client.Get(context.Background(), "/sales/getAllSales", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "nada feito", Message(err, "fallback"))
}

func TestTransportFailureNormalizes(t *testing.T) {
	client, _, bus, server := newTestClient(t, http.NotFoundHandler(), "tok")
	server.Close()

	evictions := 0
	bus.Subscribe(event.SessionExpired, func(event.Event) { evictions++ })

	err := client.Get(context.Background(), "/sales/getAllSales", nil, nil)
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status, "no response means status 0")
	assert.NotEmpty(t, apiErr.Message)
	assert.Error(t, apiErr.Unwrap())
	assert.Zero(t, evictions, "a dead server is not a session eviction")
}

func TestMalformedBodyIsAGenericFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	})
	client, _, _, _ := newTestClient(t, handler, "")

	err := client.Get(context.Background(), "/sales/getAllSales", nil, nil)
	require.Error(t, err)
}

func TestGetPageDecodesItemsAndPagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("mes"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"idVenda": 1, "data": "2025-03-01", "totalDia": "150.00"},
				{"idVenda": 2, "data": "2025-03-02", "totalDia": "98.50"},
			},
			"pagination": map[string]any{"page": 1, "limit": 50, "total": 2, "totalPages": 1},
		})
	})
	client, _, _, _ := newTestClient(t, handler, "tok")

	var sales []models.Sale
	pagination, err := client.GetPage(context.Background(), "/sales/getAllSales", url.Values{"mes": {"3"}}, &sales)
	require.NoError(t, err)
	require.NotNil(t, pagination)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 50, Total: 2, TotalPages: 1}, *pagination)
	require.Len(t, sales, 2)
	assert.Equal(t, "150.00", sales[0].DayTotal)
}

func TestDownloadStreamsBody(t *testing.T) {
	const csv = "data,totalDia\n2025-03-01,150.00\n"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csv))
	})
	client, _, _, _ := newTestClient(t, handler, "tok")

	var buf bytes.Buffer
	err := client.Download(context.Background(), "/sales/exportSales", nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, csv, buf.String())
}

func TestDownloadErrorCarriesEnvelopeMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "falha ao exportar"})
	})
	client, _, _, _ := newTestClient(t, handler, "tok")

	var buf bytes.Buffer
	err := client.Download(context.Background(), "/sales/exportSales", nil, &buf)
	require.Error(t, err)
	assert.Equal(t, "falha ao exportar", Message(err, "fallback"))
	assert.Zero(t, buf.Len())
}
