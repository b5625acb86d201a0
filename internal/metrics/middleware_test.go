package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/projects/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := counterValue(t, RequestTotal.WithLabelValues(http.MethodGet, "/api/projects/{id}", "418"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}
	after := counterValue(t, RequestTotal.WithLabelValues(http.MethodGet, "/api/projects/{id}", "418"))
	require.Equal(t, before+2, after)
}

func TestObserveOperation(t *testing.T) {
	before := counterValue(t, OperationsTotal.WithLabelValues("test.op", "error"))
	ObserveOperation("test.op", http.ErrAbortHandler)
	require.Equal(t, before+1, counterValue(t, OperationsTotal.WithLabelValues("test.op", "error")))
}
