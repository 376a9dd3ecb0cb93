package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

func gzipBytes(t *testing.T, p []byte) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(p)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return &buf
}

func gunzipBody(t *testing.T, res *http.Response) []byte {
	t.Helper()

	zr, err := gzip.NewReader(res.Body)
	require.NoError(t, err)
	defer zr.Close()

	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	return body
}

// echoServiceHandler декодирует услугу из запроса и возвращает её с идентификатором.
func echoServiceHandler(w http.ResponseWriter, r *http.Request) {
	var in model.ServiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(model.Service{ID: "svc-1", Title: in.Title, Description: in.Description, Price: in.Price})
}

func TestGzipMiddleware_CompressedServiceInput(t *testing.T) {
	in := model.ServiceInput{Title: "Haircut", Description: "30 minutes", Price: "$50"}
	payload, err := json.Marshal(in)
	require.NoError(t, err)

	tests := []struct {
		name           string
		compressBody   bool
		acceptEncoding string
	}{
		{name: "gzipped body, gzipped response", compressBody: true, acceptEncoding: "gzip"},
		{name: "gzipped body, plain response", compressBody: true},
		{name: "plain body, gzipped response", acceptEncoding: "gzip, deflate"},
		{name: "plain body, plain response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = bytes.NewReader(payload)
			if tt.compressBody {
				body = gzipBytes(t, payload)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/services", body)
			req.Header.Set("Content-Type", "application/json")
			if tt.compressBody {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			GzipMiddleware(http.HandlerFunc(echoServiceHandler)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			require.Equal(t, http.StatusCreated, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

			var raw []byte
			if tt.acceptEncoding != "" {
				assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
				raw = gunzipBody(t, res)
			} else {
				assert.Empty(t, res.Header.Get("Content-Encoding"))
				raw, err = io.ReadAll(res.Body)
				require.NoError(t, err)
			}

			var got model.Service
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, "svc-1", got.ID)
			assert.Equal(t, in.Title, got.Title)
			assert.Equal(t, in.Price, got.Price)
		})
	}
}

func TestGzipMiddleware_AppointmentList(t *testing.T) {
	appointments := make([]model.Appointment, 0, 50)
	for range 50 {
		appointments = append(appointments, model.Appointment{
			CustomerName:  "John Doe",
			CustomerPhone: "(555) 123-4567",
			Date:          "2026-11-02",
			Time:          "10:00",
			Status:        model.AppointmentStatusScheduled,
			PaymentStatus: model.PaymentStatusPending,
		})
	}
	plain, err := json.Marshal(appointments)
	require.NoError(t, err)

	h := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "12345")
		_, _ = w.Write(plain)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", res.Header.Get("Vary"))
	assert.Empty(t, res.Header.Get("Content-Length"))
	assert.Less(t, w.Body.Len(), len(plain))

	assert.JSONEq(t, string(plain), string(gunzipBody(t, res)))
}

func TestGzipMiddleware_NoContent(t *testing.T) {
	h := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/services/svc-1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Zero(t, w.Body.Len())
}

func TestGzipMiddleware_MalformedRequestBody(t *testing.T) {
	h := GzipMiddleware(http.HandlerFunc(echoServiceHandler))

	req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(`{"title":"not gzipped"}`))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
