package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPayload() Payload {
	return Payload{
		Name:      "Alice",
		Email:     "alice@example.com",
		Message:   "hello there friend",
		AccessKey: "key-123",
		Subject:   "New Contact Form Submission from Alice",
		FromName:  "Portfolio Contact Form",
	}
}

func TestSubmitSendsMultipartOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Alice", r.FormValue("name"))
		assert.Equal(t, "alice@example.com", r.FormValue("email"))
		assert.Equal(t, "hello there friend", r.FormValue("message"))
		assert.Equal(t, "key-123", r.FormValue("access_key"))
		assert.Equal(t, "New Contact Form Submission from Alice", r.FormValue("subject"))
		assert.Equal(t, "Portfolio Contact Form", r.FormValue("from_name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "Email sent"}`))
	}))
	defer srv.Close()

	out := NewClient(srv.URL, srv.Client(), nil).Submit(context.Background(), testPayload())

	assert.Equal(t, Succeeded("Alice"), out)
	assert.True(t, out.OK())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Outcome
	}{
		{"rejected with message", http.StatusOK, `{"success": false, "message": "quota exceeded"}`, Rejected("quota exceeded")},
		{"rejected without message", http.StatusOK, `{"success": false}`, Outcome{Kind: ApplicationFailure}},
		{"missing success flag", http.StatusOK, `{"message": "odd"}`, Rejected("odd")},
		{"http error", http.StatusInternalServerError, `{"success": false}`, Failed(FailureHTTP, 500)},
		{"rate limited", http.StatusTooManyRequests, ``, Failed(FailureHTTP, 429)},
		{"not json", http.StatusOK, `<html>oops</html>`, Failed(FailureUnknown, 200)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			out := NewClient(srv.URL, srv.Client(), nil).Submit(context.Background(), testPayload())
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	out := NewClient(url, nil, nil).Submit(context.Background(), testPayload())

	assert.Equal(t, TransportFailure, out.Kind)
	assert.Equal(t, FailureNetwork, out.Failure)
	assert.False(t, out.OK())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Succeeded("A").String())
	assert.Equal(t, "application_failure: nope", Rejected("nope").String())
	assert.Equal(t, "application_failure: "+DefaultRejection, Rejected("").String())
	assert.Equal(t, "transport_failure(http 502)", Failed(FailureHTTP, 502).String())
	assert.Equal(t, "transport_failure(network)", Failed(FailureNetwork, 0).String())
}
