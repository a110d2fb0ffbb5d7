package mailgun

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		From:    "Shows <shows@mg.example.com>",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "1 new show listed",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		domain  string
		wantErr bool
	}{
		{"valid", "key-123", "mg.example.com", false},
		{"missing key", "", "mg.example.com", true},
		{"missing domain", "key-123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.apiKey, tt.domain, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestSend_Success(t *testing.T) {
	// A trailing slash or an explicit /v3 on the base URL must not change the path
	for _, suffix := range []string{"", "/", "/v3"} {
		t.Run("base"+suffix, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v3/mg.example.com/messages", r.URL.Path)

				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "api", user)
				assert.Equal(t, "key-123", pass)

				assert.Equal(t, "Shows <shows@mg.example.com>", r.FormValue("from"))
				assert.Equal(t, []string{"a@example.com", "b@example.com"}, r.Form["to"])
				assert.Equal(t, "1 new show listed", r.FormValue("subject"))
				assert.Equal(t, "<p>hi</p>", r.FormValue("html"))
				assert.Equal(t, "hi", r.FormValue("text"))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{
					"id":      "<20250115.1@mg.example.com>",
					"message": "Queued. Thank you.",
				})
			}))
			defer server.Close()

			c, err := NewClient("key-123", "mg.example.com", server.URL+suffix)
			require.NoError(t, err)

			id, err := c.Send(context.Background(), testMessage())
			require.NoError(t, err)
			assert.Equal(t, "<20250115.1@mg.example.com>", id)
		})
	}
}

func TestSend_APIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, "Forbidden"},
		{"bad request", http.StatusBadRequest, `{"message": "'to' parameter is not a valid address"}`},
		{"server error", http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient("key", "mg.example.com", server.URL)
			require.NoError(t, err)

			_, err = c.Send(context.Background(), testMessage())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "error = %v, want *APIError", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Contains(t, err.Error(), "status")
		})
	}
}

func TestSend_APIErrorBodyIsBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", maxErrorBody*2)))
	}))
	defer server.Close()

	c, err := NewClient("key", "mg.example.com", server.URL)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), testMessage())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Len(t, apiErr.Body, maxErrorBody)
}

func TestSend_Validation(t *testing.T) {
	c, err := NewClient("key", "mg.example.com", "http://127.0.0.1:0")
	require.NoError(t, err)

	noFrom := testMessage()
	noFrom.From = ""
	_, err = c.Send(context.Background(), noFrom)
	assert.Error(t, err)

	noTo := testMessage()
	noTo.To = nil
	_, err = c.Send(context.Background(), noTo)
	assert.Error(t, err)

	noBody := testMessage()
	noBody.HTML, noBody.Text = "", ""
	_, err = c.Send(context.Background(), noBody)
	assert.Error(t, err)
}

func TestSend_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient("key", "mg.example.com", url)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), testMessage())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
