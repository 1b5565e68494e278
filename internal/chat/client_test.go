package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Availability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "gemma3:latest"}},
		})
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Model: "gemma3"})
	assert.Equal(t, StatusAvailable, c.Availability(context.Background()))

	other := NewClient(ClientOptions{BaseURL: srv.URL, Model: "llama3"})
	assert.Equal(t, StatusDownloadable, other.Availability(context.Background()))

	srv.Close()
	assert.Equal(t, StatusUnavailable, c.Availability(context.Background()))
}

func TestClient_StreamCollectsDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemma3", req.Model)
		assert.True(t, req.Stream)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		flusher := w.(http.Flusher)
		for _, delta := range []string{"You have ", "3 tasks."} {
			fmt.Fprintf(w, `{"message":{"content":%q},"done":false}`+"\n", delta)
			flusher.Flush()
		}
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Model: "gemma3"})

	var deltas []string
	full, err := c.Stream(context.Background(), []Message{
		{Role: "system", Content: "prompt"},
		{Role: "user", Content: "how many tasks?"},
	}, func(d string) { deltas = append(deltas, d) })

	require.NoError(t, err)
	assert.Equal(t, "You have 3 tasks.", full)
	assert.Equal(t, []string{"You have ", "3 tasks."}, deltas)
}

func TestClient_StreamModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"model not found"}`)
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Model: "gemma3"})
	_, err := c.Stream(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestClient_StreamNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of memory", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Model: "gemma3"})
	_, err := c.Stream(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestClient_StreamAborted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprintln(w, `{"message":{"content":"partial"},"done":false}`)
		flusher.Flush()
		// hold the stream open until the client gives up
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Model: "gemma3", Timeout: 5 * time.Second})
	// cancel only once the first delta has been delivered, so the
	// partial content is guaranteed to be accumulated
	partial, err := c.Stream(ctx, []Message{{Role: "user", Content: "hi"}}, func(string) { cancel() })
	require.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "partial", partial)
}

func TestClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(ClientOptions{Model: "gemma3"})
	assert.Equal(t, "http://localhost:11434", c.baseURL)
	assert.Equal(t, "gemma3", c.Model())

	trimmed := NewClient(ClientOptions{BaseURL: "http://host:1234/", Model: "m"})
	assert.Equal(t, "http://host:1234", trimmed.baseURL)
}
