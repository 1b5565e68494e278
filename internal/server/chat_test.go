package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkukbae/priority-matrix/internal/chat"
	"github.com/sangkukbae/priority-matrix/internal/model"
)

func TestChatStream_EndToEnd(t *testing.T) {
	modelSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		for _, delta := range []string{"Start with ", "paying bills."} {
			fmt.Fprintf(w, `{"message":{"content":%q},"done":false}`+"\n", delta)
		}
		fmt.Fprintln(w, `{"done":true}`)
	}))
	defer modelSrv.Close()

	mux, app := newTestApp(t)
	app.Config.Chat.Enabled = true
	app.Chat = chat.NewClient(chat.ClientOptions{BaseURL: modelSrv.URL, Model: "gemma3", Logger: app.Log})

	app.Store.AddTask(model.Task{Title: "pay bills", Quadrant: model.QuadrantDo})

	rec := doJSON(t, mux, "POST", "/api/chat/stream", `{"message":"what first?","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/x-ndjson; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `{"delta":"Start with "}`)
	assert.Contains(t, body, `{"delta":"paying bills."}`)
	assert.True(t, strings.Contains(body, `{"done":true}`))
}

func TestChatStream_RequiresMessage(t *testing.T) {
	mux, app := newTestApp(t)
	app.Config.Chat.Enabled = true
	app.Chat = chat.NewClient(chat.ClientOptions{Model: "gemma3"})

	rec := doJSON(t, mux, "POST", "/api/chat/stream", `{"message":"  "}`)
	assert.Equal(t, 400, rec.Code)
}

func TestChatStream_ModelFailure(t *testing.T) {
	modelSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"model not loaded"}`)
	}))
	defer modelSrv.Close()

	mux, app := newTestApp(t)
	app.Config.Chat.Enabled = true
	app.Chat = chat.NewClient(chat.ClientOptions{BaseURL: modelSrv.URL, Model: "gemma3", Logger: app.Log})

	rec := doJSON(t, mux, "POST", "/api/chat/stream", `{"message":"hi"}`)
	require.Equal(t, 200, rec.Code) // headers already sent; error arrives in-stream
	assert.Contains(t, rec.Body.String(), "model not loaded")
}
