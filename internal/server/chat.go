package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sangkukbae/priority-matrix/internal/chat"
	"github.com/sangkukbae/priority-matrix/internal/metrics"
)

// RegisterChatRoutes wires the assistant endpoints. They register even
// when chat is disabled so the UI gets a clear status instead of a 404.
func RegisterChatRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App, rec metrics.Recorder) {
	if rec == nil {
		rec = metrics.Noop{}
	}

	Handle(mux, rr, "GET /api/chat/status", "Report assistant availability", "", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"enabled": app.Config.Chat.Enabled,
			"status":  chat.StatusUnavailable,
		}
		if app.Config.Chat.Enabled && app.Chat != nil {
			resp["model"] = app.Chat.Model()
			resp["status"] = app.Chat.Availability(r.Context())
		}
		writeJSON(w, 200, resp)
	})

	Handle(mux, rr, "POST /api/chat/stream", "Stream an assistant reply", `{"message":"what should I do first?"}`, func(w http.ResponseWriter, r *http.Request) {
		if !app.Config.Chat.Enabled || app.Chat == nil {
			writeErr(w, 503, "chat is disabled")
			return
		}

		var body struct {
			Message string         `json:"message"`
			History []chat.Message `json:"history"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		if strings.TrimSpace(body.Message) == "" {
			writeErr(w, 400, "message is required")
			return
		}

		cfg := app.Config.Chat
		taskCtx := chat.BuildTaskContext(app.Store.Tasks(), app.Store.Labels(), chat.Options{
			MaxTasks:            cfg.MaxTasks,
			IncludeDescriptions: cfg.IncludeDescriptions,
			IncludeLabels:       cfg.IncludeLabels == nil || *cfg.IncludeLabels,
		})

		messages := []chat.Message{{Role: "system", Content: chat.BuildSystemPrompt(taskCtx)}}
		messages = append(messages, chat.TrimHistory(body.History, cfg.HistoryLimit)...)
		messages = append(messages, chat.Message{Role: "user", Content: body.Message})

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeErr(w, 500, "streaming unsupported")
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(200)

		enc := json.NewEncoder(w)
		_, err := app.Chat.Stream(r.Context(), messages, func(delta string) {
			_ = enc.Encode(map[string]string{"delta": delta})
			flusher.Flush()
		})
		switch {
		case errors.Is(err, chat.ErrAborted):
			rec.ChatStream("aborted")
			app.Log.Info("chat stream aborted by client")
			return
		case err != nil:
			rec.ChatStream("error")
			app.Log.WithError(err).Warn("chat stream failed")
			_ = enc.Encode(map[string]string{"error": err.Error()})
			flusher.Flush()
			return
		}
		rec.ChatStream("ok")
		_ = enc.Encode(map[string]bool{"done": true})
		flusher.Flush()
	})
}
