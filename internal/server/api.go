package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sangkukbae/priority-matrix/internal/chat"
	"github.com/sangkukbae/priority-matrix/internal/config"
	"github.com/sangkukbae/priority-matrix/internal/model"
	"github.com/sangkukbae/priority-matrix/internal/store"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// App holds what the handlers depend on.
type App struct {
	Store  *store.Store
	Config *config.Config
	Chat   *chat.Client
	Log    *logrus.Logger

	BootNow time.Time
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// validateTaskFields checks the title/description constraints shared by
// create and update. An empty title is only an error when required.
func validateTaskFields(title, description *string, titleRequired bool) (string, bool) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" && titleRequired {
			return "title is required", false
		}
		if len([]rune(trimmed)) > maxTitleLen {
			return "title exceeds 100 characters", false
		}
	} else if titleRequired {
		return "title is required", false
	}
	if description != nil && len([]rune(*description)) > maxDescriptionLen {
		return "description exceeds 500 characters", false
	}
	return "", true
}

type archivedGroups struct {
	Last7Days  []model.Task `json:"last7Days"`
	Last30Days []model.Task `json:"last30Days"`
	Older      []model.Task `json:"older"`
}

func groupArchived(tasks []model.Task, now time.Time) archivedGroups {
	g := archivedGroups{
		Last7Days:  []model.Task{},
		Last30Days: []model.Task{},
		Older:      []model.Task{},
	}
	week := now.AddDate(0, 0, -7)
	month := now.AddDate(0, 0, -30)
	for _, t := range tasks {
		switch {
		case t.ArchivedAt == nil:
			g.Older = append(g.Older, t)
		case t.ArchivedAt.After(week):
			g.Last7Days = append(g.Last7Days, t)
		case t.ArchivedAt.After(month):
			g.Last30Days = append(g.Last30Days, t)
		default:
			g.Older = append(g.Older, t)
		}
	}
	return g
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	st := app.Store

	Handle(mux, rr, "GET /api/tasks", "List tasks, optionally for one quadrant", "", func(w http.ResponseWriter, r *http.Request) {
		if qs := r.URL.Query().Get("quadrant"); qs != "" {
			q := model.Quadrant(qs)
			if !q.Valid() {
				writeErr(w, 400, "unknown quadrant")
				return
			}
			writeJSON(w, 200, st.TasksByQuadrant(q))
			return
		}
		writeJSON(w, 200, st.Tasks())
	})

	Handle(mux, rr, "POST /api/tasks", "Create a task", `{"title":"pay bills","quadrant":"DO","priority":"high"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       string                `json:"title"`
			Description string                `json:"description"`
			Quadrant    model.Quadrant        `json:"quadrant"`
			Priority    model.Priority        `json:"priority"`
			Labels      []string              `json:"labels"`
			DueDate     *string               `json:"dueDate"`
			Checklist   []model.ChecklistItem `json:"checklist"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		if msg, ok := validateTaskFields(&body.Title, &body.Description, true); !ok {
			writeErr(w, 400, msg)
			return
		}
		if !body.Quadrant.Valid() {
			writeErr(w, 400, "unknown quadrant")
			return
		}
		if body.Priority != "" && !body.Priority.Valid() {
			writeErr(w, 400, "unknown priority")
			return
		}

		t := st.AddTask(model.Task{
			Title:       strings.TrimSpace(body.Title),
			Description: body.Description,
			Quadrant:    body.Quadrant,
			Priority:    body.Priority,
			Labels:      body.Labels,
			DueDate:     body.DueDate,
			Checklist:   body.Checklist,
		})
		writeJSON(w, 201, t)
	})

	Handle(mux, rr, "DELETE /api/tasks", "Delete every task and reset labels", "", func(w http.ResponseWriter, r *http.Request) {
		st.ClearAllTasks()
		w.WriteHeader(204)
	})

	Handle(mux, rr, "GET /api/tasks/stats", "Count non-archived tasks per quadrant", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, st.TaskStats())
	})

	Handle(mux, rr, "GET /api/tasks/archived", "List archived tasks grouped by age", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, groupArchived(st.ArchivedTasks(), time.Now().UTC()))
	})

	Handle(mux, rr, "POST /api/tasks/reorder", "Move a task within its quadrant", `{"quadrant":"DO","activeId":"task_a","overId":"task_b"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Quadrant model.Quadrant `json:"quadrant"`
			ActiveID string         `json:"activeId"`
			OverID   string         `json:"overId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		if !body.Quadrant.Valid() {
			writeErr(w, 400, "unknown quadrant")
			return
		}
		if body.ActiveID == "" || body.OverID == "" {
			writeErr(w, 400, "activeId and overId are required")
			return
		}
		st.ReorderTasks(body.Quadrant, body.ActiveID, body.OverID)
		writeJSON(w, 200, st.TasksByQuadrant(body.Quadrant))
	})

	Handle(mux, rr, "GET /api/tasks/{id}", "Fetch one task", "", func(w http.ResponseWriter, r *http.Request) {
		t, ok := st.TaskByID(r.PathValue("id"))
		if !ok {
			writeErr(w, 404, "task not found")
			return
		}
		writeJSON(w, 200, t)
	})

	Handle(mux, rr, "PATCH /api/tasks/{id}", "Update task fields", `{"title":"pay bills","priority":"medium"}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := st.TaskByID(id); !ok {
			writeErr(w, 404, "task not found")
			return
		}
		var patch store.TaskPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		if msg, ok := validateTaskFields(patch.Title, patch.Description, false); !ok {
			writeErr(w, 400, msg)
			return
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			writeErr(w, 400, "title cannot be empty")
			return
		}
		if patch.Quadrant != nil && !patch.Quadrant.Valid() {
			writeErr(w, 400, "unknown quadrant")
			return
		}
		if patch.Priority != nil && !patch.Priority.Valid() {
			writeErr(w, 400, "unknown priority")
			return
		}
		st.UpdateTask(id, patch)
		t, _ := st.TaskByID(id)
		writeJSON(w, 200, t)
	})

	Handle(mux, rr, "DELETE /api/tasks/{id}", "Delete a task permanently", "", func(w http.ResponseWriter, r *http.Request) {
		if !st.PermanentlyDeleteTask(r.PathValue("id")) {
			writeErr(w, 404, "task not found")
			return
		}
		w.WriteHeader(204)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/move", "Move a task to another quadrant", `{"quadrant":"PLAN"}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var body struct {
			Quadrant model.Quadrant `json:"quadrant"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		if !body.Quadrant.Valid() {
			writeErr(w, 400, "unknown quadrant")
			return
		}
		if _, ok := st.TaskByID(id); !ok {
			writeErr(w, 404, "task not found")
			return
		}
		st.MoveTask(id, body.Quadrant)
		t, _ := st.TaskByID(id)
		writeJSON(w, 200, t)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/toggle", "Toggle task completion", "", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := st.TaskByID(id); !ok {
			writeErr(w, 404, "task not found")
			return
		}
		st.ToggleComplete(id)
		t, _ := st.TaskByID(id)
		writeJSON(w, 200, t)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/archive", "Archive a task", "", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := st.TaskByID(id); !ok {
			writeErr(w, 404, "task not found")
			return
		}
		st.ArchiveTask(id)
		t, _ := st.TaskByID(id)
		writeJSON(w, 200, t)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/restore", "Restore an archived task", "", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := st.TaskByID(id); !ok {
			writeErr(w, 404, "task not found")
			return
		}
		st.RestoreTask(id)
		t, _ := st.TaskByID(id)
		writeJSON(w, 200, t)
	})

	Handle(mux, rr, "GET /api/labels", "List labels", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, st.Labels())
	})

	Handle(mux, rr, "POST /api/labels", "Create a label", `{"name":"work","color":"#0079BF"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		if strings.TrimSpace(body.Color) == "" {
			writeErr(w, 400, "color is required")
			return
		}
		l := st.AddLabel(model.Label{Name: strings.TrimSpace(body.Name), Color: body.Color})
		writeJSON(w, 201, l)
	})

	Handle(mux, rr, "PATCH /api/labels/{id}", "Update a label", `{"name":"home"}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := st.LabelByID(id); !ok {
			writeErr(w, 404, "label not found")
			return
		}
		var patch store.LabelPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeErr(w, 400, "invalid json body")
			return
		}
		st.UpdateLabel(id, patch)
		l, _ := st.LabelByID(id)
		writeJSON(w, 200, l)
	})

	Handle(mux, rr, "DELETE /api/labels/{id}", "Delete a label and detach it from tasks", "", func(w http.ResponseWriter, r *http.Request) {
		if !st.DeleteLabel(r.PathValue("id")) {
			writeErr(w, 404, "label not found")
			return
		}
		w.WriteHeader(204)
	})

	Handle(mux, rr, "GET /api/routes", "List registered API routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, rr.List())
	})

	Handle(mux, rr, "GET /api/config", "Show the effective configuration", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(app.Config); err != nil {
			writeErr(w, 500, err.Error())
		}
	})
}
