// Package chat provides the optional assistant: a prompt builder that
// summarizes the current board and a streaming client for a local
// Ollama-compatible model server.
package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sangkukbae/priority-matrix/internal/model"
)

const systemPromptTemplate = `You are the AI assistant of the Priority Matrix task management app.

## Role
- Answer questions about the user's tasks accurately
- Ground every answer in the current task list provided below
- Offer advice and suggestions about task management

## Eisenhower matrix quadrants
- Do (DO): urgent and important tasks - handle immediately
- Plan (PLAN): important but not urgent tasks - schedule them
- Delegate (DELEGATE): urgent but not important tasks - hand them off
- Delete (DELETE): neither urgent nor important tasks - consider removing

## Priority levels
- high: handle before anything else
- medium: handle at the right time
- low: handle when there is slack
- none: no priority set

## Guidelines
- Answer questions about tasks using only the real data provided below
- If there are no tasks, say so clearly
- Keep answers short and friendly
- You cannot add, edit, or delete tasks yourself; point the user to the UI instead

## Current tasks
{TASK_CONTEXT}`

const maxHistoryChars = 8000

// Options controls how much of the board goes into the prompt.
type Options struct {
	MaxTasks            int
	IncludeDescriptions bool
	IncludeLabels       bool
}

func (o Options) normalized() Options {
	if o.MaxTasks <= 0 {
		o.MaxTasks = 50
	}
	return o
}

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)
var spaceRe = regexp.MustCompile(`\s+`)

func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(htmlTagRe.ReplaceAllString(s, " "), " "))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + "..."
}

func formatDueDate(due *string) string {
	if due == nil {
		return ""
	}
	if i := strings.Index(*due, "T"); i >= 0 {
		return (*due)[:i]
	}
	return *due
}

func resolveLabelNames(task model.Task, byID map[string]model.Label) []string {
	var names []string
	seen := map[string]bool{}
	for _, id := range task.Labels {
		lbl, ok := byID[id]
		if !ok {
			continue
		}
		name := strings.TrimSpace(lbl.Name)
		if name == "" {
			name = lbl.Color
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func formatTaskLine(task model.Task, byID map[string]model.Label, opts Options) string {
	priority := task.Priority
	if !priority.Valid() {
		priority = model.PriorityNone
	}
	parts := []string{fmt.Sprintf("priority: %s", priority)}

	if due := formatDueDate(task.DueDate); due != "" {
		parts = append(parts, fmt.Sprintf("due: %s", due))
	}
	if opts.IncludeLabels {
		if names := resolveLabelNames(task, byID); len(names) > 0 {
			parts = append(parts, fmt.Sprintf("labels: %s", strings.Join(names, ", ")))
		}
	}
	if opts.IncludeDescriptions {
		if desc := stripHTML(task.Description); desc != "" {
			parts = append(parts, fmt.Sprintf("description: %s", truncate(desc, 120)))
		}
	}

	suffix := ""
	if task.Completed {
		suffix = " [done]"
	}
	return fmt.Sprintf("%q - %s%s", truncate(task.Title, 50), strings.Join(parts, ", "), suffix)
}

// BuildTaskContext renders the board as a quadrant-grouped text summary
// suitable for a model prompt. Tasks beyond opts.MaxTasks are counted
// but not listed.
func BuildTaskContext(tasks []model.Task, labels []model.Label, opts Options) string {
	if len(tasks) == 0 {
		return "No tasks have been created yet."
	}
	opts = opts.normalized()

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	byID := make(map[string]model.Label, len(labels))
	for _, l := range labels {
		byID[l.ID] = l
	}

	quadrantRank := map[model.Quadrant]int{}
	for i, q := range model.Quadrants {
		quadrantRank[q] = i
	}
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessForContext(sorted[i], sorted[j], quadrantRank)
	})

	visible := sorted
	if len(visible) > opts.MaxTasks {
		visible = visible[:opts.MaxTasks]
	}
	hidden := len(tasks) - len(visible)

	countsByQuadrant := map[model.Quadrant]int{}
	for _, t := range tasks {
		countsByQuadrant[t.Quadrant]++
	}
	visibleByQuadrant := map[model.Quadrant][]model.Task{}
	for _, t := range visible {
		visibleByQuadrant[t.Quadrant] = append(visibleByQuadrant[t.Quadrant], t)
	}

	lines := []string{fmt.Sprintf("Total tasks: %d (completed: %d)", len(tasks), completed)}
	if hidden > 0 {
		lines = append(lines, fmt.Sprintf("Showing %d of %d tasks (%d omitted)", len(visible), len(tasks), hidden))
	}
	lines = append(lines, "")

	for _, q := range model.Quadrants {
		lines = append(lines, fmt.Sprintf("[%s] %d", q, countsByQuadrant[q]))
		qt := visibleByQuadrant[q]
		if len(qt) == 0 {
			lines = append(lines, "no tasks")
		} else {
			for i, t := range qt {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, formatTaskLine(t, byID, opts)))
			}
		}
		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func lessForContext(a, b model.Task, rank map[model.Quadrant]int) bool {
	if rank[a.Quadrant] != rank[b.Quadrant] {
		return rank[a.Quadrant] < rank[b.Quadrant]
	}
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// BuildSystemPrompt embeds the task summary into the assistant's system
// prompt.
func BuildSystemPrompt(taskContext string) string {
	return strings.Replace(systemPromptTemplate, "{TASK_CONTEXT}", taskContext, 1)
}

// TrimHistory reduces a conversation to what fits the model: at most
// maxMessages recent turns, starting with a user turn, ending with an
// assistant turn, and within a rough character budget.
func TrimHistory(messages []Message, maxMessages int) []Message {
	if maxMessages <= 0 {
		maxMessages = 10
	}

	var recent []Message
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		recent = append(recent, m)
	}
	if len(recent) > maxMessages {
		recent = recent[len(recent)-maxMessages:]
	}

	for len(recent) > 0 && recent[0].Role == "assistant" {
		recent = recent[1:]
	}
	if len(recent) > 0 && recent[len(recent)-1].Role == "user" {
		recent = recent[:len(recent)-1]
	}

	total := 0
	for _, m := range recent {
		total += len(m.Content)
	}
	for total > maxHistoryChars && len(recent) > 2 {
		total -= len(recent[0].Content) + len(recent[1].Content)
		recent = recent[2:]
	}

	out := make([]Message, len(recent))
	copy(out, recent)
	return out
}
