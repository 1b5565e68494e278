package model

// Snapshot is the single persisted record: the full task and label state
// plus the schema version it was written under. It is read once at startup
// (running migration if the version is behind) and rewritten after every
// mutating store operation.
type Snapshot struct {
	Version int     `json:"version"`
	Tasks   []Task  `json:"tasks"`
	Labels  []Label `json:"labels"`
}
