package memory

import "github.com/Gustavohps10/timelapse-sub001/internal/models"

// DemoAPIKey authenticates against the demo backend.
const DemoAPIKey = "demo-key"

// NewDemo creates a memory connector pre-seeded with a member and a few
// tasks, serving the "memory" data source for local runs without a real
// backend.
func NewDemo() *Connector {
	store := NewStore()
	store.SeedMember(models.Member{ID: "demo-member", Name: "Demo Member", Login: "demo"}, DemoAPIKey)
	store.SeedTask(models.Task{ID: "demo-task-1", Subject: "Try the sync flow", Status: "open", AssigneeID: "demo-member"})
	store.SeedTask(models.Task{ID: "demo-task-2", Subject: "Log some hours", Status: "open", AssigneeID: "demo-member"})
	return New("memory", "In-Memory (demo)", store)
}
