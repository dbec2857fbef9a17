// Package memory implements a seedable in-memory connector. It backs the
// "memory" data-source type for local runs and doubles as the reference
// backend the protocol test suites run against.
package memory

import (
	"sync"

	"github.com/Gustavohps10/timelapse-sub001/internal/models"
)

// Store is the shared in-memory backend state. Connectors are stateless;
// the store stands in for the remote system a real connector talks to.
type Store struct {
	timeEntries map[string]models.TimeEntry
	tasks       map[string]models.Task
	members     map[string]models.Member
	apiKeys     map[string]string // api key -> member id
	mu          sync.RWMutex
}

// NewStore creates an empty backend store.
func NewStore() *Store {
	return &Store{
		timeEntries: make(map[string]models.TimeEntry),
		tasks:       make(map[string]models.Task),
		members:     make(map[string]models.Member),
		apiKeys:     make(map[string]string),
	}
}

// SeedMember registers a member and the api key that authenticates it.
func (s *Store) SeedMember(member models.Member, apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
	if apiKey != "" {
		s.apiKeys[apiKey] = member.ID
	}
}

// SeedTask inserts or replaces a task.
func (s *Store) SeedTask(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

// SeedTimeEntry inserts or replaces a time entry without touching its
// timestamps, letting tests stage exact (updatedAt, id) layouts.
func (s *Store) SeedTimeEntry(entry models.TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeEntries[entry.ID] = entry
}

// TimeEntryCount returns the number of stored time entries.
func (s *Store) TimeEntryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.timeEntries)
}

// TimeEntry returns a stored time entry by id.
func (s *Store) TimeEntry(id string) (models.TimeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.timeEntries[id]
	return e, ok
}

func (s *Store) memberByKey(apiKey string) (models.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.apiKeys[apiKey]
	if !ok {
		return models.Member{}, false
	}
	m, ok := s.members[id]
	return m, ok
}

func (s *Store) listTimeEntries() []models.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.TimeEntry, 0, len(s.timeEntries))
	for _, e := range s.timeEntries {
		entries = append(entries, e)
	}
	return entries
}

func (s *Store) listTasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	return tasks
}

func (s *Store) listMembers() []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]models.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	return members
}

func (s *Store) putTimeEntry(entry models.TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeEntries[entry.ID] = entry
}

func (s *Store) deleteTimeEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timeEntries, id)
}

func (s *Store) putTask(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

func (s *Store) deleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}
