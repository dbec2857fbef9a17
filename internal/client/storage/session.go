package storage

import "context"

//go:generate moq -out session_mock.go . SessionStorage

// Session is the client's active workspace session.
type Session struct {
	WorkspaceID string `json:"workspace_id"`
	MemberID    string `json:"member_id"`
	Token       string `json:"token"`
}

// SessionStorage persists the active workspace session.
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns the stored session.
	// Returns ErrSessionNotFound when no session exists.
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session. Deleting a missing
	// session is not an error.
	DeleteSession(ctx context.Context) error
}
