package validation

import (
	"fmt"
	"regexp"
)

// WorkspaceNamePattern defines the allowed workspace name format:
// letters, digits, spaces, hyphens and underscores, 3-64 characters.
var WorkspaceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_ -]{2,63}$`)

const (
	// MinWorkspaceNameLen is the minimum workspace name length
	MinWorkspaceNameLen = 3
	// MaxWorkspaceNameLen is the maximum workspace name length
	MaxWorkspaceNameLen = 64
)

// ValidateWorkspaceName checks that a workspace name matches the allowed
// format and length.
func ValidateWorkspaceName(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}

	if len(name) < MinWorkspaceNameLen {
		return fmt.Errorf("workspace name must be at least %d characters long", MinWorkspaceNameLen)
	}

	if len(name) > MaxWorkspaceNameLen {
		return fmt.Errorf("workspace name must not exceed %d characters", MaxWorkspaceNameLen)
	}

	if !WorkspaceNamePattern.MatchString(name) {
		return fmt.Errorf("workspace name can only contain letters, numbers, spaces, hyphens and underscores")
	}

	return nil
}
