package model

import "time"

// Repository represents a GitHub repository imported into agentboard.
type Repository struct {
	ID            int64
	FullName      string
	Owner         string
	Name          string
	DefaultBranch string
	Description   string
	AddedAt       time.Time
}
