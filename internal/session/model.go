// Package session persists run records so runs can be listed and resumed
// per target repository.
package session

import (
	"time"
)

// RunRecord is the durable summary of one implementation run.
type RunRecord struct {
	ID               string    `json:"id"`
	RepoPath         string    `json:"repo_path"`
	RepoHash         string    `json:"repo_hash"`
	PlanPath         string    `json:"plan_path"`
	Model            string    `json:"model"`
	Status           string    `json:"status"`
	Iterations       int       `json:"iterations"`
	FilesImplemented int       `json:"files_implemented"`
	StartedAt        time.Time `json:"started_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Report           string    `json:"report,omitempty"` // rendered markdown
}

// RunMeta is the lightweight listing shape.
type RunMeta struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	Iterations       int       `json:"iterations"`
	FilesImplemented int       `json:"files_implemented"`
	StartedAt        time.Time `json:"started_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
