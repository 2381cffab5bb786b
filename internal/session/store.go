package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists run records as JSON files, scoped per repository by a
// short hash of its path.
type Store struct {
	basePath string
}

// NewStore creates a run store rooted at configPath, typically
// ~/.planforge.
func NewStore(configPath string) *Store {
	return &Store{
		basePath: filepath.Join(configPath, "runs"),
	}
}

// RepoHash derives the directory name that scopes records to a repository.
func (s *Store) RepoHash(repoPath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(repoPath)))
	return hex.EncodeToString(hash[:])[:12]
}

// Save persists a run record.
func (s *Store) Save(record *RunRecord) error {
	if record.RepoHash == "" {
		record.RepoHash = s.RepoHash(record.RepoPath)
	}

	dir := filepath.Join(s.basePath, record.RepoHash)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.json", record.ID))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// Load retrieves one run record for a repository.
func (s *Store) Load(id, repoPath string) (*RunRecord, error) {
	filename := filepath.Join(s.basePath, s.RepoHash(repoPath), fmt.Sprintf("%s.json", id))

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// List returns all runs for a repository, newest first.
func (s *Store) List(repoPath string) ([]RunMeta, error) {
	dir := filepath.Join(s.basePath, s.RepoHash(repoPath))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []RunMeta{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list run directory: %w", err)
	}

	var runs []RunMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var record RunRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		runs = append(runs, RunMeta{
			ID:               record.ID,
			Status:           record.Status,
			Iterations:       record.Iterations,
			FilesImplemented: record.FilesImplemented,
			StartedAt:        record.StartedAt,
			UpdatedAt:        record.UpdatedAt,
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].UpdatedAt.After(runs[j].UpdatedAt)
	})
	return runs, nil
}

// Latest returns the most recently updated run for a repository, or nil
// when none exist.
func (s *Store) Latest(repoPath string) (*RunRecord, error) {
	runs, err := s.List(repoPath)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return s.Load(runs[0].ID, repoPath)
}
