// Package history keeps the versions of the reading list in a git repository
// rooted at the data directory, using go-git (pure Go, no git binary).
package history

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is one recorded version.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// Repo is a git repository in the data directory.
type Repo struct {
	name  string
	email string
	repo  *gogit.Repository
	mu    sync.Mutex
}

// Open opens the repository in dir, initializing it when there is none.
// name and email sign the commits.
func Open(dir, name, email string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create repo directory: %w", err)
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		// Not a repo yet.
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize git repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = name
		cfg.User.Email = email
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &Repo{name: name, email: email, repo: repo}, nil
}

// Commit stages files, relative to the working tree root, and commits them with message. It is a
// no-op when none of the files changed.
func (r *Repo) Commit(_ context.Context, message string, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, f := range files {
		if _, err := w.Add(f); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f, err)
		}
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	// Other files in the directory, like covers, are left untracked.
	changed := false
	for _, f := range files {
		if s, ok := status[f]; ok && s.Staging != gogit.Unmodified && s.Staging != gogit.Untracked {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	sig := &object.Signature{Name: r.name, Email: r.email, When: time.Now()}
	if _, err := w.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Log returns up to n commits touching path, newest first. An empty path
// lists every commit. n <= 0 means 100.
func (r *Repo) Log(_ context.Context, path string, n int) ([]*Commit, error) {
	if n <= 0 {
		n = 100
	}
	opts := &gogit.LogOptions{}
	if path != "" && path != "." {
		opts.FileName = &path
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	iter, err := r.repo.Log(opts)
	if err != nil {
		// No commits yet.
		return nil, nil
	}
	defer iter.Close()

	var commits []*Commit
	for range n {
		c, err := iter.Next()
		if err != nil {
			break
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, &Commit{
			Hash:    c.Hash.String(),
			Message: subject,
			Author:  c.Author.Name,
			Date:    c.Author.When,
		})
	}
	return commits, nil
}

// FileAt returns the content of path as of the commit hash. "HEAD" is the
// latest commit.
func (r *Repo) FileAt(_ context.Context, hash, path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := plumbing.NewHash(hash)
	if hash == "HEAD" {
		ref, err := r.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		h = ref.Hash()
	}
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	f, err := c.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file at commit: %w", err)
	}
	reader, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}
