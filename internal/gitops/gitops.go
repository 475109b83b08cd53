// Package gitops versions the project directory with the git CLI so every
// ledger change made by an import is a reviewable commit.
package gitops

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when the requested paths have no changes.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies the committer of automatic commits.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if _, err := run(dir, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether any of paths (all files when empty) differ
// from HEAD or are untracked.
func HasChanges(dir string, paths ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, paths...)
	out, err := run(dir, args...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit stages the changed paths among paths (all files when empty) and
// commits them. Returns the short commit hash, or ErrNothingToCommit when
// nothing changed.
func Commit(dir, message string, author Author, paths ...string) (string, error) {
	changed, err := changedPaths(dir, paths)
	if err != nil {
		return "", err
	}
	if len(changed) == 0 {
		return "", ErrNothingToCommit
	}

	if _, err := run(dir, append([]string{"add", "-A", "--"}, changed...)...); err != nil {
		return "", err
	}

	commit := []string{
		"-c", "user.name=" + author.Name,
		"-c", "user.email=" + author.Email,
		"commit", "--quiet", "-m", message, "--author", author.String(),
	}
	if _, err := run(dir, commit...); err != nil {
		return "", err
	}

	return Head(dir)
}

// changedPaths filters paths down to those git reports as changed. An
// unchanged or empty directory would make `git add` fail on its pathspec.
func changedPaths(dir string, paths []string) ([]string, error) {
	if len(paths) == 0 {
		ok, err := HasChanges(dir)
		if err != nil || !ok {
			return nil, err
		}
		return []string{"."}, nil
	}
	var out []string
	for _, p := range paths {
		ok, err := HasChanges(dir, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Head returns the short hash of HEAD.
func Head(dir string) (string, error) {
	out, err := run(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %s: %w", gitVerb(args), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// gitVerb skips leading -c options so errors name the subcommand.
func gitVerb(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}
