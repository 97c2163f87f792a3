// Package acquire resolves a user-given target, a GitHub repository URL or
// a local directory, into a root directory the analysis pipeline can walk.
// Remote targets are cloned into a transient directory that the returned
// Source releases unconditionally.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Acquisition failures. All are fatal and surface before the pipeline runs.
var (
	// ErrInvalidRepoURL indicates a URL that is not a GitHub repository.
	ErrInvalidRepoURL = errors.New("invalid GitHub repository URL")
	// ErrNotDirectory indicates a local target that is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// githubHost is the only remote host accepted for cloning.
const githubHost = "github.com"

// minRepoPathParts is owner plus repository name.
const minRepoPathParts = 2

// runGitCommand is injectable in tests.
var runGitCommand = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}

	return nil
}

// Options controls target resolution.
type Options struct {
	// ForceLocal treats the target as a local path even if it looks like
	// a URL.
	ForceLocal bool
	// CloneDepth is the --depth passed to git clone; <= 0 means 1.
	CloneDepth int
	// Timeout bounds the clone; zero means no bound.
	Timeout time.Duration
}

// Source is a resolved, walkable root directory.
// Release must be called on every exit path once Resolve succeeds.
type Source struct {
	// Path is the root directory to analyze.
	Path string
	// Name identifies the repository for display: owner/repo for remote
	// targets, the cleaned base name for local ones.
	Name string

	tempDir string
}

// Release removes the transient clone directory, if any.
// It is a no-op for local sources and safe to call exactly once.
func (s *Source) Release() error {
	if s.tempDir == "" {
		return nil
	}

	err := os.RemoveAll(s.tempDir)
	if err != nil {
		return fmt.Errorf("remove clone directory: %w", err)
	}

	s.tempDir = ""

	return nil
}

// Resolve turns target into a Source. A leading "@" on the target is
// tolerated and stripped. URL-shaped targets (an http or https scheme) are
// cloned unless opts.ForceLocal is set; anything else must be an existing
// local directory.
func Resolve(ctx context.Context, target string, opts Options) (*Source, error) {
	target = strings.TrimPrefix(strings.TrimSpace(target), "@")

	if !opts.ForceLocal && looksLikeURL(target) {
		return cloneRemote(ctx, target, opts)
	}

	return resolveLocal(target)
}

// looksLikeURL reports whether target carries an explicit web scheme.
func looksLikeURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// repoNameFromURL validates a GitHub repository URL and derives its
// owner/repo display name.
func repoNameFromURL(target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidRepoURL, target, err)
	}

	if parsed.Host != githubHost {
		return "", fmt.Errorf("%w: %q: host must be %s", ErrInvalidRepoURL, target, githubHost)
	}

	var parts []string

	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) < minRepoPathParts {
		return "", fmt.Errorf("%w: %q: want github.com/<owner>/<repo>", ErrInvalidRepoURL, target)
	}

	repo := strings.TrimSuffix(parts[1], ".git")

	return parts[0] + "/" + repo, nil
}

// cloneRemote clones target into a fresh transient directory.
func cloneRemote(ctx context.Context, target string, opts Options) (*Source, error) {
	name, err := repoNameFromURL(target)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "locfang-*")
	if err != nil {
		return nil, fmt.Errorf("create clone directory: %w", err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	depth := opts.CloneDepth
	if depth <= 0 {
		depth = 1
	}

	cloneErr := runGitCommand(ctx, "clone", "--depth", strconv.Itoa(depth), target, tempDir)
	if cloneErr != nil {
		_ = os.RemoveAll(tempDir)

		return nil, fmt.Errorf("clone %s: %w", target, cloneErr)
	}

	return &Source{Path: tempDir, Name: name, tempDir: tempDir}, nil
}

// resolveLocal validates target as an existing, readable directory.
func resolveLocal(target string) (*Source, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", target, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", target, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrNotDirectory, target)
	}

	// An unreadable directory must fail here, before the pipeline starts,
	// rather than walk into an empty report.
	dir, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", target, err)
	}
	defer dir.Close()

	_, err = dir.Readdirnames(1)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read directory %q: %w", target, err)
	}

	return &Source{Path: abs, Name: filepath.Base(abs)}, nil
}
