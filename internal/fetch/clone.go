// Package fetch materializes package sources that live in git repositories.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/sirupsen/logrus"
)

// TokenSource returns the access token for a git host, or "" for none.
type TokenSource interface {
	Token(host string) string
}

// StaticToken uses the same token for every host.
type StaticToken string

func (t StaticToken) Token(string) string { return string(t) }

// Cloner performs shallow git clones into temporary directories.
type Cloner struct {
	tokens TokenSource
}

// NewCloner creates a Cloner. Tokens found for a URL's host are used for
// HTTP basic-auth (username "x-token-auth" works for GitHub and Bitbucket).
// tokens may be nil.
func NewCloner(tokens TokenSource) *Cloner {
	return &Cloner{tokens: tokens}
}

// Clone shallow-clones the repository at cloneURL into a temporary directory.
// If ref is non-empty it names the branch or tag to check out; otherwise the
// remote HEAD is used. It returns the directory path, a cleanup function that
// removes the directory, and any error. The caller must call cleanup when done
// with the directory.
func (c *Cloner) Clone(ctx context.Context, cloneURL, ref string) (dir string, cleanup func(), err error) {
	if ref == "" {
		return c.clone(ctx, cloneURL, "")
	}

	// A ref may name either a branch or a tag.
	dir, cleanup, err = c.clone(ctx, cloneURL, plumbing.NewBranchReferenceName(ref))
	if err == nil {
		return dir, cleanup, nil
	}
	logrus.WithError(err).WithField("ref", ref).Debug("branch clone failed, trying tag")
	return c.clone(ctx, cloneURL, plumbing.NewTagReferenceName(ref))
}

func (c *Cloner) clone(ctx context.Context, cloneURL string, ref plumbing.ReferenceName) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "licbundle-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	cleanupFn := func() {
		os.RemoveAll(tmpDir)
	}

	opts := &git.CloneOptions{
		URL:           cloneURL,
		Depth:         1,
		SingleBranch:  true,
		Tags:          git.NoTags,
		ReferenceName: ref,
	}

	if token := c.token(cloneURL); token != "" {
		opts.Auth = &http.BasicAuth{
			Username: "x-token-auth",
			Password: token,
		}
	}

	logrus.WithField("url", cloneURL).Debug("cloning")
	_, err = git.PlainCloneContext(ctx, tmpDir, false, opts)
	if err != nil {
		cleanupFn()
		return "", nil, fmt.Errorf("git clone %s: %w", cloneURL, err)
	}

	return tmpDir, cleanupFn, nil
}

func (c *Cloner) token(cloneURL string) string {
	if c.tokens == nil {
		return ""
	}
	u, err := url.Parse(cloneURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return ""
	}
	return c.tokens.Token(u.Hostname())
}
