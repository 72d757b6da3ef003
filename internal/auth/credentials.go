// internal/auth/credentials.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrNoCredentials = errors.New("no credentials found")

// Credentials hold the access token used to clone from one git host.
type Credentials struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	Username    string    `json:"username,omitempty"`
}

func (c Credentials) Expired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}

// FileStore keeps credentials per git host in a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func DefaultStorePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "licbundle", "credentials.json")
}

func (s *FileStore) Save(host string, cred Credentials) error {
	all, _ := s.loadAll()
	if all == nil {
		all = make(map[string]Credentials)
	}
	all[normalizeHost(host)] = cred

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) Load(host string) (Credentials, error) {
	all, err := s.loadAll()
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}
	cred, ok := all[normalizeHost(host)]
	if !ok || cred.Expired() {
		return Credentials{}, ErrNoCredentials
	}
	return cred, nil
}

// LoadWithEnv looks for a token in LICBUNDLE_<HOST>_TOKEN, then
// LICBUNDLE_GIT_TOKEN, then the store, then the gh or glab CLI for
// github.com and gitlab.com.
func (s *FileStore) LoadWithEnv(host string) (Credentials, error) {
	host = normalizeHost(host)
	envKey := fmt.Sprintf("LICBUNDLE_%s_TOKEN", toUpperSnake(host))
	if token := os.Getenv(envKey); token != "" {
		return Credentials{AccessToken: token}, nil
	}
	if token := os.Getenv("LICBUNDLE_GIT_TOKEN"); token != "" {
		return Credentials{AccessToken: token}, nil
	}
	cred, err := s.Load(host)
	if err == nil {
		return cred, nil
	}
	switch host {
	case "github.com":
		if token, ok := GhCLIToken(); ok {
			return Credentials{AccessToken: token}, nil
		}
	case "gitlab.com":
		if token, ok := GlabCLIToken(); ok {
			return Credentials{AccessToken: token}, nil
		}
	}
	return Credentials{}, ErrNoCredentials
}

// Token returns the access token for host, or "" if there is none.
func (s *FileStore) Token(host string) string {
	if host == "" {
		return ""
	}
	cred, err := s.LoadWithEnv(host)
	if err != nil {
		logrus.WithField("host", host).Debug("no git credentials")
		return ""
	}
	return cred.AccessToken
}

func (s *FileStore) loadAll() (map[string]Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var all map[string]Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}

// toUpperSnake turns "git.example.com" into "GIT_EXAMPLE_COM".
func toUpperSnake(s string) string {
	result := make([]byte, 0, len(s))
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			c -= 32
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			c = '_'
		}
		result = append(result, c)
	}
	return string(result)
}
