package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File persists the credential pair as a JSON file, surviving gateway
// restarts in single-node deployments.
type File struct {
	path string

	mu   sync.RWMutex
	pair *Pair
}

type filePayload struct {
	Access  string `json:"access_credential"`
	Refresh string `json:"refresh_credential"`
}

// NewFile loads (or lazily creates) a file-backed store at path.
func NewFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("credential file path is required")
	}

	s := &File{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *File) Get(ctx context.Context) (Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pair == nil {
		return Pair{}, ErrNotFound
	}
	return *s.pair, nil
}

func (s *File) Set(ctx context.Context, pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := pair
	s.pair = &p
	return s.persistLocked()
}

func (s *File) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

func (s *File) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read credential file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	var decoded filePayload
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("decode credential file: %w", err)
	}
	if decoded.Access == "" || decoded.Refresh == "" {
		// A half-written pair is as good as none.
		return nil
	}

	s.pair = &Pair{Access: decoded.Access, Refresh: decoded.Refresh}
	return nil
}

// persistLocked writes through a temp file and renames it into place so a
// crash mid-write never leaves a truncated pair on disk.
func (s *File) persistLocked() error {
	b, err := json.MarshalIndent(filePayload{
		Access:  s.pair.Access,
		Refresh: s.pair.Refresh,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close credential file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}
