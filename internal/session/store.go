package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wcforge/contentgen/internal/content"
)

// ErrNoState is returned by FileStore.Load when nothing is saved for a target.
var ErrNoState = errors.New("no saved session")

// State is the persistable part of a session.
type State struct {
	ID        string                                     `yaml:"id" json:"id"`
	Target    string                                     `yaml:"target" json:"target"`
	Selection map[content.Field]string                   `yaml:"selection,omitempty" json:"selection,omitempty"`
	Results   map[content.Field]content.GenerationResult `yaml:"results,omitempty" json:"results,omitempty"`
	UpdatedAt time.Time                                  `yaml:"updated_at" json:"updated_at"`
}

// State captures the session's target, selection and ledger slots.
// Totals are not stored; they are recomputed on Restore.
func (s *Session) State() State {
	snap := s.ledger.Snapshot()
	return State{
		ID:        s.ID(),
		Target:    s.Target(),
		Selection: s.selection.Map(),
		Results:   snap.Results,
		UpdatedAt: time.Now().UTC(),
	}
}

// Restore replaces the session's id, target, selection and ledger with st.
// Unknown fields in st are ignored.
func (s *Session) Restore(st State) {
	if st.ID != "" {
		s.mu.Lock()
		s.id = st.ID
		s.mu.Unlock()
	}
	s.SetTarget(st.Target)

	for _, f := range content.Fields {
		s.selection.Select(f, st.Selection[f])
	}

	s.ledger.Reset()
	partial := content.Partial{}
	for f, r := range st.Results {
		if f.Valid() {
			partial[f] = r
		}
	}
	s.ledger.Merge(partial)
}

// FileStore keeps one YAML file per target under Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

var plainName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Path returns the file a target's state is stored in. Plain ids are used as
// is; any other target is base64 encoded behind a "~" prefix, so distinct
// targets never share a file.
func (fs *FileStore) Path(target string) string {
	name := target
	if !plainName.MatchString(target) {
		name = "~" + base64.RawURLEncoding.EncodeToString([]byte(target))
	}
	return filepath.Join(fs.Dir, name+".yaml")
}

// Load reads the saved state for target. A file holding another target's
// state is treated as no state.
func (fs *FileStore) Load(target string) (State, error) {
	data, err := os.ReadFile(fs.Path(target))
	if errors.Is(err, os.ErrNotExist) {
		return State{}, ErrNoState
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read session: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to parse session %s: %w", fs.Path(target), err)
	}
	if st.Target != target {
		return State{}, fmt.Errorf("%w: %s holds product %q", ErrNoState, fs.Path(target), st.Target)
	}
	return st, nil
}

// Save writes st, replacing any previous state for the same target.
func (fs *FileStore) Save(st State) error {
	if st.Target == "" {
		return content.ErrMissingTarget
	}
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	path := fs.Path(st.Target)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Delete removes the saved state for target. Deleting a missing state is not
// an error.
func (fs *FileStore) Delete(target string) error {
	err := os.Remove(fs.Path(target))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
