package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Digital-Shane/scenename/internal/config"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// RefineEntry records the outcome of refining one video.
type RefineEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	MediaType string    `json:"media_type"`
	Provider  string    `json:"provider,omitempty"`
	SceneName string    `json:"scene_name,omitempty"`
	Filled    []string  `json:"filled,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string  `json:"command_args"`
	WorkingDir    string    `json:"working_dir"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	TotalVideos   int       `json:"total_videos"`
	RefinedVideos int       `json:"refined_videos"`
	FailedVideos  int       `json:"failed_videos"`
}

// Session collects the entries of one refinement run. Record is safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	Metadata SessionMetadata `json:"metadata"`
	Entries  []RefineEntry   `json:"entries"`
}

// Record appends an entry to the session.
func (s *Session) Record(entry RefineEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = fmt.Sprintf("%s_%d", s.Metadata.SessionID, len(s.Entries))
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	s.Entries = append(s.Entries, entry)
}

// updateStats recounts the session totals. Callers hold mu.
func (s *Session) updateStats() {
	refined, failed := 0, 0
	for _, e := range s.Entries {
		switch {
		case !e.Success:
			failed++
		case len(e.Filled) > 0 || e.SceneName != "":
			refined++
		}
	}
	s.Metadata.TotalVideos = len(s.Entries)
	s.Metadata.RefinedVideos = refined
	s.Metadata.FailedVideos = failed
}

// Store reads and writes session files in a directory.
type Store struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir, now: time.Now}
}

// DefaultStore returns the store under ~/.scenename/logs on the OS filesystem.
func DefaultStore() (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return NewStore(afero.NewOsFs(), filepath.Join(dir, "logs")), nil
}

// Dir returns the directory sessions are stored in.
func (st *Store) Dir() string {
	return st.dir
}

// StartSession creates a new session for the given command line.
func (st *Store) StartSession(command string, args []string) *Session {
	wd, _ := os.Getwd()
	return &Session{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   st.now(),
			SessionID:   uuid.NewString(),
		},
		Entries: []RefineEntry{},
	}
}

// WriteSession updates the session totals and saves it as JSON.
func (st *Store) WriteSession(session *Session) error {
	if session == nil {
		return nil
	}

	session.mu.Lock()
	session.updateStats()
	data, err := json.MarshalIndent(session, "", "  ")
	session.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := st.fs.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// The timestamp prefix keeps file names in chronological order
	name := fmt.Sprintf("%s_%s.json",
		session.Metadata.Timestamp.Format("2006-01-02_150405.000"),
		session.Metadata.SessionID)
	if err := afero.WriteFile(st.fs, filepath.Join(st.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

// ReadSession loads one session file.
func (st *Store) ReadSession(path string) (*Session, error) {
	data, err := afero.ReadFile(st.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// ReadSessions returns up to limit sessions, newest first. A limit of zero
// or less returns all of them. Corrupted files are skipped.
func (st *Store) ReadSessions(limit int) ([]*Session, error) {
	files, err := st.sessionFiles()
	if err != nil {
		return nil, err
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*Session, 0, len(files))
	for _, file := range files {
		session, err := st.ReadSession(file)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Cleanup removes session files older than retentionDays and returns how
// many were removed.
func (st *Store) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	files, err := st.sessionFiles()
	if err != nil {
		return 0, err
	}

	cutoff := st.now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, file := range files {
		info, err := st.fs.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := st.fs.Remove(file); err != nil {
				return removed, fmt.Errorf("failed to remove old log file %s: %w", file, err)
			}
			removed++
		}
	}
	return removed, nil
}

func (st *Store) sessionFiles() ([]string, error) {
	exists, err := afero.DirExists(st.fs, st.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat log directory: %w", err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := afero.ReadDir(st.fs, st.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(st.dir, entry.Name()))
	}
	return files, nil
}
