package manager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"
)

const (
	// NumberHighScores is the size of the high-score table
	NumberHighScores = 10
	// TimestampFormat is the layout of score timestamps on disk
	TimestampFormat = "2006/01/02 15:04:05"
	// DisplayFormat is the layout renderers use for the date column
	DisplayFormat = "2006/01/02"

	defaultPlayer = "default"
)

// Timestamp is a UTC time stored with TimestampFormat
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimestampFormat))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimestampFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Score is one entry of the high-score table
type Score struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Timestamp Timestamp `json:"timestamp"`
}

// StateManager keeps the high-score table, sorted by descending score and
// always NumberHighScores long, and persists it as a JSON array.
type StateManager struct {
	path   string
	scores []Score
	now    func() time.Time
	mutex  sync.RWMutex
}

// NewStateManager loads the table at path. A missing or malformed file is
// not an error: the table starts out filled with default entries.
func NewStateManager(path string) *StateManager {
	sm := &StateManager{
		path: path,
		now:  time.Now,
	}
	if err := sm.LoadStats(path); err != nil {
		glog.Warningf("High scores: starting empty: %v", err)
	}
	return sm
}

func (sm *StateManager) defaultScore() Score {
	return Score{Player: defaultPlayer, Timestamp: Timestamp{sm.now().UTC().Truncate(time.Second)}}
}

// LoadStats replaces the table with the contents of filename. The table is
// normalised (sorted, truncated, padded) even when reading fails.
func (sm *StateManager) LoadStats(filename string) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	var scores []Score
	data, err := os.ReadFile(filename)
	if err == nil {
		if jerr := json.Unmarshal(data, &scores); jerr != nil {
			scores = nil
			err = fmt.Errorf("decode %s: %w", filename, jerr)
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > NumberHighScores {
		scores = scores[:NumberHighScores]
	}
	for len(scores) < NumberHighScores {
		scores = append(scores, sm.defaultScore())
	}
	sm.scores = scores
	return err
}

// SaveStats writes the table as indented JSON
func (sm *StateManager) SaveStats() error {
	sm.mutex.RLock()
	data, err := json.MarshalIndent(sm.scores, "", "  ")
	sm.mutex.RUnlock()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(sm.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(sm.path, data, 0644)
}

// Rank returns the position a score would take in the table: the first entry
// holding a strictly lower score. False means the score does not make the cut.
func (sm *StateManager) Rank(score int) (int, bool) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.rank(score)
}

func (sm *StateManager) rank(score int) (int, bool) {
	rank := sort.Search(len(sm.scores), func(i int) bool {
		return sm.scores[i].Score < score
	})
	return rank, rank < len(sm.scores)
}

// Qualifies reports whether score would enter the table
func (sm *StateManager) Qualifies(score int) bool {
	_, ok := sm.Rank(score)
	return ok
}

// Insert drops the lowest entry and places s at rank
func (sm *StateManager) Insert(rank int, s Score) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	sm.insert(rank, s)
}

func (sm *StateManager) insert(rank int, s Score) {
	if rank < 0 || rank >= len(sm.scores) {
		return
	}
	copy(sm.scores[rank+1:], sm.scores[rank:len(sm.scores)-1])
	sm.scores[rank] = s
}

// Record ranks, inserts and persists a finished round. Scores that do not
// make the table are ignored.
func (sm *StateManager) Record(player string, score int) error {
	sm.mutex.Lock()
	rank, ok := sm.rank(score)
	if ok {
		sm.insert(rank, Score{
			Player:    player,
			Score:     score,
			Timestamp: Timestamp{sm.now().UTC().Truncate(time.Second)},
		})
	}
	sm.mutex.Unlock()

	if !ok {
		return nil
	}
	return sm.SaveStats()
}

// Scores returns a copy of the table, best first
func (sm *StateManager) Scores() []Score {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	scores := make([]Score, len(sm.scores))
	copy(scores, sm.scores)
	return scores
}

func (sm *StateManager) GetHighScore() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.scores[0].Score
}
