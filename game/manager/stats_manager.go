package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DefaultGroupSize is how many records of one level are folded into a
// single record of the next level
const DefaultGroupSize = 100

// RoundRecord describes one finished round, or a group of them once the
// history has been compressed. Level 0 records are single rounds.
type RoundRecord struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Level           int       `json:"level"`
	Rounds          int       `json:"rounds"`
	AverageScore    float64   `json:"averageScore"`
	MedianScore     float64   `json:"medianScore"`
	MaxScore        int       `json:"maxScore"`
	MinScore        int       `json:"minScore"`
	AverageDuration float64   `json:"averageDuration"`
	MaxDuration     float64   `json:"maxDuration"`
	MinDuration     float64   `json:"minDuration"`
}

// StatsManager keeps the history of every round played. Old rounds are
// folded into groups so the file stays small.
type StatsManager struct {
	path      string
	groupSize int
	records   []RoundRecord
	mutex     sync.RWMutex
}

// NewStatsManager loads the history at path; a missing file starts empty
func NewStatsManager(path string, groupSize int) (*StatsManager, error) {
	if groupSize < 2 {
		groupSize = DefaultGroupSize
	}
	sm := &StatsManager{path: path, groupSize: groupSize}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return sm, nil
	}
	if err != nil {
		return sm, err
	}
	if err := json.Unmarshal(data, &sm.records); err != nil {
		sm.records = nil
		return sm, fmt.Errorf("decode %s: %w", path, err)
	}
	return sm, nil
}

// AddRound appends a finished round and compresses the history
func (sm *StatsManager) AddRound(score int, start, end time.Time) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	d := end.Sub(start).Seconds()
	sm.records = append(sm.records, RoundRecord{
		StartTime:       start,
		EndTime:         end,
		Rounds:          1,
		AverageScore:    float64(score),
		MedianScore:     float64(score),
		MaxScore:        score,
		MinScore:        score,
		AverageDuration: d,
		MaxDuration:     d,
		MinDuration:     d,
	})
	sm.compress()
}

func (sm *StatsManager) sortRecords() {
	sort.SliceStable(sm.records, func(i, j int) bool {
		if sm.records[i].Level != sm.records[j].Level {
			return sm.records[i].Level < sm.records[j].Level
		}
		return sm.records[i].StartTime.Before(sm.records[j].StartTime)
	})
}

func (sm *StatsManager) compress() {
	defer sm.sortRecords()
	sm.sortRecords()

	for level := 0; ; level++ {
		var same, rest []RoundRecord
		for _, r := range sm.records {
			if r.Level == level {
				same = append(same, r)
			} else {
				rest = append(rest, r)
			}
		}
		if len(same) < sm.groupSize {
			return
		}

		var folded []RoundRecord
		i := 0
		for ; i+sm.groupSize <= len(same); i += sm.groupSize {
			folded = append(folded, merge(same[i:i+sm.groupSize], level+1))
		}
		sm.records = append(append(rest, same[i:]...), folded...)
	}
}

func merge(group []RoundRecord, level int) RoundRecord {
	out := RoundRecord{
		StartTime:   group[0].StartTime,
		EndTime:     group[0].EndTime,
		Level:       level,
		MaxScore:    group[0].MaxScore,
		MinScore:    group[0].MinScore,
		MaxDuration: group[0].MaxDuration,
		MinDuration: group[0].MinDuration,
	}
	var totalScore, totalDuration float64
	var medians []float64
	for _, r := range group {
		out.MaxScore = max(out.MaxScore, r.MaxScore)
		out.MinScore = min(out.MinScore, r.MinScore)
		out.MaxDuration = max(out.MaxDuration, r.MaxDuration)
		out.MinDuration = min(out.MinDuration, r.MinDuration)
		if r.StartTime.Before(out.StartTime) {
			out.StartTime = r.StartTime
		}
		if r.EndTime.After(out.EndTime) {
			out.EndTime = r.EndTime
		}
		totalScore += r.AverageScore * float64(r.Rounds)
		totalDuration += r.AverageDuration * float64(r.Rounds)
		out.Rounds += r.Rounds
		for n := 0; n < r.Rounds; n++ {
			medians = append(medians, r.MedianScore)
		}
	}
	out.AverageScore = totalScore / float64(out.Rounds)
	out.AverageDuration = totalDuration / float64(out.Rounds)
	out.MedianScore = median(medians)
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// Records returns a copy of the history, finest level first
func (sm *StatsManager) Records() []RoundRecord {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	out := make([]RoundRecord, len(sm.records))
	copy(out, sm.records)
	return out
}

func (sm *StatsManager) RoundsPlayed() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	total := 0
	for _, r := range sm.records {
		total += r.Rounds
	}
	return total
}

func (sm *StatsManager) AverageScore() float64 {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	var total float64
	rounds := 0
	for _, r := range sm.records {
		total += r.AverageScore * float64(r.Rounds)
		rounds += r.Rounds
	}
	if rounds == 0 {
		return 0
	}
	return total / float64(rounds)
}

// MedianScore weighs each record's median by the rounds it stands for
func (sm *StatsManager) MedianScore() float64 {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	var values []float64
	for _, r := range sm.records {
		for n := 0; n < r.Rounds; n++ {
			values = append(values, r.MedianScore)
		}
	}
	return median(values)
}

func (sm *StatsManager) MaxScore() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	best := 0
	for _, r := range sm.records {
		best = max(best, r.MaxScore)
	}
	return best
}

// SaveToFile writes the history as JSON
func (sm *StatsManager) SaveToFile() error {
	sm.mutex.RLock()
	data, err := json.Marshal(sm.records)
	sm.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sm.path), 0755); err != nil {
		return fmt.Errorf("create stats directory: %w", err)
	}
	if err := os.WriteFile(sm.path, data, 0644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
