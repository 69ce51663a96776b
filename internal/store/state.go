package store

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
)

const tierChangeLogCap = 100

const lastBuysCap = 50

// BotState is the runtime state blob. Persisted as a single JSON document,
// rewritten in full.
type BotState struct {
	Paused         bool                                `json:"paused"`
	Filters        models.Filters                      `json:"filters"`
	AlertsSent     int                                 `json:"alerts_sent"`
	TokensFiltered int                                 `json:"tokens_filtered"`
	CycleCount     int                                 `json:"cycle_count"`
	StartTime      int64                               `json:"start_time"`
	LastBuys       []models.BuyRecord                  `json:"last_buys"`
	TrackedTokens  map[string]*models.TrackedToken     `json:"tracked_tokens"`
	Positions      map[string]*models.TrackedPosition  `json:"positions"`
	Performance    map[string]*models.WhalePerformance `json:"whale_performance"`
	TierChanges    []models.TierChangeRecord           `json:"tier_changes"`
}

func newBotState() *BotState {
	return &BotState{
		Filters:       models.DefaultFilters(),
		StartTime:     time.Now().Unix(),
		TrackedTokens: make(map[string]*models.TrackedToken),
		Positions:     make(map[string]*models.TrackedPosition),
		Performance:   make(map[string]*models.WhalePerformance),
	}
}

// ensureMaps repairs nil maps after loading older state files.
func (s *BotState) ensureMaps() {
	if s.TrackedTokens == nil {
		s.TrackedTokens = make(map[string]*models.TrackedToken)
	}
	if s.Positions == nil {
		s.Positions = make(map[string]*models.TrackedPosition)
	}
	if s.Performance == nil {
		s.Performance = make(map[string]*models.WhalePerformance)
	}
	for _, t := range s.TrackedTokens {
		if t.MilestonesFired == nil {
			t.MilestonesFired = make(map[int]bool)
		}
	}
}

// State owns the runtime blob behind one coarse mutex. Every mutation goes
// through Update, which schedules a debounced write-behind; readers needing
// point-in-time consistency use View under the same lock.
type State struct {
	mu       sync.Mutex
	path     string
	debounce time.Duration
	data     *BotState

	writeTimer *time.Timer
}

func LoadState(path string, debounce time.Duration) (*State, error) {
	s := &State{
		path:     path,
		debounce: debounce,
		data:     newBotState(),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("⚠️  State file %s not found, starting fresh", path)
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, s.data); err != nil {
		// A corrupt state file loses tracking history but must not stop
		// the process.
		log.Printf("❌ Failed to parse state file %s: %v (starting fresh)", path, err)
		s.data = newBotState()
		return s, nil
	}

	s.data.ensureMaps()
	s.data.StartTime = time.Now().Unix()
	return s, nil
}

// Update runs fn with exclusive access to the blob and schedules a
// persistence write.
func (s *State) Update(fn func(*BotState)) {
	s.mu.Lock()
	fn(s.data)
	s.scheduleWriteLocked()
	s.mu.Unlock()
}

// View runs fn with shared access to the blob for a consistent read.
func (s *State) View(fn func(*BotState)) {
	s.mu.Lock()
	fn(s.data)
	s.mu.Unlock()
}

// Flush cancels any pending debounce and writes synchronously. Used on
// shutdown.
func (s *State) Flush() {
	s.mu.Lock()
	if s.writeTimer != nil {
		s.writeTimer.Stop()
		s.writeTimer = nil
	}
	s.writeLocked()
	s.mu.Unlock()
}

// scheduleWriteLocked debounces full-file rewrites: tier-1's 30 second
// cadence would otherwise hit the disk on every poll.
func (s *State) scheduleWriteLocked() {
	if s.debounce <= 0 {
		s.writeLocked()
		return
	}

	if s.writeTimer != nil {
		return // a write is already pending
	}

	s.writeTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		s.writeTimer = nil
		s.writeLocked()
		s.mu.Unlock()
	})
}

func (s *State) writeLocked() {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		log.Printf("❌ Failed to marshal state: %v", err)
		return
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		// Loud: an unwritable state file means in-memory tracking is lost
		// on restart.
		log.Printf("❌ PERSISTENCE FAILURE: cannot write %s: %v", s.path, err)
	}
}

// RecordBuy appends to the recent-buys ring, capped.
func (s *BotState) RecordBuy(buy models.BuyRecord) {
	s.LastBuys = append(s.LastBuys, buy)
	if len(s.LastBuys) > lastBuysCap {
		s.LastBuys = s.LastBuys[len(s.LastBuys)-lastBuysCap:]
	}
}

// RecordTierChange appends to the tier-change log, capped to the most
// recent entries.
func (s *BotState) RecordTierChange(rec models.TierChangeRecord) {
	s.TierChanges = append(s.TierChanges, rec)
	if len(s.TierChanges) > tierChangeLogCap {
		s.TierChanges = s.TierChanges[len(s.TierChanges)-tierChangeLogCap:]
	}
}
