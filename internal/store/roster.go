package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
)

// Roster is the file-backed whale list. Every mutation rewrites the whole
// file; a missing file on first run is an empty roster, not an error.
type Roster struct {
	mu     sync.Mutex
	path   string
	whales []models.Whale
}

func LoadRoster(path string) (*Roster, error) {
	r := &Roster{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("⚠️  Roster file %s not found, starting with empty roster", path)
			return r, nil
		}
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var whales []models.Whale
	if err := json.Unmarshal(data, &whales); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	for i := range whales {
		whales[i].Normalize()
	}

	r.whales = whales
	return r, nil
}

// List returns a copy of all whales.
func (r *Roster) List() []models.Whale {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Whale, len(r.whales))
	copy(out, r.whales)
	return out
}

// ListByTier returns a copy of the whales currently assigned to a tier.
func (r *Roster) ListByTier(tier int) []models.Whale {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Whale
	for _, w := range r.whales {
		if w.Tier == tier {
			out = append(out, w)
		}
	}
	return out
}

// Get finds a whale by address.
func (r *Roster) Get(address string) (models.Whale, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.whales {
		if w.Address == address {
			return w, true
		}
	}
	return models.Whale{}, false
}

// Count returns the roster size.
func (r *Roster) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.whales)
}

// Add appends a whale and persists. Duplicates by address are rejected.
func (r *Roster) Add(whale models.Whale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.whales {
		if w.Address == whale.Address {
			return fmt.Errorf("whale %s already tracked", whale.Address)
		}
	}

	whale.Normalize()
	if whale.AddedDate == "" {
		whale.AddedDate = time.Now().Format("2006-01-02")
	}

	r.whales = append(r.whales, whale)
	return r.saveLocked()
}

// Remove deletes a whale by address and persists.
func (r *Roster) Remove(address string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.whales[:0]
	removed := false
	for _, w := range r.whales {
		if w.Address == address {
			removed = true
			continue
		}
		kept = append(kept, w)
	}

	if !removed {
		return false, nil
	}

	r.whales = kept
	return true, r.saveLocked()
}

// ApplyTiers rewrites tiers for the given address -> tier assignments in one
// pass and persists once. Addresses not in the roster are ignored. Returns
// the number of whales whose tier actually changed.
func (r *Roster) ApplyTiers(assignments map[string]int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for i := range r.whales {
		newTier, ok := assignments[r.whales[i].Address]
		if !ok || newTier == r.whales[i].Tier {
			continue
		}
		r.whales[i].Tier = newTier
		changed++
	}

	if changed == 0 {
		return 0, nil
	}

	return changed, r.saveLocked()
}

func (r *Roster) saveLocked() error {
	data, err := json.MarshalIndent(r.whales, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		log.Printf("❌ Failed to save roster to %s: %v", r.path, err)
		return err
	}

	return nil
}
