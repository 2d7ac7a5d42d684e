package engine

import (
	"sync"
	"time"
)

// DefaultCooldownWindow is the minimum gap between two firings of one rule.
const DefaultCooldownWindow = 8 * time.Second

// CooldownGuard suppresses rapid re-firing of a rule. The last-fired map is
// process-local; a restart resets it, which only costs liveness, not
// correctness.
type CooldownGuard struct {
	mu        sync.Mutex
	window    time.Duration
	lastFired map[int64]time.Time
}

// NewCooldownGuard creates a guard with the given window (0 uses the default)
func NewCooldownGuard(window time.Duration) *CooldownGuard {
	if window <= 0 {
		window = DefaultCooldownWindow
	}
	return &CooldownGuard{
		window:    window,
		lastFired: make(map[int64]time.Time),
	}
}

// TryFire atomically checks whether the rule may fire at now. On permission
// it records now as the firing timestamp and returns (true, 0); otherwise it
// leaves state untouched and returns the remaining cooldown. Two concurrent
// candidate fires of the same rule can never both pass.
func (g *CooldownGuard) TryFire(ruleID int64, now time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.lastFired[ruleID]; ok {
		if elapsed := now.Sub(last); elapsed < g.window {
			return false, g.window - elapsed
		}
	}
	g.lastFired[ruleID] = now
	return true, 0
}

// Prune drops entries whose cooldown has long expired so deleted rules don't
// pin map entries forever. Returns the number of entries removed.
func (g *CooldownGuard) Prune(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for ruleID, last := range g.lastFired {
		if now.Sub(last) >= g.window {
			delete(g.lastFired, ruleID)
			removed++
		}
	}
	return removed
}
