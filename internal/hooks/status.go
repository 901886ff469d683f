package hooks

import (
	"context"
	"log"
	"sync"
	"time"
)

// StatusHookManager manages status hook execution
type StatusHookManager struct {
	executor         HookExecutor
	enabled          bool
	debounceInterval time.Duration
	lastStateChange  map[string]time.Time
	mu               sync.RWMutex
}

// NewStatusHookManager creates a new status hook manager
func NewStatusHookManager(executor HookExecutor) *StatusHookManager {
	return &StatusHookManager{
		executor:         executor,
		enabled:          true,
		debounceInterval: 1 * time.Second, // Debounce rapid state changes
		lastStateChange:  make(map[string]time.Time),
	}
}

// SetEnabled enables or disables status hook execution
func (shm *StatusHookManager) SetEnabled(enabled bool) {
	shm.mu.Lock()
	defer shm.mu.Unlock()
	shm.enabled = enabled
}

// IsEnabled returns whether status hooks are enabled
func (shm *StatusHookManager) IsEnabled() bool {
	shm.mu.RLock()
	defer shm.mu.RUnlock()
	return shm.enabled
}

// OnStateChange handles a state change event and triggers appropriate hooks
func (shm *StatusHookManager) OnStateChange(oldState, newState string, context HookContext) {
	if !shm.IsEnabled() {
		return
	}

	// Debounce rapid state changes for the same process/session
	key := context.SessionID
	if key == "" {
		key = context.WorktreePath
	}

	shm.mu.Lock()
	now := time.Now()
	if lastChange, exists := shm.lastStateChange[key]; exists {
		if now.Sub(lastChange) < shm.debounceInterval {
			shm.mu.Unlock()
			return // Skip this state change due to debouncing
		}
	}
	shm.lastStateChange[key] = now
	shm.mu.Unlock()

	// Map state to hook type
	hookType, ok := mapStateToHookType(newState)
	if !ok {
		return // Unknown state, skip
	}

	// Update context with state information
	context.OldState = oldState
	context.NewState = newState

	// Execute the appropriate status hook
	if err := shm.executor.ExecuteStatusHook(hookType, context); err != nil {
		log.Printf("Status hook execution failed for state %s: %v", newState, err)
	}
}

// CleanupDebounceMap cleans up old entries from the debounce map
func (shm *StatusHookManager) CleanupDebounceMap() {
	shm.mu.Lock()
	defer shm.mu.Unlock()

	cutoff := time.Now().Add(-5 * time.Minute) // Clean entries older than 5 minutes
	for key, timestamp := range shm.lastStateChange {
		if timestamp.Before(cutoff) {
			delete(shm.lastStateChange, key)
		}
	}
}

// StartCleanupRoutine starts a background routine to clean up the debounce map
func (shm *StatusHookManager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			shm.CleanupDebounceMap()
		case <-ctx.Done():
			return
		}
	}
}

// mapStateToHookType maps a session.Status string to a hook type. success,
// error, and disconnected all settle the session back to a non-busy state
// without a dedicated script slot, so they map to the idle hook rather than
// going unfired.
func mapStateToHookType(state string) (HookType, bool) {
	switch state {
	case "idle", "success", "error", "disconnected":
		return HookTypeStatusIdle, true
	case "working":
		return HookTypeStatusBusy, true
	case "needs_input":
		return HookTypeStatusWaiting, true
	default:
		return HookTypeStatusIdle, false // Unknown state
	}
}

// StatusHookIntegrator provides integration points for the status hook system
type StatusHookIntegrator struct {
	hookManager *StatusHookManager
	enabled     bool
}

// NewStatusHookIntegrator creates a new status hook integrator
func NewStatusHookIntegrator(executor HookExecutor) *StatusHookIntegrator {
	return &StatusHookIntegrator{
		hookManager: NewStatusHookManager(executor),
		enabled:     true,
	}
}

// GetManager returns the status hook manager
func (shi *StatusHookIntegrator) GetManager() *StatusHookManager {
	return shi.hookManager
}

// Enable enables status hook integration
func (shi *StatusHookIntegrator) Enable() {
	shi.enabled = true
	shi.hookManager.SetEnabled(true)
}

// Disable disables status hook integration
func (shi *StatusHookIntegrator) Disable() {
	shi.enabled = false
	shi.hookManager.SetEnabled(false)
}

// IsEnabled returns whether status hook integration is enabled
func (shi *StatusHookIntegrator) IsEnabled() bool {
	return shi.enabled && shi.hookManager.IsEnabled()
}

