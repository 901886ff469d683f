package hooks

import (
	"path/filepath"
)

// WorktreeHookManager manages worktree lifecycle hook execution
type WorktreeHookManager struct {
	executor HookExecutor
	enabled  bool
}

// NewWorktreeHookManager creates a new worktree hook manager
func NewWorktreeHookManager(executor HookExecutor) *WorktreeHookManager {
	return &WorktreeHookManager{
		executor: executor,
		enabled:  true,
	}
}

// SetEnabled enables or disables worktree hook execution
func (whm *WorktreeHookManager) SetEnabled(enabled bool) {
	whm.enabled = enabled
}

// IsEnabled returns whether worktree hooks are enabled
func (whm *WorktreeHookManager) IsEnabled() bool {
	return whm.enabled
}

// OnWorktreeCreated triggers the worktree creation hook
func (whm *WorktreeHookManager) OnWorktreeCreated(worktreePath, branch, parentPath, projectName string) error {
	if !whm.IsEnabled() {
		return nil
	}

	context := HookContext{
		WorktreePath:   worktreePath,
		WorktreeBranch: branch,
		ProjectName:    projectName,
		SessionType:    "new",
		CustomVars: map[string]string{
			"WSMGR_PARENT_PATH":   parentPath,
			"WSMGR_WORKTREE_TYPE": "new",
		},
	}

	return whm.executor.ExecuteWorktreeCreationHook(context)
}

// OnWorktreeActivated triggers the worktree activation hook
func (whm *WorktreeHookManager) OnWorktreeActivated(worktreePath, branch, sessionID, sessionType, projectName string) error {
	if !whm.IsEnabled() {
		return nil
	}

	context := HookContext{
		WorktreePath:   worktreePath,
		WorktreeBranch: branch,
		ProjectName:    projectName,
		SessionID:      sessionID,
		SessionType:    sessionType,
		CustomVars:     make(map[string]string),
	}

	return whm.executor.ExecuteWorktreeActivationHook(context)
}

// OnSessionAttached handles a session registering against a worktree,
// whether that's a brand-new Claude/Kiro process or one reattaching to a
// workspace wsmgr already knew about (triggers the activation hook either
// way; the distinction lives in sessionType for the script to key off of).
func (whm *WorktreeHookManager) OnSessionAttached(worktreePath, branch, sessionID, sessionType, projectName string) error {
	return whm.OnWorktreeActivated(worktreePath, branch, sessionID, sessionType, projectName)
}

// WorktreeHookIntegrator provides integration points for the worktree hook system
type WorktreeHookIntegrator struct {
	hookManager *WorktreeHookManager
	enabled     bool
}

// NewWorktreeHookIntegrator creates a new worktree hook integrator
func NewWorktreeHookIntegrator(executor HookExecutor) *WorktreeHookIntegrator {
	return &WorktreeHookIntegrator{
		hookManager: NewWorktreeHookManager(executor),
		enabled:     true,
	}
}

// GetManager returns the worktree hook manager
func (whi *WorktreeHookIntegrator) GetManager() *WorktreeHookManager {
	return whi.hookManager
}

// Enable enables worktree hook integration
func (whi *WorktreeHookIntegrator) Enable() {
	whi.enabled = true
	whi.hookManager.SetEnabled(true)
}

// Disable disables worktree hook integration
func (whi *WorktreeHookIntegrator) Disable() {
	whi.enabled = false
	whi.hookManager.SetEnabled(false)
}

// IsEnabled returns whether worktree hook integration is enabled
func (whi *WorktreeHookIntegrator) IsEnabled() bool {
	return whi.enabled && whi.hookManager.IsEnabled()
}

// HandleWorktreeCreate handles worktree creation
func (whi *WorktreeHookIntegrator) HandleWorktreeCreate(worktreePath, branch, parentPath string) error {
	if !whi.IsEnabled() {
		return nil
	}

	projectName := extractProjectName(parentPath)
	return whi.hookManager.OnWorktreeCreated(worktreePath, branch, parentPath, projectName)
}

// HandleSessionAttach handles a session registering against a worktree,
// deriving the project name from the working directory.
func (whi *WorktreeHookIntegrator) HandleSessionAttach(workingDir, branch, sessionID, sessionType string) error {
	if !whi.IsEnabled() {
		return nil
	}

	projectName := extractProjectName(workingDir)
	return whi.hookManager.OnSessionAttached(workingDir, branch, sessionID, sessionType, projectName)
}

// extractProjectName extracts the project name from a path
func extractProjectName(path string) string {
	if path == "" {
		return ""
	}

	// Get the last component of the path
	projectName := filepath.Base(path)

	// Remove common worktree suffixes
	if idx := findWorktreeSuffix(projectName); idx > 0 {
		projectName = projectName[:idx]
	}

	return projectName
}

// findWorktreeSuffix finds the index of common worktree suffixes
func findWorktreeSuffix(name string) int {
	suffixes := []string{"-worktree", "_worktree", "-wt", "_wt"}

	for _, suffix := range suffixes {
		if idx := len(name) - len(suffix); idx > 0 && name[idx:] == suffix {
			return idx
		}
	}

	return -1
}
