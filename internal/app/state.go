package app

import "sync"

// Lifecycle phases reported by the monitoring API.
const (
	PhaseStarting = "starting"
	PhaseOnline   = "online"
	PhaseStopped  = "stopped"
)

// BotState tracks the bot lifecycle phase for status reporting.
type BotState struct {
	mu    sync.RWMutex
	phase string
}

// NewBotState starts in the "starting" phase.
func NewBotState() *BotState {
	return &BotState{phase: PhaseStarting}
}

// Set replaces the current phase.
func (s *BotState) Set(phase string) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

// Phase returns the current phase.
func (s *BotState) Phase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}
