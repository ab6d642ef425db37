package service

import (
	"time"
)

// CycleSource — откуда берём время последнего торгового цикла.
type CycleSource interface {
	LastCycle() time.Time
	Running() bool
}

type State struct {
	startedAt time.Time
	cycles    CycleSource
}

func NewState(src CycleSource) *State {
	return &State{startedAt: time.Now(), cycles: src}
}

// Ready — хотя бы один цикл прошёл до конца.
func (s *State) Ready() bool { return !s.LastCycle().IsZero() }

func (s *State) LastCycle() time.Time {
	if s.cycles == nil {
		return time.Time{}
	}
	return s.cycles.LastCycle()
}

func (s *State) Trading() bool { return s.cycles != nil && s.cycles.Running() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
