// services/monitor/simulation.go
package monitor

import (
	"envmon-go/bus"
	"envmon-go/hw"
	"envmon-go/types"
)

// Simulation drives a Controller on a synthetic clock, one tick at a
// time. Scripted runs use it to get deterministic timing; nothing here
// touches the wall clock.
type Simulation struct {
	C  *Controller
	ms int64
}

func NewSimulation(cfg types.MonitorConfig, board *hw.Board, conn *bus.Connection) *Simulation {
	s := &Simulation{}
	c := NewController(cfg, board, conn)
	c.nowMs = func() int64 { return s.ms }
	c.lastMs = s.ms
	s.C = c
	return s
}

// Advance steps the controller through ms milliseconds of simulated time.
func (s *Simulation) Advance(ms int64) {
	step := int64(s.C.cfg.TickMs)
	for t := int64(0); t < ms; t += step {
		s.C.Tick()
		s.ms += step
	}
}

func (s *Simulation) NowMs() int64 { return s.ms }
