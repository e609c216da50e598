// services/monitor/tone.go
//
// Tone and indicator sequences run as tick-stepped schedules instead of
// busy-wait delays, so the keypad stays responsive while a chime or alarm
// pattern plays out.
package monitor

import "envmon-go/types"

const (
	noteDo  = 262
	noteMi  = 330
	noteSol = 392
	noteMs  = 500

	alarmHighHz = 1000
	alarmLowHz  = 500
	alarmStepMs = 250
	alarmCycles = 5
)

// step is one scheduled driver action inside a sequence.
type step struct {
	atMs int64 // offset from sequence start
	run  func(c *Controller)
}

type sequencer struct {
	startMs int64
	steps   []step
	idx     int
	running bool
}

func (s *sequencer) active() bool { return s.running }

func (s *sequencer) begin(now int64, steps []step) {
	s.startMs = now
	s.steps = steps
	s.idx = 0
	s.running = len(steps) > 0
}

// advance runs every step whose offset has elapsed; called once per tick.
func (s *sequencer) advance(c *Controller, now int64) {
	if !s.running {
		return
	}
	for s.idx < len(s.steps) && now-s.startMs >= s.steps[s.idx].atMs {
		s.steps[s.idx].run(c)
		s.idx++
	}
	if s.idx >= len(s.steps) {
		s.running = false
	}
}

// clear forgets pending steps without running them.
func (s *sequencer) clear() {
	s.running = false
	s.steps = nil
	s.idx = 0
}

// cancelSequence clears the schedule and silences everything a sequence
// may have asserted.
func (c *Controller) cancelSequence() {
	c.seq.clear()
	c.hw.Tone.Stop()
	c.hw.Green.Set(false)
	c.hw.Red.Set(false)
	c.hw.Blue.Set(false)
}

// appendAlarm appends the two-tone alarm pattern starting at offset from,
// returning the extended schedule and the offset right after the final stop.
func appendAlarm(steps []step, from int64) ([]step, int64) {
	t := from
	for i := 0; i < alarmCycles; i++ {
		steps = append(steps,
			step{t, func(c *Controller) { c.hw.Tone.Start(alarmHighHz) }},
			step{t + alarmStepMs, func(c *Controller) { c.hw.Tone.Start(alarmLowHz) }},
		)
		t += 2 * alarmStepMs
	}
	steps = append(steps, step{t, func(c *Controller) { c.hw.Tone.Stop() }})
	return steps, t
}

// welcomeSeq: green LED plus the three-note ascending chime, then the
// configured hold before the LED drops.
func welcomeSeq(cfg types.MonitorConfig) []step {
	chimeEnd := int64(3 * noteMs)
	return []step{
		{0, func(c *Controller) { c.hw.Green.Set(true); c.hw.Tone.Start(noteDo) }},
		{noteMs, func(c *Controller) { c.hw.Tone.Start(noteMi) }},
		{2 * noteMs, func(c *Controller) { c.hw.Tone.Start(noteSol) }},
		{chimeEnd, func(c *Controller) { c.hw.Tone.Stop() }},
		{chimeEnd + int64(cfg.WelcomeHoldMs), func(c *Controller) { c.hw.Green.Set(false) }},
	}
}

// lockoutSeq: alarm pattern, then the red LED holds before the prompt
// is restored for a fresh round of attempts.
func lockoutSeq(cfg types.MonitorConfig) []step {
	steps, end := appendAlarm(nil, 0)
	steps = append(steps,
		step{end, func(c *Controller) { c.hw.Red.Set(true) }},
		step{end + int64(cfg.LockoutHoldMs), func(c *Controller) {
			c.hw.Red.Set(false)
			c.screenPrompt()
		}},
	)
	return steps
}

// eventSeq: blue LED plus the alarm pattern, used for light excursions and
// pin detector hits.
func eventSeq(cfg types.MonitorConfig) []step {
	steps := []step{{0, func(c *Controller) { c.hw.Blue.Set(true) }}}
	steps, end := appendAlarm(steps, 0)
	steps = append(steps, step{end + int64(cfg.EventHoldMs), func(c *Controller) { c.hw.Blue.Set(false) }})
	return steps
}

// alarmLoopSeq is one pass of the pattern; Alarm re-arms it every time it
// drains, for as long as the excursion holds.
func alarmLoopSeq() []step {
	steps, _ := appendAlarm(nil, 0)
	return steps
}
