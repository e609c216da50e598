// services/monitor/fsm.go
package monitor

import (
	"math"
	"time"

	"envmon-go/bus"
	"envmon-go/errcode"
	"envmon-go/hw"
	"envmon-go/types"
	"envmon-go/x/mathx"
	"envmon-go/x/timex"
)

// -----------------------------------------------------------------------------
// States
// -----------------------------------------------------------------------------

type State uint8

const (
	StateLocked State = iota
	StateEnvironmental
	StateEventsLight
	StateAlert
	StateAlarm
	StateInfrared
	StateHall
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateEnvironmental:
		return "environmental"
	case StateEventsLight:
		return "events_light"
	case StateAlert:
		return "alert"
	case StateAlarm:
		return "alarm"
	case StateInfrared:
		return "infrared"
	case StateHall:
		return "hall"
	}
	return "unknown"
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// Controller owns every piece of mutable monitor state. It is driven
// exclusively from the service tick loop, so no locking is needed.
type Controller struct {
	cfg  types.MonitorConfig
	hw   *hw.Board
	conn *bus.Connection // nil in unit tests

	state  State
	lastMs int64 // last transition timestamp (debounce reference)

	gate     gate
	seq      sequencer
	envFails int // consecutive env read failures

	nowMs func() int64
}

func NewController(cfg types.MonitorConfig, board *hw.Board, conn *bus.Connection) *Controller {
	c := &Controller{
		cfg:   cfg,
		hw:    board,
		conn:  conn,
		state: StateLocked,
		nowMs: timex.NowMs,
	}
	c.lastMs = c.nowMs()
	c.screenPrompt()
	c.publishState()
	return c
}

func (c *Controller) State() State { return c.state }

// Tick runs one cooperative poll cycle: advance any scheduled tone or
// indicator steps, read the keypad, then dispatch the active state.
func (c *Controller) Tick() {
	now := c.nowMs()
	c.seq.advance(c, now)

	key, ok := c.hw.Keypad.PollKey()
	if c.state == StateLocked {
		if ok {
			c.gateKey(key, now)
		}
		return
	}
	if ok {
		c.manualKey(key, now)
	}
	if next := c.dispatch(now); next != c.state {
		c.transition(next, now)
	}
}

// manualKey handles the unlocked keypad: the otherwise unused letter keys
// select the event-detector states and re-arm the lock.
func (c *Controller) manualKey(key byte, now int64) {
	switch key {
	case 'A':
		c.transition(StateInfrared, now)
	case 'B':
		c.transition(StateHall, now)
	case 'D':
		c.transition(StateLocked, now)
	}
}

func (c *Controller) dispatch(now int64) State {
	switch c.state {
	case StateEnvironmental:
		return c.stateEnvironmental(now)
	case StateEventsLight:
		return c.stateEventsLight(now)
	case StateAlert:
		return c.stateAlert(now)
	case StateAlarm:
		return c.stateAlarm(now)
	case StateInfrared:
		return c.stateInfrared(now)
	case StateHall:
		return c.stateHall(now)
	}
	return c.state
}

func (c *Controller) transition(next State, now int64) {
	if next == c.state {
		return
	}
	c.state = next
	c.lastMs = now
	switch next {
	case StateAlarm:
		c.enterAlarm(now)
	case StateLocked:
		c.enterLocked()
	}
	c.publishState()
}

// -----------------------------------------------------------------------------
// State handlers (each returns the next state)
// -----------------------------------------------------------------------------

func (c *Controller) stateEnvironmental(now int64) State {
	t, h, err := c.readEnv()
	if err != nil {
		return c.envDegraded(now)
	}
	c.publishEnv(t, h, now)

	// Out-of-range readings escalate immediately, no debounce.
	if !mathx.Between(t, c.cfg.TempMinC, c.cfg.TempMaxC) ||
		!mathx.Between(h, c.cfg.HumMinPct, c.cfg.HumMaxPct) {
		return StateAlarm
	}
	if now-c.lastMs >= int64(c.cfg.EnvRefreshMs) {
		c.screenEnv(t, h)
		return StateEventsLight
	}
	return StateEnvironmental
}

func (c *Controller) stateEventsLight(now int64) State {
	lux, err := c.readLux()
	if err != nil {
		c.publishStatus("light", types.LinkDegraded, string(errcode.Of(err)), now)
		return c.state
	}
	if now-c.lastMs < int64(c.cfg.LightRefreshMs) {
		return c.state
	}
	c.screenLight(lux)
	c.publishLight(lux, now)
	if lux > c.cfg.LuxHigh || lux < c.cfg.LuxLow {
		return StateAlert
	}
	return StateEnvironmental
}

func (c *Controller) stateAlert(now int64) State {
	lux, err := c.readLux()
	if err != nil {
		c.publishStatus("light", types.LinkDegraded, string(errcode.Of(err)), now)
		return c.state
	}
	if now-c.lastMs < int64(c.cfg.LightRefreshMs) {
		return c.state
	}
	c.screenAlert(lux)
	if lux > c.cfg.LuxHigh || lux < c.cfg.LuxLow {
		c.seq.begin(now, eventSeq(c.cfg))
	}
	return StateEventsLight
}

func (c *Controller) stateAlarm(now int64) State {
	if c.cfg.FailSafeHold {
		c.alarmHold()
		return StateEnvironmental
	}
	t, h, err := c.readEnv()
	if err == nil &&
		mathx.Between(t, c.cfg.TempMinC, c.cfg.TempMaxC) &&
		mathx.Between(h, c.cfg.HumMinPct, c.cfg.HumMaxPct) {
		c.cancelSequence()
		c.publishEnv(t, h, now)
		return StateEnvironmental
	}
	// Keep the pattern sounding while the excursion holds.
	c.hw.Red.Set(true)
	if !c.seq.active() {
		c.seq.begin(now, alarmLoopSeq())
	}
	return StateAlarm
}

func (c *Controller) stateInfrared(now int64) State {
	if !c.hw.Infrared.Read() {
		return c.state
	}
	c.screenInfrared()
	c.publishPinEvent("infrared", now)
	c.seq.begin(now, eventSeq(c.cfg))
	return StateEventsLight
}

func (c *Controller) stateHall(now int64) State {
	if !c.hw.Hall.Read() {
		return c.state
	}
	c.screenHall()
	c.publishPinEvent("hall", now)
	c.seq.begin(now, eventSeq(c.cfg))
	return StateEventsLight
}

// -----------------------------------------------------------------------------
// Entries and helpers
// -----------------------------------------------------------------------------

func (c *Controller) enterAlarm(now int64) {
	c.cancelSequence()
	c.hw.Red.Set(true)
	c.screenAlarm()
	c.seq.begin(now, alarmLoopSeq())
}

func (c *Controller) enterLocked() {
	c.cancelSequence()
	c.gate.reset()
	c.screenPrompt()
}

// envDegraded records a failed env read. The state holds until the failure
// limit is reached; an unreadable sensor cannot prove the environment is
// safe, so repeated failures escalate to Alarm.
func (c *Controller) envDegraded(now int64) State {
	c.envFails++
	c.publishStatus("env", types.LinkDegraded, string(errcode.SensorReadFailed), now)
	if c.envFails >= c.cfg.SensorFailLimit {
		return StateAlarm
	}
	return c.state
}

func (c *Controller) readEnv() (t, h float32, err error) {
	t, err = c.hw.Env.ReadTemperature()
	if err == nil {
		h, err = c.hw.Env.ReadHumidity()
	}
	if err == nil && (isNaN(t) || isNaN(h)) {
		err = errcode.SensorReadFailed
	}
	return t, h, err
}

func (c *Controller) readLux() (float32, error) {
	raw, err := c.hw.Light.ReadRaw()
	if err != nil {
		return 0, err
	}
	return luxFromRaw(raw, c.cfg.RL10, c.cfg.Gamma), nil
}

// luxFromRaw converts a 10-bit divider sample to illuminance using the
// photoresistor's log-log calibration (RL10 kΩ at 10 lx, slope gamma).
// The sample is clamped off the rails to keep the divider math finite.
func luxFromRaw(raw uint16, rl10, gamma float32) float32 {
	r := mathx.Clamp(int(raw), 1, 1022)
	voltage := float64(r) / 1024 * 5
	resistance := 2000 * voltage / (1 - voltage/5)
	lux := math.Pow(float64(rl10)*1000*math.Pow(10, float64(gamma))/resistance, 1/float64(gamma))
	return float32(lux)
}

func isNaN(v float32) bool { return math.IsNaN(float64(v)) }

// alarmHold is the fail-safe hold: block until readings recover, keypad
// unresponsive for the duration. Enabled only by Config.FailSafeHold.
func (c *Controller) alarmHold() {
	c.hw.Tone.Start(alarmHighHz)
	for {
		t, h, err := c.readEnv()
		if err == nil &&
			mathx.Between(t, c.cfg.TempMinC, c.cfg.TempMaxC) &&
			mathx.Between(h, c.cfg.HumMinPct, c.cfg.HumMaxPct) {
			break
		}
		time.Sleep(time.Duration(c.cfg.TickMs) * time.Millisecond)
	}
	c.hw.Tone.Stop()
	c.hw.Red.Set(false)
}
