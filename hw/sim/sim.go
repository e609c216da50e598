// Package sim provides host-side driver doubles for tests and the simulator.
// Everything is safe for concurrent use: the controller ticks on one
// goroutine while tests or the TUI poke values from another.
package sim

import (
	"math"
	"strings"
	"sync"

	"envmon-go/errcode"
	"envmon-go/hw"
)

// ----------------------------- Keypad -----------------------------------

type Keypad struct {
	mu   sync.Mutex
	keys []byte
}

func NewKeypad() *Keypad { return &Keypad{} }

// Press enqueues key events in order.
func (k *Keypad) Press(keys ...byte) {
	k.mu.Lock()
	k.keys = append(k.keys, keys...)
	k.mu.Unlock()
}

func (k *Keypad) PollKey() (byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.keys) == 0 {
		return 0, false
	}
	key := k.keys[0]
	k.keys = k.keys[1:]
	return key, true
}

// ----------------------------- Display ----------------------------------

type Display struct {
	mu       sync.Mutex
	cols     int
	rows     int
	fb       [][]byte
	curCol   int
	curRow   int
	writes   int
}

func NewDisplay(cols, rows int) *Display {
	d := &Display{cols: cols, rows: rows}
	d.fb = make([][]byte, rows)
	for r := range d.fb {
		d.fb[r] = blankRow(cols)
	}
	return d
}

func blankRow(cols int) []byte {
	row := make([]byte, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

func (d *Display) Geometry() (int, int) { return d.cols, d.rows }

func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for r := range d.fb {
		d.fb[r] = blankRow(d.cols)
	}
	d.curCol, d.curRow = 0, 0
	d.writes++
	return nil
}

func (d *Display) SetCursor(col, row int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if col < 0 || col >= d.cols || row < 0 || row >= d.rows {
		return &errcode.E{C: errcode.DisplayBounds, Op: "display.set_cursor"}
	}
	d.curCol, d.curRow = col, row
	return nil
}

func (d *Display) Print(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	for i := 0; i < len(s); i++ {
		if d.curCol >= d.cols {
			return &errcode.E{C: errcode.DisplayBounds, Op: "display.print"}
		}
		d.fb[d.curRow][d.curCol] = s[i]
		d.curCol++
	}
	return nil
}

// Row returns the rendered row, right-trimmed.
func (d *Display) Row(r int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r < 0 || r >= d.rows {
		return ""
	}
	return strings.TrimRight(string(d.fb[r]), " ")
}

// Snapshot returns the raw framebuffer rows, untrimmed.
func (d *Display) Snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, d.rows)
	for r := range d.fb {
		out[r] = string(d.fb[r])
	}
	return out
}

// Writes counts Clear/Print calls; tests use it to assert debouncing.
func (d *Display) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// ----------------------------- Env sensor -------------------------------

type EnvSensor struct {
	mu       sync.Mutex
	tempC    float32
	humPct   float32
	failNext int
}

func NewEnvSensor(tempC, humPct float32) *EnvSensor {
	return &EnvSensor{tempC: tempC, humPct: humPct}
}

func (e *EnvSensor) Set(tempC, humPct float32) {
	e.mu.Lock()
	e.tempC, e.humPct = tempC, humPct
	e.mu.Unlock()
}

// FailNext makes the next n reads fail, modelling a disconnected DHT.
func (e *EnvSensor) FailNext(n int) {
	e.mu.Lock()
	e.failNext = n
	e.mu.Unlock()
}

// take enforces the failure injection and NaN mapping; callers hold the lock.
func (e *EnvSensor) take(v float32) (float32, error) {
	if e.failNext > 0 {
		e.failNext--
		return 0, errcode.SensorReadFailed
	}
	if math.IsNaN(float64(v)) {
		return 0, errcode.SensorReadFailed
	}
	return v, nil
}

func (e *EnvSensor) ReadTemperature() (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.take(e.tempC)
}

func (e *EnvSensor) ReadHumidity() (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.take(e.humPct)
}

// ----------------------------- Light sensor -----------------------------

type LightSensor struct {
	mu  sync.Mutex
	raw uint16
}

func NewLightSensor(raw uint16) *LightSensor { return &LightSensor{raw: raw} }

func (l *LightSensor) SetRaw(raw uint16) {
	l.mu.Lock()
	if raw > 1023 {
		raw = 1023
	}
	l.raw = raw
	l.mu.Unlock()
}

func (l *LightSensor) ReadRaw() (uint16, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.raw, nil
}

// ----------------------------- Digital pin ------------------------------

type Pin struct {
	mu sync.Mutex
	on bool
}

func NewPin() *Pin { return &Pin{} }

func (p *Pin) Set(on bool) {
	p.mu.Lock()
	p.on = on
	p.mu.Unlock()
}

func (p *Pin) Read() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// ----------------------------- Tone -------------------------------------

type Tone struct {
	mu     sync.Mutex
	active bool
	freq   uint16
	notes  []uint16 // every Start() in order
}

func NewTone() *Tone { return &Tone{} }

func (t *Tone) Start(freqHz uint16) {
	t.mu.Lock()
	t.active = true
	t.freq = freqHz
	t.notes = append(t.notes, freqHz)
	t.mu.Unlock()
}

func (t *Tone) Stop() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

func (t *Tone) Active() (uint16, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freq, t.active
}

func (t *Tone) Notes() []uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]uint16, len(t.notes))
	copy(out, t.notes)
	return out
}

// ----------------------------- Indicator --------------------------------

type Indicator struct {
	mu sync.Mutex
	on bool
}

func NewIndicator() *Indicator { return &Indicator{} }

func (i *Indicator) Set(on bool) {
	i.mu.Lock()
	i.on = on
	i.mu.Unlock()
}

func (i *Indicator) On() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.on
}

// ----------------------------- Board ------------------------------------

// NewBoard wires a complete simulated board with sane ambient conditions.
func NewBoard() (*hw.Board, *Bench) {
	bench := &Bench{
		Keypad:   NewKeypad(),
		Display:  NewDisplay(16, 2),
		Env:      NewEnvSensor(25, 30),
		Light:    NewLightSensor(280), // ~400 lx with default calibration
		Infrared: NewPin(),
		Hall:     NewPin(),
		Tone:     NewTone(),
		Green:    NewIndicator(),
		Red:      NewIndicator(),
		Blue:     NewIndicator(),
	}
	return &hw.Board{
		Keypad:   bench.Keypad,
		Display:  bench.Display,
		Env:      bench.Env,
		Light:    bench.Light,
		Infrared: bench.Infrared,
		Hall:     bench.Hall,
		Tone:     bench.Tone,
		Green:    bench.Green,
		Red:      bench.Red,
		Blue:     bench.Blue,
	}, bench
}

// Bench exposes the concrete doubles for poking from tests and the TUI.
type Bench struct {
	Keypad   *Keypad
	Display  *Display
	Env      *EnvSensor
	Light    *LightSensor
	Infrared *Pin
	Hall     *Pin
	Tone     *Tone
	Green    *Indicator
	Red      *Indicator
	Blue     *Indicator
}
