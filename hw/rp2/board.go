//go:build rp2040

// Package rp2 binds the monitor driver contracts to the Pico wiring:
// 4x4 matrix keypad, HD44780 panel in 4-bit mode, DHT11, LDR divider on
// the ADC, and PWM buzzer. An optional UART feed injects key events for
// bench testing without the keypad attached.
package rp2

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/drivers/hd44780"
	"tinygo.org/x/drivers/tone"

	"envmon-go/errcode"
	"envmon-go/hw"
)

// ----------------------------- Keypad ------------------------------------

var keymap = [4][4]byte{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// matrixKeypad scans row-by-row with the columns pulled down. A key is
// reported once per press (edge detection, the tick loop debounces).
type matrixKeypad struct {
	rows [4]machine.Pin
	cols [4]machine.Pin
	held int16 // packed row<<4|col of the held key, -1 when idle

	uart *uartx.UART // optional serial key feed
}

func newMatrixKeypad(rows, cols [4]machine.Pin, uart *uartx.UART) *matrixKeypad {
	k := &matrixKeypad{rows: rows, cols: cols, held: -1, uart: uart}
	for _, r := range k.rows {
		r.Configure(machine.PinConfig{Mode: machine.PinOutput})
		r.Low()
	}
	for _, c := range k.cols {
		c.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	}
	return k
}

func (k *matrixKeypad) scan() (row, col int, ok bool) {
	for r := range k.rows {
		k.rows[r].High()
		for c := range k.cols {
			if k.cols[c].Get() {
				k.rows[r].Low()
				return r, c, true
			}
		}
		k.rows[r].Low()
	}
	return 0, 0, false
}

func (k *matrixKeypad) PollKey() (byte, bool) {
	if k.uart != nil && k.uart.Buffered() > 0 {
		if b, err := k.uart.ReadByte(); err == nil && keyValid(b) {
			return b, true
		}
	}
	r, c, ok := k.scan()
	if !ok {
		k.held = -1
		return 0, false
	}
	packed := int16(r<<4 | c)
	if packed == k.held {
		return 0, false // still the same press
	}
	k.held = packed
	return keymap[r][c], true
}

func keyValid(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'A' && b <= 'D', b == '*', b == '#':
		return true
	}
	return false
}

// ----------------------------- Display ------------------------------------

type lcd struct {
	dev        hd44780.Device
	cols, rows int
}

func (l *lcd) Geometry() (int, int) { return l.cols, l.rows }

func (l *lcd) Clear() error {
	l.dev.ClearDisplay()
	return nil
}

func (l *lcd) SetCursor(col, row int) error {
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return &errcode.E{C: errcode.DisplayBounds, Op: "display.set_cursor"}
	}
	l.dev.SetCursor(uint8(col), uint8(row))
	return nil
}

func (l *lcd) Print(s string) error {
	if _, err := l.dev.Write([]byte(s)); err != nil {
		return &errcode.E{C: errcode.Error, Op: "display.print", Err: err}
	}
	return l.dev.Display()
}

// ----------------------------- Sensors ------------------------------------

type dhtSensor struct {
	dev dht.DummyDevice
}

func (d *dhtSensor) ReadTemperature() (float32, error) {
	t, err := d.dev.TemperatureFloat(dht.C)
	if err != nil {
		return 0, &errcode.E{C: errcode.SensorReadFailed, Op: "dht.temperature", Err: err}
	}
	return t, nil
}

func (d *dhtSensor) ReadHumidity() (float32, error) {
	h, err := d.dev.HumidityFloat()
	if err != nil {
		return 0, &errcode.E{C: errcode.SensorReadFailed, Op: "dht.humidity", Err: err}
	}
	return h, nil
}

type ldr struct {
	adc machine.ADC
}

func (l *ldr) ReadRaw() (uint16, error) {
	// 16-bit ADC reading scaled to the 10-bit calibration domain.
	return l.adc.Get() >> 6, nil
}

type inputPin struct {
	p machine.Pin
}

func (i *inputPin) Read() bool { return i.p.Get() }

// ----------------------------- Tone and LEDs -------------------------------

type buzzer struct {
	sp tone.Speaker
}

func (b *buzzer) Start(freqHz uint16) {
	if freqHz == 0 {
		b.sp.Stop()
		return
	}
	b.sp.SetPeriod(uint64(1e9) / uint64(freqHz))
}

func (b *buzzer) Stop() { b.sp.Stop() }

type led struct {
	p machine.Pin
}

func (l *led) Set(on bool) { l.p.Set(on) }

func newLED(p machine.Pin) *led {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	return &led{p: p}
}

// ----------------------------- Board ------------------------------------

// Pin plan for the reference Pico build.
const (
	pinKeyRow0 = machine.GP2
	pinKeyRow1 = machine.GP3
	pinKeyRow2 = machine.GP4
	pinKeyRow3 = machine.GP5
	pinKeyCol0 = machine.GP6
	pinKeyCol1 = machine.GP7
	pinKeyCol2 = machine.GP8
	pinKeyCol3 = machine.GP9

	pinLCDRS = machine.GP10
	pinLCDEN = machine.GP11
	pinLCDD4 = machine.GP12
	pinLCDD5 = machine.GP13
	pinLCDD6 = machine.GP14
	pinLCDD7 = machine.GP15

	pinDHT      = machine.GP16
	pinBuzzer   = machine.GP17
	pinInfrared = machine.GP18
	pinHall     = machine.GP19

	pinLEDGreen = machine.GP20
	pinLEDRed   = machine.GP21
	pinLEDBlue  = machine.GP22

	pinLDR = machine.GP26 // ADC0
)

// NewBoard configures every peripheral and returns the assembled handle
// set. The UART key feed is optional; pass nil to run keypad-only.
func NewBoard(uart *uartx.UART) (*hw.Board, error) {
	machine.InitADC()

	lcdDev, err := hd44780.NewGPIO4Bit(
		[]machine.Pin{pinLCDD4, pinLCDD5, pinLCDD6, pinLCDD7},
		pinLCDEN, pinLCDRS, machine.NoPin)
	if err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "lcd.new", Err: err}
	}
	if err := lcdDev.Configure(hd44780.Config{Width: 16, Height: 2}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "lcd.configure", Err: err}
	}

	speaker, err := tone.New(machine.PWM0, pinBuzzer)
	if err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "tone.new", Err: err}
	}

	pinInfrared.Configure(machine.PinConfig{Mode: machine.PinInput})
	pinHall.Configure(machine.PinConfig{Mode: machine.PinInput})

	adc := machine.ADC{Pin: pinLDR}
	adc.Configure(machine.ADCConfig{})

	return &hw.Board{
		Keypad: newMatrixKeypad(
			[4]machine.Pin{pinKeyRow0, pinKeyRow1, pinKeyRow2, pinKeyRow3},
			[4]machine.Pin{pinKeyCol0, pinKeyCol1, pinKeyCol2, pinKeyCol3},
			uart),
		Display:  &lcd{dev: lcdDev, cols: 16, rows: 2},
		Env:      &dhtSensor{dev: dht.New(pinDHT, dht.DHT11)},
		Light:    &ldr{adc: adc},
		Infrared: &inputPin{p: pinInfrared},
		Hall:     &inputPin{p: pinHall},
		Tone:     &buzzer{sp: speaker},
		Green:    newLED(pinLEDGreen),
		Red:      newLED(pinLEDRed),
		Blue:     newLED(pinLEDBlue),
	}, nil
}
