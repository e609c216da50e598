// Package hw defines the driver contracts the monitor core consumes.
// Real hardware lives behind build tags in hw/rp2; hw/sim provides
// deterministic host implementations.
package hw

// Keypad reports keys from a 4×4 matrix: '0'–'9', 'A'–'D', '*', '#'.
type Keypad interface {
	// PollKey is non-blocking; ok is false when no key is pending.
	PollKey() (key byte, ok bool)
}

// Display is a cursor-addressed character panel (16×2 on the reference
// board). SetCursor must reject addresses outside the declared geometry
// with errcode.DisplayBounds rather than wrapping or truncating.
type Display interface {
	Clear() error
	SetCursor(col, row int) error
	Print(s string) error
	Geometry() (cols, rows int)
}

// EnvSensor reads temperature (°C) and relative humidity (%RH).
// A NaN from the underlying device is reported as errcode.SensorReadFailed.
type EnvSensor interface {
	ReadTemperature() (float32, error)
	ReadHumidity() (float32, error)
}

// LightSensor samples the photoresistor divider, 0..1023.
type LightSensor interface {
	ReadRaw() (uint16, error)
}

// DigitalPin is a debounced boolean input (proximity, hall effect).
type DigitalPin interface {
	Read() bool
}

// Tone drives the buzzer. Start is non-blocking; the caller owns timing.
type Tone interface {
	Start(freqHz uint16)
	Stop()
}

// Indicator is a single LED.
type Indicator interface {
	Set(on bool)
}

// Board groups the driver handles the controller consumes.
type Board struct {
	Keypad   Keypad
	Display  Display
	Env      EnvSensor
	Light    LightSensor
	Infrared DigitalPin
	Hall     DigitalPin
	Tone     Tone

	Green Indicator
	Red   Indicator
	Blue  Indicator
}
