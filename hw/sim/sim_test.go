package sim

import (
	"math"
	"testing"

	"envmon-go/errcode"
)

func TestKeypadFIFO(t *testing.T) {
	k := NewKeypad()
	k.Press('1', '2')
	if key, ok := k.PollKey(); !ok || key != '1' {
		t.Fatalf("PollKey = %q %v", key, ok)
	}
	if key, ok := k.PollKey(); !ok || key != '2' {
		t.Fatalf("PollKey = %q %v", key, ok)
	}
	if _, ok := k.PollKey(); ok {
		t.Fatal("PollKey reported a key on an empty queue")
	}
}

func TestDisplayBoundsAreErrors(t *testing.T) {
	d := NewDisplay(16, 2)
	if err := d.SetCursor(0, 2); errcode.Of(err) != errcode.DisplayBounds {
		t.Fatalf("SetCursor(0,2) err = %v", err)
	}
	if err := d.SetCursor(16, 0); errcode.Of(err) != errcode.DisplayBounds {
		t.Fatalf("SetCursor(16,0) err = %v", err)
	}
	if err := d.SetCursor(15, 1); err != nil {
		t.Fatalf("SetCursor(15,1) err = %v", err)
	}
	if err := d.Print("xx"); errcode.Of(err) != errcode.DisplayBounds {
		t.Fatalf("overflowing Print err = %v", err)
	}
}

func TestDisplayRowTrimsPadding(t *testing.T) {
	d := NewDisplay(16, 2)
	if err := d.Print("hola"); err != nil {
		t.Fatal(err)
	}
	if got := d.Row(0); got != "hola" {
		t.Fatalf("Row(0) = %q", got)
	}
	if snap := d.Snapshot(); len(snap[0]) != 16 {
		t.Fatalf("Snapshot row width = %d", len(snap[0]))
	}
}

func TestEnvSensorFailureInjection(t *testing.T) {
	e := NewEnvSensor(25, 30)
	e.FailNext(1)
	if _, err := e.ReadTemperature(); errcode.Of(err) != errcode.SensorReadFailed {
		t.Fatalf("injected failure err = %v", err)
	}
	if v, err := e.ReadTemperature(); err != nil || v != 25 {
		t.Fatalf("recovered read = %v, %v", v, err)
	}
}

func TestEnvSensorNaNIsFailure(t *testing.T) {
	e := NewEnvSensor(float32(math.NaN()), 30)
	if _, err := e.ReadTemperature(); errcode.Of(err) != errcode.SensorReadFailed {
		t.Fatalf("NaN read err = %v", err)
	}
	if _, err := e.ReadHumidity(); err != nil {
		t.Fatalf("humidity err = %v", err)
	}
}

func TestLightSensorClampsRaw(t *testing.T) {
	l := NewLightSensor(0)
	l.SetRaw(5000)
	if raw, _ := l.ReadRaw(); raw != 1023 {
		t.Fatalf("raw = %d, want clamp to 1023", raw)
	}
}
