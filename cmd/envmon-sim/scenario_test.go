package main

import (
	"strings"
	"testing"
)

func TestScenarioHappyPath(t *testing.T) {
	script := `
# unlock and run one full monitoring cycle
keys 0690#
expect-state environmental
expect-row 0 Bienvenido
wait 4000
expect-state events_light
expect-row 0 "Moni Ambiental"
wait 3000
expect-state environmental
expect-row 0 "Moni Eventos"

# temperature excursion raises the alarm, recovery clears it
temp 45
wait 100
expect-state alarm
expect-row 0 "ALERTA CRITICA!"
expect-row 1 "T/H fuera rango!"
temp 25
wait 100
expect-state environmental
`
	if err := newScenario().run(strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
}

func TestScenarioEventDetector(t *testing.T) {
	script := `
keys 0690#
keys A
expect-state infrared
wait 500
expect-state infrared
ir on
wait 100
expect-state events_light
expect-row 0 Infrarrojo
expect-row 1 Activo
keys D
expect-state locked
expect-row 0 "Ingrese clave:"
`
	if err := newScenario().run(strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
}

func TestScenarioLockout(t *testing.T) {
	script := `
keys 1111#
expect-row 0 "Error intento 1"
keys 2222#
keys 3333#
expect-row 0 Bloqueado
wait 5000
expect-row 0 "Ingrese clave:"
keys 0690#
expect-state environmental
`
	if err := newScenario().run(strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
}

func TestScenarioReportsLineNumber(t *testing.T) {
	err := newScenario().run(strings.NewReader("keys 0690#\nbogus-command\n"))
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the failing line", err)
	}
}

func TestScenarioExpectFailure(t *testing.T) {
	err := newScenario().run(strings.NewReader("expect-state alarm\n"))
	if err == nil || !strings.Contains(err.Error(), "want \"alarm\"") {
		t.Errorf("expect-state mismatch not reported: %v", err)
	}
}
