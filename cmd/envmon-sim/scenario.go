package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"envmon-go/bus"
	"envmon-go/hw/sim"
	"envmon-go/services/monitor"
	"envmon-go/types"
)

// A scenario is a line-oriented script. Blank lines and '#' comments are
// skipped; everything else is a command:
//
//	keys 0690#          feed keypad input, one key per tick
//	temp 45.5           set the temperature (°C)
//	hum 30              set the relative humidity (%RH)
//	light 280           set the raw photoresistor sample (0..1023)
//	lux 400             set the sample via a target illuminance
//	ir on|off           drive the infrared detector
//	hall on|off         drive the hall detector
//	wait 4000           advance simulated time (ms)
//	expect-state alarm  assert the controller state
//	expect-row 0 text…  assert a rendered display row
type scenario struct {
	sim   *monitor.Simulation
	bench *sim.Bench
	cfg   types.MonitorConfig
	echo  io.Writer // nil for silent runs

	temp float32
	hum  float32
}

func newScenario() *scenario {
	cfg := types.DefaultMonitorConfig()
	board, bench := sim.NewBoard()
	b := bus.NewBus(32)
	return &scenario{
		sim:   monitor.NewSimulation(cfg, board, b.NewConnection("monitor")),
		bench: bench,
		cfg:   cfg,
		temp:  25,
		hum:   30,
	}
}

func runScriptFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s := newScenario()
	s.echo = os.Stdout
	return s.run(f)
}

func (s *scenario) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			return fmt.Errorf("line %d: %v", lineNo, err)
		}
		if len(args) == 0 {
			continue
		}
		if err := s.exec(args); err != nil {
			return fmt.Errorf("line %d: %v", lineNo, err)
		}
		if s.echo != nil {
			fmt.Fprintf(s.echo, "%6dms %-13s [%s][%s] %s\n",
				s.sim.NowMs(), s.sim.C.State(),
				s.bench.Display.Row(0), s.bench.Display.Row(1), line)
		}
	}
	return sc.Err()
}

func (s *scenario) exec(args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "key", "keys":
		if len(rest) != 1 {
			return fmt.Errorf("%s wants one argument", cmd)
		}
		s.bench.Keypad.Press([]byte(rest[0])...)
		s.sim.Advance(int64(s.cfg.TickMs) * int64(len(rest[0])+1))
		return nil

	case "temp":
		v, err := parseFloat(rest)
		if err != nil {
			return err
		}
		s.temp = v
		s.bench.Env.Set(s.temp, s.hum)
		return nil

	case "hum":
		v, err := parseFloat(rest)
		if err != nil {
			return err
		}
		s.hum = v
		s.bench.Env.Set(s.temp, s.hum)
		return nil

	case "light":
		v, err := parseInt(rest)
		if err != nil {
			return err
		}
		s.bench.Light.SetRaw(uint16(v))
		return nil

	case "lux":
		v, err := parseFloat(rest)
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("lux must be positive")
		}
		s.bench.Light.SetRaw(rawForLux(float64(v), float64(s.cfg.RL10), float64(s.cfg.Gamma)))
		return nil

	case "ir", "hall":
		on, err := parseOnOff(rest)
		if err != nil {
			return err
		}
		if cmd == "ir" {
			s.bench.Infrared.Set(on)
		} else {
			s.bench.Hall.Set(on)
		}
		return nil

	case "wait":
		v, err := parseInt(rest)
		if err != nil {
			return err
		}
		s.sim.Advance(int64(v))
		return nil

	case "expect-state":
		if len(rest) != 1 {
			return fmt.Errorf("expect-state wants one argument")
		}
		if got := s.sim.C.State().String(); got != rest[0] {
			return fmt.Errorf("state = %q, want %q", got, rest[0])
		}
		return nil

	case "expect-row":
		if len(rest) != 2 {
			return fmt.Errorf("expect-row wants <row> <text>")
		}
		row, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("bad row %q", rest[0])
		}
		if got := s.bench.Display.Row(row); got != rest[1] {
			return fmt.Errorf("row %d = %q, want %q", row, got, rest[1])
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func parseFloat(rest []string) (float32, error) {
	if len(rest) != 1 {
		return 0, fmt.Errorf("want one numeric argument")
	}
	v, err := strconv.ParseFloat(rest[0], 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", rest[0])
	}
	return float32(v), nil
}

func parseInt(rest []string) (int, error) {
	if len(rest) != 1 {
		return 0, fmt.Errorf("want one integer argument")
	}
	v, err := strconv.Atoi(rest[0])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad integer %q", rest[0])
	}
	return v, nil
}

func parseOnOff(rest []string) (bool, error) {
	if len(rest) != 1 {
		return false, fmt.Errorf("want on or off")
	}
	switch rest[0] {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("bad value %q, want on or off", rest[0])
}

// rawForLux inverts the photoresistor calibration to a divider sample.
func rawForLux(lux, rl10, gamma float64) uint16 {
	resistance := rl10 * 1000 * math.Pow(10, gamma) / math.Pow(lux, gamma)
	voltage := resistance / (2000 + resistance/5)
	return uint16(voltage / 5 * 1024)
}
