package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"envmon-go/bus"
	"envmon-go/hw/sim"
	"envmon-go/services/config"
	"envmon-go/services/heartbeat"
	"envmon-go/services/monitor"
	"envmon-go/types"
)

// runTUI boots the full stack (bus, config service, monitor loop) against
// the simulated board and renders the bench live.
func runTUI() {
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "sim")

	b := bus.NewBus(32)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	var hb heartbeat.Service
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	board, bench := sim.NewBoard()
	go monitor.Run(ctx, b.NewConnection("monitor"), board, types.DefaultMonitorConfig())

	ui := b.NewConnection("ui")
	stateSub := ui.Subscribe(bus.T("monitor", "state"))

	p := tea.NewProgram(initModel(bench, stateSub.Channel()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorLCD      = lipgloss.Color("120")
	colorGreen    = lipgloss.Color("46")
	colorRed      = lipgloss.Color("196")
	colorBlue     = lipgloss.Color("39")
	colorWarn     = lipgloss.Color("220")
)

// ── Model ────────────────────────────────────────────────────────────

type tickMsg struct{}

type model struct {
	bench  *sim.Bench
	states <-chan *bus.Message
	state  string

	temp float32
	hum  float32
	raw  uint16
	ir   bool
	hall bool

	width  int
	height int
}

func initModel(bench *sim.Bench, states <-chan *bus.Message) model {
	return model{
		bench:  bench,
		states: states,
		state:  "locked",
		temp:   25,
		hum:    30,
		raw:    280,
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tickMsg:
		for {
			select {
			case st := <-m.states:
				if v, ok := st.Payload.(types.MonitorState); ok {
					m.state = v.State
				}
			default:
				return m, tick()
			}
		}

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "*", "#":
			m.bench.Keypad.Press(key[0])
		case "a", "b", "c", "d":
			m.bench.Keypad.Press(key[0] - 'a' + 'A')

		case "t":
			m.temp--
			m.bench.Env.Set(m.temp, m.hum)
		case "T":
			m.temp++
			m.bench.Env.Set(m.temp, m.hum)
		case "y":
			m.hum -= 5
			m.bench.Env.Set(m.temp, m.hum)
		case "Y":
			m.hum += 5
			m.bench.Env.Set(m.temp, m.hum)
		case "l":
			if m.raw >= 50 {
				m.raw -= 50
			}
			m.bench.Light.SetRaw(m.raw)
		case "L":
			m.raw += 50
			if m.raw > 1023 {
				m.raw = 1023
			}
			m.bench.Light.SetRaw(m.raw)
		case "i":
			m.ir = !m.ir
			m.bench.Infrared.Set(m.ir)
		case "o":
			m.hall = !m.hall
			m.bench.Hall.Set(m.hall)
		case "x":
			m.bench.Env.FailNext(10)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────

func (m model) View() string {
	if m.width == 0 {
		return "  Loading..."
	}

	width := m.width - 2
	if width < 48 {
		width = 48
	}

	sections := []string{
		m.renderTitle(width),
		m.renderLCD(),
		m.renderIndicators(),
		m.renderBench(),
		m.renderFooter(width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderTitle(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("ENVMON BENCH")

	state := lipgloss.NewStyle().
		Foreground(colorWarn).
		Bold(true).
		Render(strings.ToUpper(m.state))

	gap := width - lipgloss.Width(logo) - lipgloss.Width(state) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + state)
}

func (m model) renderLCD() string {
	rows := m.bench.Display.Snapshot()
	content := lipgloss.NewStyle().
		Foreground(colorLCD).
		Bold(true).
		Render(strings.Join(rows, "\n"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Render(content)
}

func (m model) renderIndicators() string {
	dot := func(on bool, c lipgloss.Color, label string) string {
		s := lipgloss.NewStyle().Foreground(colorDim)
		if on {
			s = lipgloss.NewStyle().Foreground(c).Bold(true)
		}
		return s.Render("● " + label)
	}

	freq, sounding := m.bench.Tone.Active()
	buzz := lipgloss.NewStyle().Foreground(colorDim).Render("buzzer: quiet")
	if sounding {
		buzz = lipgloss.NewStyle().Foreground(colorWarn).Bold(true).
			Render(fmt.Sprintf("buzzer: %d Hz", freq))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		dot(m.bench.Green.On(), colorGreen, "green") + "  " +
			dot(m.bench.Red.On(), colorRed, "red") + "  " +
			dot(m.bench.Blue.On(), colorBlue, "blue") + "    " + buzz)
}

func (m model) renderBench() string {
	labelS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(colorLabel)

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	line := labelS.Render("temp ") + valS.Render(fmt.Sprintf("%.1f°C", m.temp)) +
		labelS.Render("  hum ") + valS.Render(fmt.Sprintf("%.1f%%", m.hum)) +
		labelS.Render("  light ") + valS.Render(fmt.Sprintf("raw %d", m.raw)) +
		labelS.Render("  ir ") + valS.Render(onOff(m.ir)) +
		labelS.Render("  hall ") + valS.Render(onOff(m.hall))

	return lipgloss.NewStyle().Padding(0, 1).Render(line)
}

func (m model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("0-9*#abcd") + keyS.Render(":keypad") +
		dimS.Render("  t/T") + keyS.Render(":temp") +
		dimS.Render("  y/Y") + keyS.Render(":hum") +
		dimS.Render("  l/L") + keyS.Render(":light") +
		dimS.Render("  i") + keyS.Render(":ir") +
		dimS.Render("  o") + keyS.Render(":hall") +
		dimS.Render("  x") + keyS.Render(":sensor fault") +
		dimS.Render("  q") + keyS.Render(":quit")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys)
}
