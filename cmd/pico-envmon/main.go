//go:build rp2040

package main

import (
	"context"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"envmon-go/bus"
	"envmon-go/hw/rp2"
	"envmon-go/services/config"
	"envmon-go/services/heartbeat"
	"envmon-go/services/monitor"
	"envmon-go/types"
)

func main() {
	time.Sleep(3 * time.Second) // let USB serial settle

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "pico")

	println("[main] bootstrapping bus …")
	b := bus.NewBus(8)
	cfgConn := b.NewConnection("config")
	monConn := b.NewConnection("monitor")
	uiConn := b.NewConnection("ui")

	println("[main] publishing embedded config …")
	config.NewConfigService().Start(ctx, cfgConn)

	var hb heartbeat.Service
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	// Serial key feed for bench testing without the keypad attached.
	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{BaudRate: 115200})

	board, err := rp2.NewBoard(uart)
	if err != nil {
		println("[main] board init failed:", err.Error())
		return
	}

	// Diagnostics: echo every monitor topic to serial.
	mon := uiConn.Subscribe(bus.T("monitor", "#"))
	go func() {
		for m := range mon.Channel() {
			printTopic("[telemetry] <-", m.Topic)
		}
	}()

	println("[main] starting monitor.Run …")
	monitor.Run(ctx, monConn, board, types.DefaultMonitorConfig())
}

// printTopic renders a topic to serial without fmt.
func printTopic(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			print("/")
		}
		switch v := t.At(i).(type) {
		case string:
			print(v)
		case int:
			print(v)
		case int64:
			print(int(v))
		default:
			print("?")
		}
	}
	println()
}
