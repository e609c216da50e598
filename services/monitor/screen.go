// services/monitor/screen.go
package monitor

import (
	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/conv"
)

// Display strings are kept from the deployed board (Spanish), shortened
// only where the original overran the 16-column panel.
const (
	msgPrompt   = "Ingrese clave:"
	msgWelcome  = "Bienvenido"
	msgError    = "Error intento "
	msgLockout  = "Bloqueado"
	msgEnvTitle = "Moni Ambiental"
	msgLuxTitle = "Moni Eventos"
	msgLuxLabel = "Luz : "
	msgAlert    = "Alerta!"
	msgLuxHigh  = "Luz: Alta"
	msgLuxLow   = "Luz: Baja"
	msgAlarm0   = "ALERTA CRITICA!"
	msgAlarm1   = "T/H fuera rango!"
	msgIR0      = "Infrarrojo"
	msgIR1      = "Activo"
	msgHall     = "Hall Activo"
)

// screen2 clears and writes up to two rows. Display faults are loud:
// logged and published, never ignored.
func (c *Controller) screen2(row0, row1 string) {
	d := c.hw.Display
	if err := d.Clear(); err != nil {
		c.displayFault(err)
		return
	}
	if err := d.Print(row0); err != nil {
		c.displayFault(err)
		return
	}
	if row1 == "" {
		return
	}
	if err := d.SetCursor(0, 1); err != nil {
		c.displayFault(err)
		return
	}
	if err := d.Print(row1); err != nil {
		c.displayFault(err)
	}
}

func (c *Controller) screenPrompt()  { c.screen2(msgPrompt, "") }
func (c *Controller) screenWelcome() { c.screen2(msgWelcome, "") }
func (c *Controller) screenLockout() { c.screen2(msgLockout, "") }
func (c *Controller) screenAlarm()   { c.screen2(msgAlarm0, msgAlarm1) }
func (c *Controller) screenInfrared() { c.screen2(msgIR0, msgIR1) }
func (c *Controller) screenHall()     { c.screen2(msgHall, "") }

// screenMask echoes n asterisks on the entry row without a full clear,
// so typing does not flicker the prompt.
func (c *Controller) screenMask(n int) {
	d := c.hw.Display
	if err := d.SetCursor(0, 1); err != nil {
		c.displayFault(err)
		return
	}
	if err := d.Print("****"[:n]); err != nil {
		c.displayFault(err)
	}
}

func (c *Controller) screenError(attempt int) {
	buf := make([]byte, 0, 16)
	buf = append(buf, msgError...)
	buf = conv.AppendInt(buf, int64(attempt))
	c.screen2(string(buf), "")
}

func (c *Controller) screenEnv(t, h float32) {
	buf := make([]byte, 0, 16)
	buf = append(buf, "T:"...)
	buf = conv.AppendDeci(buf, conv.Deci(t))
	buf = append(buf, "C H:"...)
	buf = conv.AppendDeci(buf, conv.Deci(h))
	c.screen2(msgEnvTitle, string(buf))
}

func (c *Controller) screenLight(lux float32) {
	buf := make([]byte, 0, 16)
	buf = append(buf, msgLuxLabel...)
	buf = conv.AppendDeci(buf, conv.Deci(lux))
	c.screen2(msgLuxTitle, string(buf))
}

func (c *Controller) screenAlert(lux float32) {
	switch {
	case lux > c.cfg.LuxHigh:
		c.screen2(msgAlert, msgLuxHigh)
	case lux < c.cfg.LuxLow:
		c.screen2(msgAlert, msgLuxLow)
	default:
		c.screen2(msgAlert, "")
	}
}

func (c *Controller) displayFault(err error) {
	println("[monitor] display fault:", err.Error())
	c.publishStatus("display", types.LinkDegraded, string(errcode.Of(err)), c.nowMs())
}
