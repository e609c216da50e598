// services/monitor/access.go
package monitor

const (
	pinLen    = 4
	keySubmit = '#'
	keyClear  = '*'
)

// gate is the access state: the candidate PIN under entry and the
// consecutive failed-attempt count. It resets whenever Locked is entered.
type gate struct {
	pin      [pinLen]byte
	n        int
	attempts int
}

func (g *gate) reset()     { g.n = 0; g.attempts = 0 }
func (g *gate) clearPin()  { g.n = 0 }
func (g *gate) candidate() string {
	return string(g.pin[:g.n])
}

// gateKey routes one keypad event while locked. Letter keys have no
// meaning here and are dropped.
func (c *Controller) gateKey(key byte, now int64) {
	switch {
	case key >= '0' && key <= '9':
		c.onDigit(key)
	case key == keySubmit:
		c.onSubmit(now)
	case key == keyClear:
		c.onClear()
	}
}

// onDigit appends to the candidate and echoes a mask. Digits past the
// PIN length are dropped silently.
func (c *Controller) onDigit(d byte) {
	if c.gate.n >= pinLen {
		return
	}
	c.gate.pin[c.gate.n] = d
	c.gate.n++
	c.screenMask(c.gate.n)
}

func (c *Controller) onSubmit(now int64) {
	if c.gate.n == pinLen && c.gate.candidate() == c.cfg.SecretPIN {
		c.gate.reset()
		c.screenWelcome()
		c.publishAccess(true, "pin_ok", 0, now)
		c.seq.begin(now, welcomeSeq(c.cfg))
		c.transition(StateEnvironmental, now)
		return
	}

	c.gate.attempts++
	c.gate.clearPin()
	c.publishAccess(false, "pin_mismatch", c.gate.attempts, now)
	if c.gate.attempts >= c.cfg.MaxAttempts {
		c.publishAccess(false, "locked_out", c.gate.attempts, now)
		c.screenLockout()
		c.seq.begin(now, lockoutSeq(c.cfg))
		c.gate.reset()
		return
	}
	c.screenError(c.gate.attempts)
}

// onClear discards the candidate and restores the prompt. Safe to press
// with nothing entered.
func (c *Controller) onClear() {
	c.gate.clearPin()
	c.screenPrompt()
}
