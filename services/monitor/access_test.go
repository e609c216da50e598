package monitor

import "testing"

func TestCorrectPINUnlocks(t *testing.T) {
	r := newRig(t, nil)
	r.unlock()
	r.until("green on", func() bool { return r.b.Green.On() })
	if notes := r.b.Tone.Notes(); len(notes) == 0 || notes[0] != noteDo {
		t.Errorf("chime notes = %v, want to open with %d Hz", notes, noteDo)
	}
}

func TestMaskedEntryEcho(t *testing.T) {
	r := newRig(t, nil)
	r.press("06")
	if got := r.b.Display.Row(1); got != "**" {
		t.Errorf("row1 = %q, want %q", got, "**")
	}
	// Digits past the PIN length are dropped, echo stays at four.
	r.press("900")
	if got := r.b.Display.Row(1); got != "****" {
		t.Errorf("row1 = %q, want %q", got, "****")
	}
	if r.c.State() != StateLocked {
		t.Errorf("state = %v, want locked", r.c.State())
	}
}

func TestWrongPINCountsAttempts(t *testing.T) {
	r := newRig(t, nil)
	r.press("1234#")
	if got := r.b.Display.Row(0); got != "Error intento 1" {
		t.Errorf("row0 = %q", got)
	}
	r.press("9999#")
	if got := r.b.Display.Row(0); got != "Error intento 2" {
		t.Errorf("row0 = %q", got)
	}
	if r.c.State() != StateLocked {
		t.Errorf("state = %v, want locked", r.c.State())
	}
}

func TestShortPINRejected(t *testing.T) {
	r := newRig(t, nil)
	r.press("069#")
	if got := r.b.Display.Row(0); got != "Error intento 1" {
		t.Errorf("row0 = %q, want attempt counted on short submit", got)
	}
}

func TestClearKeyRestoresPrompt(t *testing.T) {
	r := newRig(t, nil)
	r.press("12*")
	if got := r.b.Display.Row(0); got != msgPrompt {
		t.Errorf("row0 = %q, want prompt", got)
	}
	if got := r.b.Display.Row(1); got != "" {
		t.Errorf("row1 = %q, want empty", got)
	}
	// Cleared digits must not pollute the next candidate.
	r.unlock()
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	r := newRig(t, nil)
	for i := 0; i < 3; i++ {
		r.press("1111#")
	}
	if got := r.b.Display.Row(0); got != msgLockout {
		t.Fatalf("row0 = %q, want %q", got, msgLockout)
	}
	r.until("lockout red hold", func() bool { return r.b.Red.On() })
	r.until("lockout released", func() bool { return !r.b.Red.On() })
	if got := r.b.Display.Row(0); got != msgPrompt {
		t.Errorf("row0 = %q, want prompt restored after hold", got)
	}
	// The attempt counter starts fresh.
	r.unlock()
}

func TestLetterKeysIgnoredWhileLocked(t *testing.T) {
	r := newRig(t, nil)
	r.press("ABCD")
	if r.c.State() != StateLocked {
		t.Fatalf("state = %v, want locked", r.c.State())
	}
	r.unlock()
}
