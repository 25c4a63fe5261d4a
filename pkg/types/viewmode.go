package types

// ViewState defines which surface is visible and interactive
type ViewState int

const (
	// ViewIdle shows the input cards. Loading is a sub-state of Idle.
	ViewIdle ViewState = iota
	// ViewDisplaying shows the QR overlay; every input card is disabled
	ViewDisplaying
)

// ViewOf derives the view state from the input mode.
// The QR surface is active if and only if a mode is set.
func ViewOf(mode InputMode) ViewState {
	if mode == ModeNone {
		return ViewIdle
	}
	return ViewDisplaying
}

func (v ViewState) String() string {
	if v == ViewDisplaying {
		return "displaying"
	}
	return "idle"
}
