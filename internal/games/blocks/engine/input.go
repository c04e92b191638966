package engine

// Intent is a set of discrete player intents.
type Intent uint16

const (
	IntentMoveLeft Intent = 1 << iota
	IntentMoveRight
	IntentRotateCW
	IntentRotateCCW
	IntentSoftDrop
	IntentHardDrop
	IntentHold
	IntentPause
	IntentRestart
)

// Has reports whether every intent in f is set.
func (i Intent) Has(f Intent) bool {
	return i&f == f && f != 0
}

// Input is the intent snapshot for one update. Pressed intents fired this
// update; Held intents are keys still down, which only drive key repeat.
type Input struct {
	Pressed Intent
	Held    Intent
}

// Press returns an Input with the given intents pressed.
func Press(intents ...Intent) Input {
	var in Input
	for _, i := range intents {
		in.Pressed |= i
	}
	return in
}
