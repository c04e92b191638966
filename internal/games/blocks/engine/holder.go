package engine

// Holder is the single-slot reserve for a piece kind.
//
// The release gate is closed whenever a kind is caught or released and is
// opened only by OpenGate, which the controller calls once per lock. This
// limits the player to one exchange per piece in play.
type Holder struct {
	held       Kind
	has        bool
	canRelease bool
}

// NewHolder creates an empty holder with a closed gate.
func NewHolder() *Holder {
	return &Holder{}
}

// Catch stores k. Fails with ErrHolderFull if a kind is already held.
func (h *Holder) Catch(k Kind) error {
	if h.has {
		return ErrHolderFull
	}
	h.held = k
	h.has = true
	h.canRelease = false
	return nil
}

// Release empties the slot and returns the held kind.
func (h *Holder) Release() (Kind, error) {
	if !h.has {
		return 0, ErrHolderEmpty
	}
	if !h.canRelease {
		return 0, ErrReleaseLocked
	}
	k := h.held
	h.has = false
	h.canRelease = false
	return k, nil
}

// OpenGate allows the next Release.
func (h *Holder) OpenGate() {
	h.canRelease = true
}

// CanRelease reports whether a Release would currently succeed.
func (h *Holder) CanRelease() bool {
	return h.has && h.canRelease
}

// Held returns the held kind, if any.
func (h *Holder) Held() (Kind, bool) {
	return h.held, h.has
}

// Reset empties the slot and closes the gate.
func (h *Holder) Reset() {
	*h = Holder{}
}
