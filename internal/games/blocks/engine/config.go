package engine

import "time"

// Config holds the constructor-time settings for one match.
type Config struct {
	Width  int
	Height int // total rows, header included
	Header int // hidden rows above the playfield

	Spawn Point // pivot position of newly spawned pieces

	DropInterval     time.Duration // gravity interval at level 1
	DropAcceleration time.Duration // interval reduction per level
	MinDropInterval  time.Duration
	MaxDropInterval  time.Duration

	LockDelay     time.Duration // soft lock after touching down
	MaxLockDelay  time.Duration // hard cap from the first touch down
	LockExtension time.Duration // added to the soft lock by moves/rotations
	ClearDelay    time.Duration // pause between row detection and collapse

	FirstKeyRepeat time.Duration // horizontal delay after the first press
	KeyRepeat      time.Duration // horizontal delay while held
	SoftDropRepeat time.Duration

	Lookahead int
	Kinds     []Kind
	// NoRotation lists kinds whose rotation is disabled.
	NoRotation map[Kind]bool

	StartLevel int
}

// DefaultConfig returns the classic settings: a 10 wide board of 30 rows with
// an 8 row header.
func DefaultConfig() Config {
	return Config{
		Width:  10,
		Height: 30,
		Header: 8,
		Spawn:  Point{X: 4, Y: 21},

		DropInterval:     600 * time.Millisecond,
		DropAcceleration: 50 * time.Millisecond,
		MinDropInterval:  50 * time.Millisecond,
		MaxDropInterval:  time.Second,

		LockDelay:     200 * time.Millisecond,
		MaxLockDelay:  800 * time.Millisecond,
		LockExtension: 400 * time.Millisecond,
		ClearDelay:    200 * time.Millisecond,

		FirstKeyRepeat: 300 * time.Millisecond,
		KeyRepeat:      100 * time.Millisecond,
		SoftDropRepeat: 50 * time.Millisecond,

		Lookahead:  3,
		Kinds:      append([]Kind(nil), AllKinds...),
		NoRotation: map[Kind]bool{KindO: true},

		StartLevel: 1,
	}
}

// Validate checks the configuration for values that make a match impossible.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return ConfigError{Field: "board", Message: "width and height must be positive"}
	}
	if c.Header < 0 || c.Header >= c.Height {
		return ConfigError{Field: "board.header", Message: "header must be in [0, height)"}
	}
	if c.Spawn.X < 0 || c.Spawn.X >= c.Width || c.Spawn.Y < 0 || c.Spawn.Y >= c.Height {
		return ConfigError{Field: "spawn", Message: "spawn point must be inside the board"}
	}
	if len(c.Kinds) == 0 {
		return ErrEmptyPieceTable
	}
	for _, k := range c.Kinds {
		if int(k) >= len(spawnShapes) {
			return ConfigError{Field: "pieces", Message: "unknown kind " + k.String()}
		}
		for _, cell := range NewPiece(0, k, c.Spawn, true).Cells() {
			if cell.X < 0 || cell.X >= c.Width || cell.Y < 0 || cell.Y >= c.Height {
				return ConfigError{Field: "spawn", Message: k.String() + " piece does not fit on the board at the spawn point"}
			}
		}
	}
	if c.Lookahead <= 0 {
		return ConfigError{Field: "queue.lookahead", Message: "must be at least 1"}
	}
	if c.DropInterval <= 0 || c.MinDropInterval <= 0 || c.MaxDropInterval < c.MinDropInterval {
		return ConfigError{Field: "timing.drop_interval", Message: "intervals must be positive and min <= max"}
	}

	durations := map[string]time.Duration{
		"timing.drop_acceleration": c.DropAcceleration,
		"timing.lock_delay":        c.LockDelay,
		"timing.max_lock_delay":    c.MaxLockDelay,
		"timing.lock_extension":    c.LockExtension,
		"timing.clear_delay":       c.ClearDelay,
		"input.first_key_repeat":   c.FirstKeyRepeat,
		"input.key_repeat":         c.KeyRepeat,
		"input.soft_drop_repeat":   c.SoftDropRepeat,
	}
	for field, d := range durations {
		if d < 0 {
			return ConfigError{Field: field, Message: "must not be negative"}
		}
	}
	return nil
}

// DropIntervalForLevel returns the gravity interval at the given level:
// the base interval shortened by the acceleration for each level above 1,
// clamped to [MinDropInterval, MaxDropInterval].
func (c Config) DropIntervalForLevel(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := c.DropInterval - time.Duration(level-1)*c.DropAcceleration
	return max(c.MinDropInterval, min(c.MaxDropInterval, d))
}

func (c Config) canRotate(k Kind) bool {
	return !c.NoRotation[k]
}
