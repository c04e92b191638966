package blocks

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
)

// InputRecord is one non-empty input frame. Actions are bit sets indexed by
// core.Action.
type InputRecord struct {
	Tick    uint64 `json:"t"`
	Pressed uint32 `json:"p,omitempty"`
	Held    uint32 `json:"h,omitempty"`
}

func frameFromRecord(r InputRecord) core.InputFrame {
	in := core.NewInputFrame()
	for a := core.ActionLeft; a <= core.ActionPause; a++ {
		if r.Pressed&(1<<uint(a)) != 0 {
			in.Set(a)
		}
		if r.Held&(1<<uint(a)) != 0 {
			in.Hold(a)
		}
	}
	return in
}

// Recorder collects the input frames of a match, one call per Step.
type Recorder struct {
	ticks   uint64
	records []InputRecord
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends the frame passed to the current Step.
func (r *Recorder) Record(in core.InputFrame) {
	rec := InputRecord{Tick: r.ticks}
	for a := core.ActionLeft; a <= core.ActionPause; a++ {
		if in.Has(a) {
			rec.Pressed |= 1 << uint(a)
		}
		if in.Held(a) {
			rec.Held |= 1 << uint(a)
		}
	}
	r.ticks++
	if rec.Pressed != 0 || rec.Held != 0 {
		r.records = append(r.records, rec)
	}
}

// Ticks returns the number of recorded steps.
func (r *Recorder) Ticks() uint64 {
	return r.ticks
}

// Records returns a copy of the non-empty frames.
func (r *Recorder) Records() []InputRecord {
	return append([]InputRecord(nil), r.records...)
}

// EncodeInputs serializes an input log for the match journal.
func EncodeInputs(records []InputRecord) ([]byte, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("blocks: cannot encode inputs: %w", err)
	}
	return data, nil
}

// DecodeInputs parses an input log written by EncodeInputs.
func DecodeInputs(data []byte) ([]InputRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []InputRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("blocks: cannot decode inputs: %w", err)
	}
	return records, nil
}

// Replay re-simulates a recorded match headlessly and returns the final
// snapshot. Records must be sorted by tick.
func Replay(mode Mode, cfg config.BlocksConfig, seed int64, tickRate int, records []InputRecord, ticks uint64) (Snapshot, error) {
	g := NewWithConfig(mode, cfg)
	g.Reset(core.RuntimeConfig{
		ScreenW:  core.DefaultConfig().ScreenW,
		ScreenH:  core.DefaultConfig().ScreenH,
		TickRate: tickRate,
		Seed:     seed,
	})
	if err := g.Err(); err != nil {
		return Snapshot{}, err
	}

	empty := core.NewInputFrame()
	next := 0
	for tick := uint64(0); tick < ticks; tick++ {
		in := empty
		if next < len(records) && records[next].Tick == tick {
			in = frameFromRecord(records[next])
			next++
		}
		g.Step(in)
	}
	if next < len(records) {
		return g.Snapshot(), fmt.Errorf("blocks: %d input records past tick %d", len(records)-next, ticks)
	}
	return g.Snapshot(), nil
}
