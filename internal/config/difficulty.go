package config

// DifficultyManager derives the current level from the number of cleared rows.
type DifficultyManager struct {
	cfg           DifficultyConfig
	linesPerLevel int
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig, linesPerLevel int) *DifficultyManager {
	if cfg.StartLevel < 1 {
		cfg.StartLevel = 1
	}
	if linesPerLevel <= 0 {
		linesPerLevel = 10
	}
	return &DifficultyManager{
		cfg:           cfg,
		linesPerLevel: linesPerLevel,
	}
}

// IsEnabled returns whether level progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// StartLevel returns the level a match begins at.
func (d *DifficultyManager) StartLevel() int {
	return d.cfg.StartLevel
}

// Level returns the level after the given number of cleared rows.
func (d *DifficultyManager) Level(lines int) int {
	if !d.cfg.Enabled || lines <= 0 {
		return d.cfg.StartLevel
	}

	level := d.cfg.StartLevel + lines/d.linesPerLevel
	if d.cfg.MaxLevel > 0 && level > d.cfg.MaxLevel {
		level = d.cfg.MaxLevel
	}
	return level
}

// LineScore returns the points for clearing rows at once at the given level.
// Counts beyond the table use its last entry.
func LineScore(points []int, rows, level int) int {
	if rows <= 0 || len(points) == 0 {
		return 0
	}
	idx := min(rows, len(points)) - 1
	return points[idx] * max(1, level)
}
