// Package scoring turns per-player game placements into points and folds
// games and penalties into session standings and the all-time leaderboard.
//
// Everything in this package is pure: no I/O, no shared state, and the same
// inputs always produce the same outputs.
package scoring

import (
	"fmt"

	"github.com/abrezinsky/tourneytracker/internal/errors"
)

// Standard is the points table for games with three or more players.
// Ranks past fourth score the Fourth value.
type Standard struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
	Fourth int `json:"fourth"`
}

// TwoPlayer is the points table for head-to-head games
type TwoPlayer struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Config is the complete scoring configuration
type Config struct {
	Standard  Standard  `json:"scoring"`
	TwoPlayer TwoPlayer `json:"scoring_2p"`
}

// DefaultConfig returns the built-in tables: 4/3/2/1 and 4/1.
func DefaultConfig() Config {
	return Config{
		Standard:  Standard{First: 4, Second: 3, Third: 2, Fourth: 1},
		TwoPlayer: TwoPlayer{First: 4, Second: 1},
	}
}

// Validate checks that every value is non-negative and that the tables are
// non-increasing by rank. CalculatePoints does not require this; it is the
// rule applied when an operator edits the tables.
func (c Config) Validate() error {
	check := func(table string, values []int, names []string) error {
		for i, v := range values {
			if v < 0 {
				return errors.Validationf("%s.%s must be >= 0, got %d", table, names[i], v)
			}
			if i > 0 && v > values[i-1] {
				return errors.Validationf("%s.%s (%d) must not exceed %s.%s (%d)",
					table, names[i], v, table, names[i-1], values[i-1])
			}
		}
		return nil
	}

	s := c.Standard
	if err := check("scoring", []int{s.First, s.Second, s.Third, s.Fourth},
		[]string{"first", "second", "third", "fourth"}); err != nil {
		return err
	}
	t := c.TwoPlayer
	return check("scoring_2p", []int{t.First, t.Second}, []string{"first", "second"})
}

// StandardOverrides is a partially specified Standard table
type StandardOverrides struct {
	First  *int `json:"first,omitempty"`
	Second *int `json:"second,omitempty"`
	Third  *int `json:"third,omitempty"`
	Fourth *int `json:"fourth,omitempty"`
}

// Apply fills the set fields of o over base.
func (o *StandardOverrides) Apply(base Standard) Standard {
	if o == nil {
		return base
	}
	base.First = pick(o.First, base.First)
	base.Second = pick(o.Second, base.Second)
	base.Third = pick(o.Third, base.Third)
	base.Fourth = pick(o.Fourth, base.Fourth)
	return base
}

// TwoPlayerOverrides is a partially specified TwoPlayer table
type TwoPlayerOverrides struct {
	First  *int `json:"first,omitempty"`
	Second *int `json:"second,omitempty"`
}

// Apply fills the set fields of o over base.
func (o *TwoPlayerOverrides) Apply(base TwoPlayer) TwoPlayer {
	if o == nil {
		return base
	}
	base.First = pick(o.First, base.First)
	base.Second = pick(o.Second, base.Second)
	return base
}

// Overrides is a stored configuration that may be missing or partial.
type Overrides struct {
	Standard  *StandardOverrides  `json:"scoring,omitempty"`
	TwoPlayer *TwoPlayerOverrides `json:"scoring_2p,omitempty"`
}

// Resolve returns a complete Config, taking each missing field from
// DefaultConfig.
func (o Overrides) Resolve() Config {
	def := DefaultConfig()
	return Config{
		Standard:  o.Standard.Apply(def.Standard),
		TwoPlayer: o.TwoPlayer.Apply(def.TwoPlayer),
	}
}

func pick(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// CalculatePoints returns the points for finishing at rank in a game of
// fieldSize players. Games of two or fewer players use the TwoPlayer table;
// larger games use Standard, with every rank past fourth scoring Fourth.
// Values are used exactly as configured, zeros included.
func CalculatePoints(rank, fieldSize int, cfg Config) int {
	if fieldSize <= 2 {
		if rank == 1 {
			return cfg.TwoPlayer.First
		}
		return cfg.TwoPlayer.Second
	}

	switch rank {
	case 1:
		return cfg.Standard.First
	case 2:
		return cfg.Standard.Second
	case 3:
		return cfg.Standard.Third
	default:
		return cfg.Standard.Fourth
	}
}

// String renders the tables compactly for logs.
func (c Config) String() string {
	return fmt.Sprintf("%d/%d/%d/%d 2p:%d/%d",
		c.Standard.First, c.Standard.Second, c.Standard.Third, c.Standard.Fourth,
		c.TwoPlayer.First, c.TwoPlayer.Second)
}
