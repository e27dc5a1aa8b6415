// Package mapgen builds linear board maps procedurally. Generation is fully
// deterministic with respect to the seed: the same seed and parameters always
// produce the same tiles.
package mapgen

import (
	"errors"
	"fmt"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

var ErrBoardTooShort = errors.New("board length must be at least 1")

const (
	DefaultMinigameFrequency = 5
	DefaultBonusFrequency    = 8
	DefaultPenaltyFrequency  = 10
)

type Params struct {
	BoardLength int
	// Seed defaults to the wall clock when unset.
	Seed Seed
	// MinigameFrequency places a minigame roughly every N tiles.
	MinigameFrequency int
	// BonusFrequency gives each free tile a ~1/N chance of a bonus.
	BonusFrequency int
	// PenaltyFrequency gives each free tile a ~1/N chance of a penalty.
	PenaltyFrequency int
}

func (p Params) withDefaults() Params {
	if p.Seed.IsZero() {
		p.Seed = TimeSeed()
	}
	if p.MinigameFrequency <= 0 {
		p.MinigameFrequency = DefaultMinigameFrequency
	}
	if p.BonusFrequency <= 0 {
		p.BonusFrequency = DefaultBonusFrequency
	}
	if p.PenaltyFrequency <= 0 {
		p.PenaltyFrequency = DefaultPenaltyFrequency
	}
	return p
}

// Generate returns a classic board with tiles 0..BoardLength. The first and
// last tiles are always normal.
func Generate(p Params) (gruppenspiel.MapDefinition, error) {
	if p.BoardLength < 1 {
		return gruppenspiel.MapDefinition{}, ErrBoardTooShort
	}
	p = p.withDefaults()

	seed := p.Seed.Value()
	rng := newMulberry32(seed)
	n := p.BoardLength

	tiles := make([]gruppenspiel.Tile, n+1)
	for i := range tiles {
		tiles[i] = gruppenspiel.Tile{Index: i, Type: gruppenspiel.TileNormal}
	}

	minigames := 0
	effects := 0

	for i := p.MinigameFrequency; i < n; i += p.MinigameFrequency {
		target := i + rng.Intn(3) - 1
		if target > 0 && target < n && tiles[target].Type == gruppenspiel.TileNormal {
			tiles[target].Type = gruppenspiel.TileMinigame
			minigames++
		}
	}

	bonusP := 1 / float64(p.BonusFrequency)
	penaltyP := bonusP + 1/float64(p.PenaltyFrequency)
	for i := 1; i < n; i++ {
		if tiles[i].Type != gruppenspiel.TileNormal {
			continue
		}
		roll := rng.Float64()
		switch {
		case roll < bonusP:
			tiles[i].Type = gruppenspiel.TileBonus
			tiles[i].Value = intPtr(3 + rng.Intn(3))
			effects++
		case roll < penaltyP:
			tiles[i].Type = gruppenspiel.TilePenalty
			tiles[i].Value = intPtr(-2 - rng.Intn(2))
			effects++
		}
	}

	if n >= 6 && minigames == 0 {
		mid := nearestNormal(tiles, n/2)
		if mid < 0 {
			// Every interior tile carries an effect; the midpoint gives one up.
			mid = n / 2
			effects--
			tiles[mid].Value = nil
		}
		tiles[mid].Type = gruppenspiel.TileMinigame
	}

	if n >= 10 && effects == 0 {
		if third := nearestNormal(tiles, n/3); third >= 0 {
			if rng.Float64() < 0.5 {
				tiles[third].Type = gruppenspiel.TileBonus
				tiles[third].Value = intPtr(3)
			} else {
				tiles[third].Type = gruppenspiel.TilePenalty
				tiles[third].Value = intPtr(-2)
			}
		}
	}

	return gruppenspiel.MapDefinition{
		ID:     fmt.Sprintf("generated_%d", seed),
		Name:   fmt.Sprintf("Classic Board (%d tiles)", n),
		Length: n + 1,
		Tiles:  tiles,
	}, nil
}

// nearestNormal finds the normal interior tile closest to want, preferring
// the lower index on ties. It returns -1 when none is left.
func nearestNormal(tiles []gruppenspiel.Tile, want int) int {
	last := len(tiles) - 1
	for d := 0; d < last; d++ {
		for _, i := range [2]int{want - d, want + d} {
			if i > 0 && i < last && tiles[i].Type == gruppenspiel.TileNormal {
				return i
			}
		}
	}
	return -1
}

func intPtr(v int) *int { return &v }
