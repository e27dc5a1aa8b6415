package mapgen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func TestGenerateDeterministic(t *testing.T) {
	seeds := []Seed{IntSeed(0), IntSeed(42), IntSeed(-7), StringSeed("party"), StringSeed("")}
	for _, seed := range seeds {
		t.Run(seed.String(), func(t *testing.T) {
			a, err := Generate(Params{BoardLength: 30, Seed: seed})
			require.NoError(t, err)
			b, err := Generate(Params{BoardLength: 30, Seed: seed})
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestGenerateShape(t *testing.T) {
	for _, length := range []int{1, 2, 5, 6, 9, 10, 20, 57} {
		for seed := int64(0); seed < 50; seed++ {
			m, err := Generate(Params{BoardLength: length, Seed: IntSeed(seed)})
			require.NoError(t, err)

			require.Len(t, m.Tiles, length+1)
			assert.Equal(t, length+1, m.Length)
			for i, tile := range m.Tiles {
				assert.Equal(t, i, tile.Index)
				assert.True(t, tile.Type.Valid())
			}
			assert.Equal(t, gruppenspiel.TileNormal, m.Tiles[0].Type, "start tile")
			assert.Equal(t, gruppenspiel.TileNormal, m.Tiles[length].Type, "finish tile")
		}
	}
}

func TestGenerateMinimums(t *testing.T) {
	for _, length := range []int{6, 7, 9, 10, 11, 15, 40} {
		for seed := int64(0); seed < 200; seed++ {
			m, err := Generate(Params{BoardLength: length, Seed: IntSeed(seed)})
			require.NoError(t, err)

			counts := map[gruppenspiel.TileType]int{}
			for _, tile := range m.Tiles {
				counts[tile.Type]++
			}
			assert.GreaterOrEqual(t, counts[gruppenspiel.TileMinigame], 1,
				"length %d seed %d has no minigame", length, seed)
			if length >= 10 {
				assert.GreaterOrEqual(t, counts[gruppenspiel.TileBonus]+counts[gruppenspiel.TilePenalty], 1,
					"length %d seed %d has no bonus or penalty", length, seed)
			}
		}
	}
}

func TestGenerateTileValues(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		m, err := Generate(Params{BoardLength: 40, Seed: IntSeed(seed)})
		require.NoError(t, err)

		for _, tile := range m.Tiles {
			switch tile.Type {
			case gruppenspiel.TileBonus:
				require.NotNil(t, tile.Value)
				assert.Contains(t, []int{3, 4, 5}, *tile.Value)
			case gruppenspiel.TilePenalty:
				require.NotNil(t, tile.Value)
				assert.Contains(t, []int{-2, -3}, *tile.Value)
			default:
				assert.Nil(t, tile.Value)
			}
		}
	}
}

func TestGenerateNaming(t *testing.T) {
	m, err := Generate(Params{BoardLength: 20, Seed: IntSeed(1234)})
	require.NoError(t, err)
	assert.Equal(t, "generated_1234", m.ID)
	assert.Equal(t, "Classic Board (20 tiles)", m.Name)

	m, err = Generate(Params{BoardLength: 12, Seed: StringSeed("abc")})
	require.NoError(t, err)
	assert.Equal(t, "generated_96354", m.ID)
}

func TestGenerateRejectsShortBoard(t *testing.T) {
	for _, length := range []int{0, -1} {
		_, err := Generate(Params{BoardLength: length, Seed: IntSeed(1)})
		assert.ErrorIs(t, err, ErrBoardTooShort)
	}
}

func TestGenerateUnsetSeedStillValid(t *testing.T) {
	m, err := Generate(Params{BoardLength: 10})
	require.NoError(t, err)
	assert.Len(t, m.Tiles, 11)
}

func TestHashString(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
		{"hello", 99162322},
		// Overflows int32 and comes out negative before abs.
		{"polygenelubricants", 2147483648},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, hashString(tt.in))
		})
	}
}

func TestMulberryRange(t *testing.T) {
	rng := newMulberry32(99)
	for i := 0; i < 10000; i++ {
		v := rng.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestParseSeed(t *testing.T) {
	tests := []struct {
		in   string
		want Seed
	}{
		{"", Seed{}},
		{"17", IntSeed(17)},
		{"-3", IntSeed(-3)},
		{"friday-night", StringSeed("friday-night")},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeed(tt.in))
		})
	}
}

// layout renders tiles compactly: "." normal, "M" minigame, "B+n" bonus,
// "P-n" penalty.
func layout(tiles []gruppenspiel.Tile) string {
	parts := make([]string, len(tiles))
	for i, tile := range tiles {
		switch tile.Type {
		case gruppenspiel.TileMinigame:
			parts[i] = "M"
		case gruppenspiel.TileBonus:
			parts[i] = fmt.Sprintf("B%+d", tile.ValueOr(0))
		case gruppenspiel.TilePenalty:
			parts[i] = fmt.Sprintf("P%+d", tile.ValueOr(0))
		default:
			parts[i] = "."
		}
	}
	return strings.Join(parts, " ")
}

// Saved games reference generated maps by seed only, so these layouts must
// never change.
func TestGenerateGolden(t *testing.T) {
	tests := []struct {
		length int
		seed   Seed
		id     string
		want   string
	}{
		{6, IntSeed(1), "generated_1", ". B+4 . . . M ."},
		{10, IntSeed(42), "generated_42", ". . . . P-3 M . . . . ."},
		{20, IntSeed(-7), "generated_-7", ". . B+3 . P-3 M . B+3 B+3 M B+4 P-3 P-3 . B+4 M B+5 . . . ."},
		{20, IntSeed(1700000000000), "generated_1700000000000", ". . . . M . B+5 . . . . M P-3 . . . M . . . ."},
		{33, IntSeed(0), "generated_0", ". . . . M . . B+5 . M . . . . M . B+3 . . M B+5 . . . . M B+5 . P-2 . M . . ."},
		{33, StringSeed("party"), "generated_106437350", ". . . . M . . . . M . . . . M . . . . P-3 . M . . M . . . B+4 P-3 . M . ."},
		{10, StringSeed("abc"), "generated_96354", ". B+3 . . . M . . P-2 . ."},
		{20, StringSeed("friday-night"), "generated_732412458", ". . . . . M . . . . P-2 M . . M . . . . . ."},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%s", tt.length, tt.seed), func(t *testing.T) {
			m, err := Generate(Params{BoardLength: tt.length, Seed: tt.seed})
			require.NoError(t, err)
			assert.Equal(t, tt.id, m.ID)
			assert.Equal(t, tt.want, layout(m.Tiles))
		})
	}
}
