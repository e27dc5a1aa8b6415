package mapgen

import (
	"strconv"
	"time"
)

// Seed selects the pseudo-random stream of a generated map. Numeric seeds
// are used directly; string seeds are folded into 32 bits first.
type Seed struct {
	text    string
	num     int64
	numeric bool
	set     bool
}

func IntSeed(n int64) Seed     { return Seed{num: n, numeric: true, set: true} }
func StringSeed(s string) Seed { return Seed{text: s, set: true} }

// TimeSeed seeds from the wall clock in milliseconds.
func TimeSeed() Seed { return IntSeed(time.Now().UnixMilli()) }

// ParseSeed treats s as a numeric seed when it is a base-10 integer and as
// a string seed otherwise. The empty string yields the zero (unset) Seed.
func ParseSeed(s string) Seed {
	if s == "" {
		return Seed{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntSeed(n)
	}
	return StringSeed(s)
}

func (s Seed) IsZero() bool { return !s.set }

// Value is the integer the generator is seeded with.
func (s Seed) Value() int64 {
	if s.numeric {
		return s.num
	}
	return int64(hashString(s.text))
}

func (s Seed) String() string {
	if s.numeric {
		return strconv.FormatInt(s.num, 10)
	}
	return s.text
}

// hashString folds s with hash = hash*31 + c over UTF-16 code units,
// truncated to a signed 32-bit integer, then takes the absolute value.
func hashString(s string) uint32 {
	var h int32
	for _, c := range utf16Units(s) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		// abs(math.MinInt32) does not fit in int32 but does in uint32.
		return uint32(-int64(h))
	}
	return uint32(h)
}

func utf16Units(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}

// mulberry32 is a small 32-bit generator with a fixed odd increment.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed int64) *mulberry32 {
	return &mulberry32{state: uint32(seed)}
}

// Float64 returns the next value in [0, 1).
func (m *mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := (m.state ^ (m.state >> 15)) * (1 | m.state)
	t = (t + (t^(t>>7))*(61|t)) ^ t
	return float64(t^(t>>14)) / 4294967296
}

// Intn returns a uniform integer in [0, n).
func (m *mulberry32) Intn(n int) int {
	return int(m.Float64() * float64(n))
}
