package world

import opensimplex "github.com/ojrac/opensimplex-go"

// SeedBand maps an elevation band to a fill category name. Bands are
// checked in order; the first whose Max covers the sample wins.
type SeedBand struct {
	Max  float64
	Fill string
}

// SeedConfig controls procedural fill seeding for new maps.
type SeedConfig struct {
	Seed        int64
	Octaves     int
	Frequency   float64
	Persistence float64
	Bands       []SeedBand
}

// DefaultSeedConfig returns the standard terrain bands for a seed. Band
// names match the default biome palette.
func DefaultSeedConfig(seed int64) SeedConfig {
	return SeedConfig{
		Seed:        seed,
		Octaves:     4,
		Frequency:   0.08,
		Persistence: 0.5,
		Bands: []SeedBand{
			{Max: 0.34, Fill: "Water"},
			{Max: 0.42, Fill: "Sand"},
			{Max: 0.62, Fill: "Grass"},
			{Max: 0.78, Fill: "Forest"},
			{Max: 0.90, Fill: "Mountain"},
			{Max: 1.01, Fill: "Snow"},
		},
	}
}

// SeedFills assigns an initial fill to every cell from octave noise over
// the label lattice. Deterministic for a given config.
func SeedFills(g *Grid, cfg SeedConfig) {
	if len(cfg.Bands) == 0 {
		return
	}
	noise := opensimplex.NewNormalized(cfg.Seed)
	for _, c := range g.byLabel {
		e := octaveNoise(noise, float64(c.Label.X), float64(c.Label.Y), cfg.Octaves, cfg.Frequency, cfg.Persistence)
		c.Fill = cfg.fillFor(e)
	}
}

func (c SeedConfig) fillFor(e float64) string {
	for _, b := range c.Bands {
		if e <= b.Max {
			return b.Fill
		}
	}
	return c.Bands[len(c.Bands)-1].Fill
}

// octaveNoise sums normalized noise octaves with doubling frequency and
// decaying amplitude, rescaled back into [0,1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amp := 1.0
	maxAmp := 0.0
	f := freq
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*f, y*f) * amp
		maxAmp += amp
		amp *= persistence
		f *= 2
	}
	if maxAmp == 0 {
		return 0
	}
	return total / maxAmp
}
