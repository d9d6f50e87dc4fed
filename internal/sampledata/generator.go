package sampledata

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/okian/rosterlens/internal/domain/model"
)

var firstNames = [...]string{ //nolint:gochecknoglobals // fixed name pool
	"Aaron", "Brandon", "Caleb", "Dak", "Evan", "Floyd", "Garrett", "Hunter",
	"Isaiah", "Jalen", "Kyle", "Lamar", "Marcus", "Nico", "Owen", "Puka",
}

var lastNames = [...]string{ //nolint:gochecknoglobals // fixed name pool
	"Allen", "Bowers", "Carter", "Dobbins", "Ekeler", "Fields", "Gibbs", "Hall",
	"Irving", "Jones", "Kincaid", "London", "Mixon", "Nacua", "Olave", "Pittman",
}

var teams = [...]string{ //nolint:gochecknoglobals // fixed team pool
	"ARI", "ATL", "BAL", "BUF", "CHI", "DAL", "DET", "KC",
	"LAR", "MIA", "MIN", "NYJ", "PHI", "SF", "SEA", "TB",
}

// profile shapes a player's weekly output.
type profile int

const (
	profileElite profile = iota
	profileHigh
	profileAverage
	profileLow
	profileBreakout
	profileBoomBust
	profileFading
	profileCount
)

// Base weekly points per profile before category scaling.
var profileBase = [profileCount]float64{ //nolint:gochecknoglobals // lookup table
	profileElite:    22,
	profileHigh:     16,
	profileAverage:  11,
	profileLow:      5,
	profileBreakout: 7,
	profileBoomBust: 12,
	profileFading:   17,
}

// Roster share per profile, as a fraction.
var profileRoster = [profileCount]float64{ //nolint:gochecknoglobals // lookup table
	profileElite:    0.99,
	profileHigh:     0.9,
	profileAverage:  0.55,
	profileLow:      0.08,
	profileBreakout: 0.2,
	profileBoomBust: 0.6,
	profileFading:   0.85,
}

// Category scaling keeps quarterbacks ahead of tight ends.
var categoryScale = map[model.Category]float64{ //nolint:gochecknoglobals // lookup table
	model.QB: 1.25,
	model.RB: 1,
	model.WR: 1,
	model.TE: 0.7,
}

const (
	missProbability    = 0.08
	unknownRosterEvery = 11
	breakoutEarlyWeeks = 3
	breakoutMultiplier = 2.6
	fadeFloor          = 0.35
	boomProbability    = 0.3
	boomMultiplier     = 2
	bustMultiplier     = 0.3
	noiseSpread        = 0.5
)

type player struct {
	label   string
	profile profile
	roster  float64
	unknown bool
}

// line is one row of a generated table.
type line struct {
	player  *player
	points  float64
	games   int
	perGame float64
}

// season holds every generated line, keyed by week ordinal then category.
type season struct {
	weeks  []int
	weekly map[int]map[model.Category][]line
	totals map[model.Category][]line
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func playerLabel(cat model.Category, i int) string {
	// Offset per category so the same index yields different names across positions.
	off := int(cat[0]) + len(cat)
	first := firstNames[(i+off)%len(firstNames)]
	last := lastNames[(i/len(firstNames)+off)%len(lastNames)]
	return fmt.Sprintf("%s %s (%s)", first, last, teams[(i*7+off)%len(teams)])
}

func roster(p profile, i int, rng *rand.Rand) (float64, bool) {
	if i%unknownRosterEvery == unknownRosterEvery-1 {
		return 0, true
	}
	v := profileRoster[p] + (rng.Float64()-0.5)*0.1
	return math.Min(1, math.Max(0.001, v)), false
}

func weeklyPoints(p profile, scale float64, week, weeks int, rng *rand.Rand) float64 {
	base := profileBase[p] * scale
	switch p {
	case profileBreakout:
		if week > breakoutEarlyWeeks {
			base *= breakoutMultiplier
		}
	case profileBoomBust:
		if rng.Float64() < boomProbability {
			base *= boomMultiplier
		} else {
			base *= bustMultiplier
		}
	case profileFading:
		if weeks > 1 {
			base *= 1 - (1-fadeFloor)*float64(week-1)/float64(weeks-1)
		}
	}
	pts := base * (1 + (rng.Float64()-0.5)*noiseSpread)
	return math.Round(math.Max(0, pts)*10) / 10
}

// build generates the full season deterministically from cfg.Seed. All
// randomness is drawn here, before any file is written, so concurrent
// writers cannot change the output.
func build(cfg *Config) *season {
	rng := newRand(cfg.Seed)
	s := &season{
		weekly: make(map[int]map[model.Category][]line, cfg.Weeks),
		totals: make(map[model.Category][]line, len(cfg.Categories)),
	}
	for w := 1; w <= cfg.Weeks; w++ {
		s.weeks = append(s.weeks, w)
		s.weekly[w] = make(map[model.Category][]line, len(cfg.Categories))
	}

	for _, cat := range cfg.Categories {
		scale, ok := categoryScale[cat]
		if !ok {
			scale = 1
		}
		players := make([]*player, cfg.PlayersPerCategory)
		for i := range players {
			p := profile(rng.IntN(int(profileCount)))
			r, unknown := roster(p, i, rng)
			players[i] = &player{label: playerLabel(cat, i), profile: p, roster: r, unknown: unknown}
		}

		sums := make([]float64, len(players))
		games := make([]int, len(players))
		for _, w := range s.weeks {
			rows := make([]line, 0, len(players))
			for i, p := range players {
				if rng.Float64() < missProbability {
					continue
				}
				pts := weeklyPoints(p.profile, scale, w, cfg.Weeks, rng)
				sums[i] += pts
				games[i]++
				rows = append(rows, line{player: p, points: pts, games: 1, perGame: pts})
			}
			rank(rows)
			s.weekly[w][cat] = rows
		}

		totals := make([]line, 0, len(players))
		for i, p := range players {
			if games[i] == 0 {
				continue
			}
			sum := math.Round(sums[i]*10) / 10
			totals = append(totals, line{
				player:  p,
				points:  sum,
				games:   games[i],
				perGame: math.Round(sum/float64(games[i])*10) / 10,
			})
		}
		rank(totals)
		s.totals[cat] = totals
	}
	return s
}

// rank orders rows by points, highest first, keeping generation order on ties.
func rank(rows []line) {
	slices.SortStableFunc(rows, func(a, b line) int { return cmp.Compare(b.points, a.points) })
}
