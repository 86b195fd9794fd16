package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/population"
)

// GenerationStats holds aggregated statistics for one finished generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Size       int `csv:"size"`

	// Outcome counts
	Won       int     `csv:"won"`
	Exhausted int     `csv:"exhausted"`
	Dead      int     `csv:"dead"`
	WinRate   float64 `csv:"win_rate"`

	// Genome length pressure
	MaxGenomeLength int `csv:"max_genome_length"` // Cap applied to the next generation
	ShortestWin     int `csv:"shortest_win"`      // 0 when nobody won

	// Fitness distribution
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`

	// Champion
	ChampionState string `csv:"champion_state"`
	ChampionSteps int    `csv:"champion_steps"`

	// Distance travelled
	MedianTravelled float64 `csv:"median_travelled"`
	MaxTravelled    float64 `csv:"max_travelled"`
}

// FromGeneration aggregates a generation result.
func FromGeneration(r population.GenerationResult) GenerationStats {
	s := GenerationStats{
		Generation:      r.Generation,
		Size:            len(r.Agents),
		Won:             r.Won,
		Exhausted:       r.Exhausted,
		Dead:            r.Dead,
		MaxGenomeLength: r.MaxGenomeLength,
	}
	if s.Size == 0 {
		return s
	}
	s.WinRate = float64(s.Won) / float64(s.Size)

	fitness := make([]float64, s.Size)
	travelled := make([]float64, s.Size)
	for i, a := range r.Agents {
		fitness[i] = a.Fitness
		travelled[i] = a.Travelled
		if a.State == agent.StateWon && (s.ShortestWin == 0 || a.Used < s.ShortestWin) {
			s.ShortestWin = a.Used
		}
	}

	s.BestFitness = floats.Max(fitness)
	if s.Size > 1 {
		s.MeanFitness, s.StdFitness = stat.MeanStdDev(fitness, nil)
	} else {
		s.MeanFitness = fitness[0]
	}

	if r.Champion >= 0 && r.Champion < s.Size {
		champ := r.Agents[r.Champion]
		s.ChampionState = champ.State.String()
		s.ChampionSteps = champ.Used
	}

	sort.Float64s(travelled)
	s.MedianTravelled = stat.Quantile(0.5, stat.Empirical, travelled, nil)
	s.MaxTravelled = travelled[len(travelled)-1]
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("won", s.Won),
		slog.Int("exhausted", s.Exhausted),
		slog.Int("dead", s.Dead),
		slog.Int("max_genome_length", s.MaxGenomeLength),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.String("champion_state", s.ChampionState),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats",
		"generation", s.Generation,
		"size", s.Size,
		"won", s.Won,
		"exhausted", s.Exhausted,
		"dead", s.Dead,
		"win_rate", s.WinRate,
		"max_genome_length", s.MaxGenomeLength,
		"shortest_win", s.ShortestWin,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"std_fitness", s.StdFitness,
		"champion_state", s.ChampionState,
		"champion_steps", s.ChampionSteps,
		"median_travelled", s.MedianTravelled,
		"max_travelled", s.MaxTravelled,
	)
}

// ChampionStep is one thrust vector of a generation's champion.
type ChampionStep struct {
	Generation int     `csv:"generation"`
	Step       int     `csv:"step"`
	DX         float64 `csv:"dx"`
	DY         float64 `csv:"dy"`
}

// ChampionSteps flattens the champion's consumed vectors for CSV output.
func ChampionSteps(r population.GenerationResult) []ChampionStep {
	out := make([]ChampionStep, len(r.ChampionGenome))
	for i, v := range r.ChampionGenome {
		out[i] = ChampionStep{Generation: r.Generation, Step: i, DX: v.X, DY: v.Y}
	}
	return out
}
