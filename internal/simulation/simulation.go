package simulation

import (
	"time"

	"github.com/nvandessel/radonsim/internal/campaign"
	"github.com/nvandessel/radonsim/internal/stats"
)

// Mode is the sampling strategy of a run.
type Mode string

const (
	// ModeRandom draws Max uniformly distributed (pattern, start) pairs.
	ModeRandom Mode = "random"
	// ModeExhaustive visits every pattern at every valid start hour.
	ModeExhaustive Mode = "exhaustive"
)

// Simulation is the result of one run over a building.
type Simulation struct {
	ID       string
	Name     string
	Date     time.Time
	Building string
	// Epoch is the building variation epoch the run was computed against.
	Epoch   uint64
	Mode    Mode
	Seed    int64
	Workers int
	// Count is the number of campaigns evaluated.
	Count int
	// Patterns is the number of patterns the run sampled from.
	Patterns int
	Elapsed  time.Duration

	// Campaigns is only populated with Options.KeepCampaigns.
	Campaigns     []*campaign.Campaign
	Distributions [campaign.NumKinds]*stats.Descriptive
}

// Distribution returns the accumulator of one campaign statistic.
func (s *Simulation) Distribution(k campaign.Kind) *stats.Descriptive {
	return s.Distributions[k]
}

// Report is the serializable summary of a simulation.
type Report struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Date      time.Time                `json:"date"`
	Building  string                   `json:"building"`
	Mode      Mode                     `json:"mode"`
	Seed      int64                    `json:"seed"`
	Workers   int                      `json:"workers"`
	Count     int                      `json:"count"`
	Patterns  int                      `json:"patterns"`
	ElapsedMS int64                    `json:"elapsed_ms"`
	Stats     map[string]stats.Summary `json:"stats"`
}

// Summary returns the descriptive summary of every distribution keyed by
// campaign.Kind name.
func (s *Simulation) Summary() Report {
	r := Report{
		ID:        s.ID,
		Name:      s.Name,
		Date:      s.Date,
		Building:  s.Building,
		Mode:      s.Mode,
		Seed:      s.Seed,
		Workers:   s.Workers,
		Count:     s.Count,
		Patterns:  s.Patterns,
		ElapsedMS: s.Elapsed.Milliseconds(),
		Stats:     make(map[string]stats.Summary, campaign.NumKinds),
	}
	for _, k := range campaign.Kinds {
		if d := s.Distributions[k]; d != nil {
			r.Stats[k.String()] = d.Summarize()
		}
	}
	return r
}
