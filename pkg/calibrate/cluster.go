package calibrate

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/itohio/goladder/pkg/ladder"
)

const (
	// MinMargin is the smallest suggested half-width of a band.
	MinMargin = 50
	// MarginRatio is the suggested half-width relative to the average reading.
	MarginRatio = 0.1
)

type member struct {
	raw     int
	voltage float64
}

// cluster groups readings close to a fixed center.
type cluster struct {
	center  int
	members []member
}

// clusterSet performs first-match proximity clustering.
type clusterSet struct {
	threshold int
	clusters  []*cluster
}

func newClusterSet(threshold int) *clusterSet {
	return &clusterSet{threshold: threshold}
}

// add appends the reading to the first cluster whose center is closer than
// threshold, or starts a new cluster centered on it.
func (s *clusterSet) add(raw int, voltage float64) {
	for _, c := range s.clusters {
		if abs(raw-c.center) < s.threshold {
			c.members = append(c.members, member{raw: raw, voltage: voltage})
			return
		}
	}
	s.clusters = append(s.clusters, &cluster{
		center:  raw,
		members: []member{{raw: raw, voltage: voltage}},
	})
}

// Margin returns the suggested band half-width for an average reading:
// 10% of the average, but never less than MinMargin.
func Margin(avgRaw float64) int {
	return max(MinMargin, int(math.Round(MarginRatio*avgRaw)))
}

// SuggestedRange returns the band suggested around an average reading.
func SuggestedRange(avgRaw float64) (lo, hi int) {
	center := int(math.Round(avgRaw))
	margin := Margin(avgRaw)
	return center - margin, center + margin
}

// summarize drops clusters with fewer than minSamples members, ranks the
// rest by center (highest first) and computes their statistics.
func summarize(clusters []*cluster, minSamples int) []State {
	valid := make([]*cluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.members) >= minSamples {
			valid = append(valid, c)
		}
	}

	slices.SortStableFunc(valid, func(a, b *cluster) int {
		return cmp.Compare(b.center, a.center)
	})

	states := make([]State, 0, len(valid))
	for i, c := range valid {
		states = append(states, c.state(i))
	}
	return states
}

// state computes the statistics of a cluster ranked at position rank.
func (c *cluster) state(rank int) State {
	rawMin, rawMax := c.members[0].raw, c.members[0].raw
	var sumRaw, sumVoltage float64
	for _, m := range c.members {
		rawMin = min(rawMin, m.raw)
		rawMax = max(rawMax, m.raw)
		sumRaw += float64(m.raw)
		sumVoltage += m.voltage
	}

	n := float64(len(c.members))
	avgRaw := sumRaw / n
	lo, hi := SuggestedRange(avgRaw)

	s := State{
		Center:       c.center,
		SampleCount:  len(c.members),
		RawMin:       rawMin,
		RawMax:       rawMax,
		RawAvg:       avgRaw,
		VoltageAvg:   sumVoltage / n,
		Margin:       Margin(avgRaw),
		SuggestedMin: lo,
		SuggestedMax: hi,
	}

	if rank == 0 {
		s.Symbol = ladder.NoPress
		s.Label = "No Press"
		s.Baseline = true
	} else {
		s.Symbol = ladder.Symbol(fmt.Sprintf("BUTTON_%d", rank))
		s.Label = fmt.Sprintf("Button %d", rank)
	}

	return s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
