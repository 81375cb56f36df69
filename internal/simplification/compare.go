package simplification

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
)

// Ranked is a scored candidate.
type Ranked struct {
	Candidate      Candidate `json:"candidate"`
	WithinFidelity bool      `json:"withinFidelity"`
}

// Compare runs every candidate over zones and ranks them: candidates whose
// area deviation stays within maxAreaDeviation come first, then by point
// reduction, then by name.
func (p *Pipeline) Compare(ctx context.Context, zones []domain.ParkingZone, candidates []Candidate, maxAreaDeviation float64) ([]Ranked, error) {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		res, err := p.Run(ctx, zones, c.Settings)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c.Name, err)
		}
		metrics := res.Metrics
		c.Metrics = &metrics
		ranked = append(ranked, Ranked{
			Candidate:      c,
			WithinFidelity: metrics.MaxAreaDeviation <= maxAreaDeviation,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.WithinFidelity != b.WithinFidelity {
			return a.WithinFidelity
		}
		if a.Candidate.Metrics.ReductionPercent != b.Candidate.Metrics.ReductionPercent {
			return a.Candidate.Metrics.ReductionPercent > b.Candidate.Metrics.ReductionPercent
		}
		return a.Candidate.Name < b.Candidate.Name
	})

	if len(ranked) > 0 {
		p.logger.Info("Candidates compared",
			zap.Int("candidates", len(ranked)),
			zap.String("best", ranked[0].Candidate.Name))
	}
	return ranked, nil
}
