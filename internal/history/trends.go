package history

import "fmt"

// BuildTrendReport annotates an ordered run list with per-run deltas.
func BuildTrendReport(runs []Run) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs available")
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			Timestamp:     current.Timestamp,
			CommitHash:    current.CommitHash,
			FileCount:     current.FileCount,
			CycleCount:    current.CycleCount,
			AffectedCount: current.AffectedCount,
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaCycles = current.CycleCount - prev.CycleCount
			point.DeltaAffected = current.AffectedCount - prev.AffectedCount
		}

		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		RunCount:      len(points),
		Points:        points,
	}, nil
}
