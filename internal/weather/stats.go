package weather

// ComputeStats derives the tropical-night statistics of one year's dataset.
// The hottest tropical night is the first record holding the maximum value.
func ComputeStats(year int, ds YearDataset) YearStats {
	stats := YearStats{
		Year:      year,
		TotalDays: len(ds),
	}
	if len(ds) == 0 {
		return stats
	}

	var sum float64
	for i, r := range ds {
		sum += r.MinTemp

		if i == 0 || r.MinTemp > stats.MaxMinTemp {
			stats.MaxMinTemp = r.MinTemp
		}

		if !r.IsTropical() {
			continue
		}
		stats.TropicalNights++
		if stats.HottestTropical == nil || r.MinTemp > stats.HottestTropical.MinTemp {
			rec := r
			stats.HottestTropical = &rec
		}
	}

	n := float64(len(ds))
	stats.AvgMinTemp = sum / n
	stats.TropicalPercent = float64(stats.TropicalNights) / n * 100

	return stats
}

// TropicalNights returns the records that reached TropicalThreshold, in stored order.
func TropicalNights(ds YearDataset) YearDataset {
	out := make(YearDataset, 0)
	for _, r := range ds {
		if r.IsTropical() {
			out = append(out, r)
		}
	}
	return out
}
