package finmath

// ===== GROWTH PATHS AND FLOW PROJECTION =====

// GrowthPath builds the per-year growth vector for an explicit
// horizon. A manual vector always wins; otherwise growth holds at
// gStart for the high-growth period and fades linearly to gTerminal
// over the remaining years.
func GrowthPath(gStart, gTerminal float64, years, highGrowthYears int, manual []float64) []float64 {
	if years <= 0 {
		return nil
	}
	path := make([]float64, years)

	if len(manual) > 0 {
		for t := 0; t < years; t++ {
			if t < len(manual) {
				path[t] = manual[t]
			} else {
				path[t] = manual[len(manual)-1]
			}
		}
		return path
	}

	if highGrowthYears >= years {
		highGrowthYears = years
	}
	if highGrowthYears < 0 {
		highGrowthYears = 0
	}

	for t := 1; t <= years; t++ {
		switch {
		case t <= highGrowthYears:
			path[t-1] = gStart
		case years == 1 || (highGrowthYears == 0 && years == 1):
			path[t-1] = gStart
		default:
			var alpha float64
			if highGrowthYears > 0 {
				alpha = float64(t-highGrowthYears) / float64(years-highGrowthYears)
			} else if years > 1 {
				alpha = float64(t-1) / float64(years-1)
			}
			path[t-1] = gStart + (gTerminal-gStart)*alpha
		}
	}
	return path
}

// ProjectFlows compounds a base flow through a growth path. The base
// itself (year zero) is not part of the output.
func ProjectFlows(base float64, growth []float64) []float64 {
	flows := make([]float64, len(growth))
	level := base
	for t, g := range growth {
		level *= 1.0 + g
		flows[t] = level
	}
	return flows
}

// MarginConvergedFlows projects revenue through the growth path while
// the flow margin walks linearly from the current level to the target.
// Flow t equals revenue_t * margin_t.
func MarginConvergedFlows(baseRevenue, currentMargin, targetMargin float64, growth []float64) []float64 {
	years := len(growth)
	flows := make([]float64, years)
	revenue := baseRevenue
	for t := 1; t <= years; t++ {
		revenue *= 1.0 + growth[t-1]
		margin := currentMargin + (targetMargin-currentMargin)*float64(t)/float64(years)
		flows[t-1] = revenue * margin
	}
	return flows
}

// SustainableGrowth is ROE times the retention ratio.
func SustainableGrowth(roe, payoutRatio float64) float64 {
	return roe * (1.0 - payoutRatio)
}
