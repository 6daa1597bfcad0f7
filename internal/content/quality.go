package content

// Quality weights.
const (
	errorPenalty     = 0.1
	warningPenalty   = 0.05
	entityReward     = 0.1
	technologyReward = 0.1
	imageReward      = 0.05
	maxQuality       = 1.0
	minQuality       = 0.0
	startingQuality  = 1.0
)

// Quality computes the extraction quality score: penalties are applied first,
// then rewards, then the result is clamped to [0, 1].
func Quality(errors, warnings int, hasEntity, hasTechnologies, hasImages bool) float64 {
	q := startingQuality
	q -= errorPenalty * float64(errors)
	q -= warningPenalty * float64(warnings)
	if hasEntity {
		q += entityReward
	}
	if hasTechnologies {
		q += technologyReward
	}
	if hasImages {
		q += imageReward
	}
	if q > maxQuality {
		return maxQuality
	}
	if q < minQuality {
		return minQuality
	}
	return q
}

// ComputeQuality recomputes ExtractionQuality from the record's current state.
func (e *Extracted) ComputeQuality() float64 {
	e.ExtractionQuality = Quality(
		len(e.ValidationErrors),
		len(e.ValidationWarnings),
		e.HasEntity(),
		len(e.Technologies) > 0,
		len(e.Images) > 0,
	)
	return e.ExtractionQuality
}
