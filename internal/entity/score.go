package entity

const (
	websitePoints          = 10
	optimalSizePoints      = 20
	highValueCountryPoints = 10
	missingFieldPenalty    = 5
	noEnrichmentPenalty    = 20

	QualificationThreshold = 20
)

var highValueCountries = map[string]bool{
	"US": true,
	"UK": true,
	"CA": true,
}

// Score returns the lead score for the website flag and enrichment data.
// A nil data means no enrichment was obtained. The result is never negative.
func Score(hasWebsite bool, data *EnrichmentData) int {
	score := 0

	if hasWebsite {
		score += websitePoints
	}

	if data != nil {
		if data.CompanySize == CompanySize11To50 {
			score += optimalSizePoints
		}
		if highValueCountries[data.Country] {
			score += highValueCountryPoints
		}
		score -= data.MissingFields() * missingFieldPenalty
	} else {
		score -= noEnrichmentPenalty
	}

	return max(0, score)
}

func IsQualified(score int) bool {
	return score >= QualificationThreshold
}
