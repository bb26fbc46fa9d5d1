package entity

// Company size bands reported by enrichment.
const (
	CompanySize1To10     = "1-10"
	CompanySize11To50    = "11-50"
	CompanySize51To200   = "51-200"
	CompanySize201To500  = "201-500"
	CompanySize501To1000 = "501-1000"
	CompanySize1000Plus  = "1000+"
)

var CompanySizes = []string{
	CompanySize1To10,
	CompanySize11To50,
	CompanySize51To200,
	CompanySize201To500,
	CompanySize501To1000,
	CompanySize1000Plus,
}

// EnrichmentData is partial company knowledge about a lead. An empty string
// means the field is unknown.
type EnrichmentData struct {
	CompanyName string `json:"companyName,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Country     string `json:"country,omitempty"`
}

func (d EnrichmentData) Empty() bool {
	return d.CompanyName == "" && d.CompanySize == "" && d.Industry == "" && d.Country == ""
}

// MissingFields counts the unknown fields among the four.
func (d EnrichmentData) MissingFields() int {
	missing := 0
	for _, v := range []string{d.CompanyName, d.CompanySize, d.Industry, d.Country} {
		if v == "" {
			missing++
		}
	}
	return missing
}

type EnrichmentSource string

const (
	SourceAPI       EnrichmentSource = "api"
	SourceSimulator EnrichmentSource = "simulator"
)

// EnrichmentOutcome is either a success carrying data or a failure carrying
// a reason. Data is nil exactly when the outcome is a failure.
type EnrichmentOutcome struct {
	Data   *EnrichmentData
	Reason string
	Source EnrichmentSource
}

func EnrichmentSuccess(data EnrichmentData, source EnrichmentSource) EnrichmentOutcome {
	return EnrichmentOutcome{Data: &data, Source: source}
}

func EnrichmentFailure(reason string, source EnrichmentSource) EnrichmentOutcome {
	return EnrichmentOutcome{Reason: reason, Source: source}
}

func (o EnrichmentOutcome) Succeeded() bool {
	return o.Data != nil
}
