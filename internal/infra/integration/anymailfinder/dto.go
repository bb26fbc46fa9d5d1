package anymailfinder

import (
	"encoding/json"
	"fmt"
)

// PersonResponse covers both the nested and the flat shapes the search
// endpoint has been seen to return.
type PersonResponse struct {
	Company  *companyInfo
	Location *locationInfo

	CompanyName string
	CompanySize string
	Industry    string
	Country     string
}

type companyInfo struct {
	Name     string
	Size     string
	Industry string
}

type locationInfo struct {
	Country string
}

// UnmarshalJSON reads each field on its own. A key with an unexpected type
// is treated as absent instead of failing the whole body, so the flat
// fields survive a "company" that is not an object. Only a body that is
// not a JSON object is an error.
func (p *PersonResponse) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}

	*p = PersonResponse{
		CompanyName: textOf(top["company_name"]),
		CompanySize: textOf(top["company_size"]),
		Industry:    textOf(top["industry"]),
		Country:     textOf(top["country"]),
	}

	if company := objectOf(top["company"]); company != nil {
		p.Company = &companyInfo{
			Name:     textOf(company["name"]),
			Size:     textOf(company["size"]),
			Industry: textOf(company["industry"]),
		}
	}
	if location := objectOf(top["location"]); location != nil {
		p.Location = &locationInfo{Country: textOf(location["country"])}
	}

	return nil
}

// textOf returns a JSON string as is and a JSON number in its literal form.
// Anything else reads as empty.
func textOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func objectOf(raw json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	return obj
}

func (p PersonResponse) NameOfCompany() string {
	if p.Company != nil && p.Company.Name != "" {
		return p.Company.Name
	}
	return p.CompanyName
}

func (p PersonResponse) SizeOfCompany() string {
	if p.Company != nil && p.Company.Size != "" {
		return p.Company.Size
	}
	return p.CompanySize
}

func (p PersonResponse) IndustryOfCompany() string {
	if p.Company != nil && p.Company.Industry != "" {
		return p.Company.Industry
	}
	return p.Industry
}

func (p PersonResponse) CountryOfPerson() string {
	if p.Location != nil && p.Location.Country != "" {
		return p.Location.Country
	}
	return p.Country
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// APIError is returned for any non-2xx answer. Message holds the provider's
// own explanation when the body carried one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("anymailfinder: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("anymailfinder: status %d", e.StatusCode)
}
