package enrichment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var companyByDomain = map[string]string{
	"gmail.com":      "Personal Email",
	"yahoo.com":      "Personal Email",
	"outlook.com":    "Personal Email",
	"techcorp.com":   "TechCorp Inc.",
	"startup.io":     "Startup.io",
	"enterprise.com": "Enterprise Solutions",
	"consulting.com": "Consulting Group",
}

// Checked in order, first substring match wins.
var industryKeywords = []struct {
	keyword  string
	industry string
}{
	{"tech", "Technology"},
	{"finance", "Financial Services"},
	{"health", "Healthcare"},
	{"edu", "Education"},
	{"consulting", "Consulting"},
}

var SimulatedCountries = []string{"US", "UK", "CA", "AU", "DE", "FR", "NL", "SE"}

func domainOf(email string) string {
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return strings.ToLower(domain)
}

func companyNameFor(domain string) string {
	if name, ok := companyByDomain[domain]; ok {
		return name
	}

	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return "Unknown Company"
	}
	first, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(first)) + label[size:] + " Company"
}

func industryFor(domain string) string {
	for _, k := range industryKeywords {
		if strings.Contains(domain, k.keyword) {
			return k.industry
		}
	}
	return "General Business"
}
