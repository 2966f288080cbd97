package geo

import "strings"

// countryAirports maps ISO country codes to their major airports, used to
// expand country-level search configuration into concrete route lists.
var countryAirports = map[string][]string{
	"US": {
		"JFK", "EWR", "LGA", "BOS", "PHL", "IAD", "DCA", "ATL", "MIA",
		"LAX", "SFO", "SEA", "PDX", "SAN",
		"ORD", "DFW", "IAH", "DEN", "PHX",
	},
	"JP": {"NRT", "HND", "KIX"},
	"KR": {"ICN"},
	"TW": {"TPE"},
	"CN": {"PVG", "HKG"},
	"SG": {"SIN"},
	"TH": {"BKK"},
	"IN": {"DEL"},
	"GB": {"LHR"},
	"FR": {"CDG"},
	"DE": {"FRA", "MUC"},
	"NL": {"AMS"},
	"ES": {"MAD"},
	"IT": {"FCO"},
	"CH": {"ZRH"},
	"AU": {"SYD", "MEL"},
	"NZ": {"AKL"},
	"AE": {"DXB", "AUH"},
	"QA": {"DOH"},
	"BR": {"GRU"},
	"AR": {"EZE"},
	"PE": {"LIM"},
}

// AirportsForCountry returns the airports mapped to an ISO country code.
func AirportsForCountry(countryCode string) []string {
	return countryAirports[strings.ToUpper(countryCode)]
}

// ExpandCountries combines explicit airport codes with the airports of the
// given countries, deduplicated and order-preserving.
func ExpandCountries(countries, airports []string) []string {
	out := make([]string, 0, len(airports))
	seen := make(map[string]bool)

	add := func(code string) {
		code = strings.ToUpper(code)
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	for _, a := range airports {
		add(a)
	}
	for _, c := range countries {
		for _, a := range AirportsForCountry(c) {
			add(a)
		}
	}

	return out
}
