package geo

// Coordinate is an airport position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// airportCoordinates maps IATA codes to coordinates. Loaded once at process
// start, read-only afterwards.
var airportCoordinates = map[string]Coordinate{
	// US East Coast
	"JFK": {40.6413, -73.7781},
	"EWR": {40.6895, -74.1745},
	"LGA": {40.7769, -73.8740},
	"BOS": {42.3656, -71.0096},
	"PHL": {39.8729, -75.2437},
	"IAD": {38.9531, -77.4565},
	"DCA": {38.8512, -77.0402},
	"ATL": {33.6407, -84.4277},
	"MIA": {25.7959, -80.2870},

	// US West Coast
	"LAX": {33.9416, -118.4085},
	"SFO": {37.6213, -122.3790},
	"SEA": {47.4502, -122.3088},
	"PDX": {45.5898, -122.5951},
	"SAN": {32.7338, -117.1933},

	// US Central
	"ORD": {41.9742, -87.9073},
	"DFW": {32.8998, -97.0403},
	"IAH": {29.9902, -95.3368},
	"DEN": {39.8561, -104.6737},
	"PHX": {33.4352, -112.0101},

	// Asia - Japan
	"NRT": {35.7653, 140.3854},
	"HND": {35.5494, 139.7798},
	"KIX": {34.4273, 135.2440},

	// Asia - Other
	"TPE": {25.0777, 121.2328},
	"ICN": {37.4602, 126.4407},
	"PVG": {31.1443, 121.8083},
	"HKG": {22.3080, 113.9185},
	"SIN": {1.3644, 103.9915},
	"BKK": {13.6900, 100.7501},
	"DEL": {28.5562, 77.1000},

	// Europe
	"LHR": {51.4700, -0.4543},
	"CDG": {49.0097, 2.5479},
	"FRA": {50.0379, 8.5622},
	"AMS": {52.3086, 4.7639},
	"MAD": {40.4983, -3.5676},
	"FCO": {41.8003, 12.2389},
	"MUC": {48.3537, 11.7750},
	"ZRH": {47.4647, 8.5492},

	// Oceania
	"SYD": {-33.9399, 151.1753},
	"MEL": {-37.6690, 144.8410},
	"AKL": {-37.0082, 174.7850},

	// Middle East
	"DXB": {25.2532, 55.3657},
	"DOH": {25.2731, 51.6080},
	"AUH": {24.4330, 54.6511},

	// South America
	"GRU": {-23.4356, -46.4731},
	"EZE": {-34.8222, -58.5358},
	"LIM": {-12.0219, -77.1143},
}
