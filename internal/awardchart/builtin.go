package awardchart

import "math"

// builtinCharts returns the charts shipped with the monitor. Band boundaries
// are contiguous over [0, +Inf); the top band of each chart is unbounded so
// ultra-long-haul routes still resolve.
func builtinCharts() []Chart {
	inf := math.Inf(1)

	return []Chart{
		{
			// Composite of common legacy airline charts.
			Name: "standard",
			Bands: []DistanceBand{
				{
					MinMiles: 0, MaxMiles: 5000,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:        {Min: 55000, Max: 69000},
						CabinPremiumEconomy: {Min: 75000, Max: 95000},
						CabinBusiness:       {Min: 110000, Max: 140000},
						CabinFirst:          {Min: 165000, Max: 210000},
					},
				},
				{
					MinMiles: 5000, MaxMiles: 7500,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:        {Min: 75000, Max: 90000},
						CabinPremiumEconomy: {Min: 100000, Max: 120000},
						CabinBusiness:       {Min: 150000, Max: 180000},
						CabinFirst:          {Min: 225000, Max: 270000},
					},
				},
				{
					MinMiles: 7500, MaxMiles: 11000,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:        {Min: 87500, Max: 103500},
						CabinPremiumEconomy: {Min: 120000, Max: 145000},
						CabinBusiness:       {Min: 175000, Max: 210000},
						CabinFirst:          {Min: 262500, Max: 315000},
					},
				},
				{
					MinMiles: 11000, MaxMiles: inf,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:        {Min: 110000, Max: 132000},
						CabinPremiumEconomy: {Min: 150000, Max: 180000},
						CabinBusiness:       {Min: 220000, Max: 264000},
						CabinFirst:          {Min: 330000, Max: 396000},
					},
				},
			},
		},
		{
			// ANA Mileage Club, economy and business only.
			Name: "ana",
			Bands: []DistanceBand{
				{
					MinMiles: 0, MaxMiles: 2000,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:  {Min: 12000, Max: 15000},
						CabinBusiness: {Min: 25000, Max: 30000},
					},
				},
				{
					MinMiles: 2000, MaxMiles: 4000,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:  {Min: 20000, Max: 25000},
						CabinBusiness: {Min: 40000, Max: 50000},
					},
				},
				{
					MinMiles: 4000, MaxMiles: 6500,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:  {Min: 35000, Max: 43000},
						CabinBusiness: {Min: 60000, Max: 75000},
					},
				},
				{
					MinMiles: 6500, MaxMiles: inf,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:  {Min: 50000, Max: 60000},
						CabinBusiness: {Min: 85000, Max: 105000},
					},
				},
			},
		},
		{
			// Delta SkyMiles is dynamic; these are typical observed ranges.
			Name: "delta",
			Bands: []DistanceBand{
				{
					MinMiles: 0, MaxMiles: 5000,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:  {Min: 45000, Max: 80000},
						CabinBusiness: {Min: 100000, Max: 180000},
					},
				},
				{
					MinMiles: 5000, MaxMiles: inf,
					Ranges: map[CabinClass]PointRange{
						CabinEconomy:  {Min: 70000, Max: 120000},
						CabinBusiness: {Min: 140000, Max: 250000},
					},
				},
			},
		},
	}
}
