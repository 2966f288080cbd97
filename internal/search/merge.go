// Package search orchestrates the two-tier flight search: fast screening,
// selective deepening through the accurate source, caching, and the final
// merge and ranking of rated offers.
package search

import (
	"sort"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/deal"
	"award-monitor/internal/models"
)

// RatedOffer pairs an offer with its evaluation.
type RatedOffer struct {
	Offer models.FlightOffer `json:"offer"`
	Eval  deal.Evaluation    `json:"evaluation"`
}

// RankWeights control the composite ranking score. Distance efficiency
// carries the largest multiplier: award value is primarily miles per point,
// not raw price.
type RankWeights struct {
	PriceCeiling     float64
	CPPWeight        float64
	EfficiencyWeight float64
	DirectBonus      float64
}

var DefaultRankWeights = RankWeights{
	PriceCeiling:     2000,
	CPPWeight:        100,
	EfficiencyWeight: 10000,
	DirectBonus:      500,
}

// Score computes the composite ranking score for one rated offer.
func Score(r RatedOffer, w RankWeights) float64 {
	score := w.CPPWeight*r.Eval.CPP + w.EfficiencyWeight*r.Eval.Efficiency
	if price := w.PriceCeiling - r.Offer.PriceUSD; price > 0 {
		score += price
	}
	if r.Offer.Direct() {
		score += w.DirectBonus
	}
	return score
}

// Merge deduplicates offers by identity. When both sources saw the same
// flight the accurate offer wins regardless of input order; first seen wins
// within a source. Output order follows first appearance of each identity.
func Merge(offers []RatedOffer) []RatedOffer {
	byIdentity := make(map[string]int, len(offers))
	merged := make([]RatedOffer, 0, len(offers))

	for _, r := range offers {
		id := r.Offer.Identity()
		i, seen := byIdentity[id]
		if !seen {
			byIdentity[id] = len(merged)
			merged = append(merged, r)
			continue
		}
		if merged[i].Offer.Source != models.SourceAccurate && r.Offer.Source == models.SourceAccurate {
			merged[i] = r
		}
	}
	return merged
}

// Rank sorts offers by descending composite score, breaking ties by rating
// (best first) then ascending cash price. The full tie-break chain makes
// ranking idempotent: ranking an already ranked list keeps its order.
func Rank(offers []RatedOffer, w RankWeights) []RatedOffer {
	ranked := make([]RatedOffer, len(offers))
	copy(ranked, offers)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := Score(ranked[i], w), Score(ranked[j], w)
		if si != sj {
			return si > sj
		}
		if ranked[i].Eval.Rating != ranked[j].Eval.Rating {
			return ranked[i].Eval.Rating > ranked[j].Eval.Rating
		}
		return ranked[i].Offer.PriceUSD < ranked[j].Offer.PriceUSD
	})
	return ranked
}

// FilterByRating keeps offers rated at or above min.
func FilterByRating(offers []RatedOffer, min awardchart.Rating) []RatedOffer {
	kept := make([]RatedOffer, 0, len(offers))
	for _, r := range offers {
		if r.Eval.Rating.AtLeast(min) {
			kept = append(kept, r)
		}
	}
	return kept
}
