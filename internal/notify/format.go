package notify

import (
	"fmt"
	"strings"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/search"
)

func ratingLabel(r awardchart.Rating) string {
	switch r {
	case awardchart.RatingExceptional:
		return "*** EXCEPTIONAL"
	case awardchart.RatingGreat:
		return "** GREAT"
	case awardchart.RatingGood:
		return "* GOOD"
	case awardchart.RatingFair:
		return "FAIR"
	default:
		return "POOR"
	}
}

// FormatDealSummary renders one deal as a human-readable block for alerts.
func FormatDealSummary(r search.RatedOffer) string {
	var b strings.Builder
	o, e := r.Offer, r.Eval

	b.WriteString("GREAT DEAL FOUND!\n\n")
	fmt.Fprintf(&b, "Route: %s -> %s (%.0f miles)\n", o.Origin, o.Destination, e.Distance)

	fmt.Fprintf(&b, "Date: %s", o.DepartureDate)
	if o.ReturnDate != "" {
		fmt.Fprintf(&b, " - %s", o.ReturnDate)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Airline: %s\n", o.Airline)
	fmt.Fprintf(&b, "Class: %s\n", o.CabinClass)
	if o.Direct() {
		b.WriteString("Stops: Direct\n")
	} else {
		fmt.Fprintf(&b, "Stops: %d\n", o.Stops)
	}

	fmt.Fprintf(&b, "\nPrice: $%.2f USD\n", o.PriceUSD)
	fmt.Fprintf(&b, "Points: %d (%.2f cents per point)", o.Points, e.CPP)
	if o.PointsEstimated {
		b.WriteString(" [estimated]")
	}
	b.WriteString("\n")

	if pr, ok := e.Band.Range(o.CabinClass); ok {
		fmt.Fprintf(&b, "\nAward Chart Analysis (%s):\n", e.ChartName)
		fmt.Fprintf(&b, "  Expected Range: %d-%d points\n", pr.Min, pr.Max)
		fmt.Fprintf(&b, "  This Flight: %d points\n", o.Points)
		fmt.Fprintf(&b, "  Rating: %s - %s\n", ratingLabel(e.Rating), e.Explanation)
	}
	fmt.Fprintf(&b, "  Distance Efficiency: %.3f miles/point\n", e.Efficiency)

	if o.BookingURL != "" {
		fmt.Fprintf(&b, "\nBook now: %s\n", o.BookingURL)
	}
	return b.String()
}

// FormatDealsDigest joins deal summaries into one alert body.
func FormatDealsDigest(deals []search.RatedOffer) string {
	summaries := make([]string, 0, len(deals))
	for _, d := range deals {
		summaries = append(summaries, FormatDealSummary(d))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d flight deal%s:\n\n", len(deals), plural(len(deals)))
	b.WriteString(strings.Join(summaries, "\n"+strings.Repeat("=", 60)+"\n\n"))
	b.WriteString("\n\nHappy travels!")
	return b.String()
}

// Subject returns the alert subject line for a batch of deals.
func Subject(count int) string {
	return fmt.Sprintf("%d Flight Deal%s Found!", count, plural(count))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
