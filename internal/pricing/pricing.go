// Package pricing computes the final price of a procedure from its
// resolved materials, its duration, and the patient's discount
// profile. The arithmetic is pure; callers fetch the enriched
// procedure and the patient first and pass both in.
package pricing

import (
	"math"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

// Rates are the clinic-level pricing knobs.
type Rates struct {
	// Hourly is the labor rate in BRL per hour.
	Hourly float64
	// AssistantFee is the flat surcharge when an assistant is present.
	AssistantFee float64
}

// DefaultRates mirrors the clinic's standing rates.
func DefaultRates() Rates {
	return Rates{Hourly: 100.00, AssistantFee: 50.00}
}

// Quote is the price breakdown for one procedure. Component values
// are unrounded; only Total carries the half-up rounding to cents.
type Quote struct {
	Materials    float64 `json:"materials"`
	Labor        float64 `json:"labor"`
	Assistant    float64 `json:"assistant"`
	Subtotal     float64 `json:"subtotal"`
	DiscountRate float64 `json:"discountRate"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// Discount derives the patient's discount fraction (0.0 to 0.25).
// Seniority and loyalty stack, capped at 25%.
func Discount(p clinic.Patient) float64 {
	d := 0.0
	if p.Age >= 60 {
		d += 0.10
	}
	switch {
	case p.Loyalty >= 200:
		d += 0.10
	case p.Loyalty >= 100:
		d += 0.05
	}
	return math.Min(d, 0.25)
}

// usageCost prices one material usage. Disposables are consumed and
// charged per unit; reusables charge 10% of the unit value once, no
// matter how many times they are handled during the procedure. A
// dangling reference contributes nothing.
func usageCost(u clinic.ResolvedUsage) float64 {
	if u.Material == nil {
		return 0
	}
	if u.Material.Reusable {
		return u.Material.Value * 0.10
	}
	return u.Material.Value * float64(u.Quantity)
}

// ForProcedure quotes a procedure for a patient. A nil patient means
// no discount profile is available and the full price applies.
func ForProcedure(e clinic.EnrichedProcedure, patient *clinic.Patient, r Rates) Quote {
	var q Quote
	for _, u := range e.Resolved {
		q.Materials += usageCost(u)
	}
	// Duration is stored in minutes, the rate per hour.
	q.Labor = r.Hourly * float64(e.Duration) / 60.0
	if e.Assistant {
		q.Assistant = r.AssistantFee
	}
	q.Subtotal = q.Materials + q.Labor + q.Assistant

	if patient != nil {
		q.DiscountRate = Discount(*patient)
	}
	q.Discount = q.Subtotal * q.DiscountRate
	q.Total = roundCents(q.Subtotal - q.Discount)
	return q
}

// roundCents rounds half-up to two decimal places.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
