// Package pricing turns trip distance, package attributes and urgency into
// an itemized quote.
package pricing

import (
	"fmt"
	"math"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
)

const (
	fragileHandlingFee = 5.00
	serviceFeeRate     = 0.15
	taxRate            = 0.08
)

// Config holds rates and multiplier tables. Every size category and urgency
// tier must have an entry.
type Config struct {
	BaseRate           float64
	PerKmRate          float64
	SizeMultipliers    map[domain.SizeCategory]float64
	UrgencyMultipliers map[domain.UrgencyTier]float64
}

// DefaultConfig returns the standard tariff.
func DefaultConfig() Config {
	return Config{
		BaseRate:  15,
		PerKmRate: 2.5,
		SizeMultipliers: map[domain.SizeCategory]float64{
			domain.SizeSmall:      1.0,
			domain.SizeMedium:     1.2,
			domain.SizeLarge:      1.5,
			domain.SizeExtraLarge: 2.0,
		},
		UrgencyMultipliers: map[domain.UrgencyTier]float64{
			domain.UrgencyASAP:      2.0,
			domain.Urgency1H:        1.5,
			domain.Urgency2H:        1.2,
			domain.Urgency4H:        1.0,
			domain.UrgencyScheduled: 0.9,
		},
	}
}

// Engine computes quotes from a validated tariff.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.BaseRate < 0 || cfg.PerKmRate < 0 {
		return nil, fmt.Errorf("pricing: rates must be non-negative")
	}
	for _, s := range domain.SizeCategories {
		m, ok := cfg.SizeMultipliers[s]
		if !ok {
			return nil, fmt.Errorf("pricing: missing size multiplier for %q", s)
		}
		if m <= 0 {
			return nil, fmt.Errorf("pricing: size multiplier for %q must be positive", s)
		}
	}
	for _, u := range domain.UrgencyTiers {
		m, ok := cfg.UrgencyMultipliers[u]
		if !ok {
			return nil, fmt.Errorf("pricing: missing urgency multiplier for %q", u)
		}
		if m <= 0 {
			return nil, fmt.Errorf("pricing: urgency multiplier for %q must be positive", u)
		}
	}
	return &Engine{cfg: cfg}, nil
}

// PackageSpec is the subset of package attributes that affect price.
type PackageSpec struct {
	Size    domain.SizeCategory
	Fragile bool
}

// Quote prices a trip. Every displayed field is rounded half-up to cents and
// later fields are computed from the rounded ones, so Total always equals the
// sum of the itemization.
func (e *Engine) Quote(distanceKm float64, pkg PackageSpec, urgency domain.UrgencyTier) (domain.PriceBreakdown, error) {
	sizeMul, ok := e.cfg.SizeMultipliers[pkg.Size]
	if !ok {
		return domain.PriceBreakdown{}, apperr.Invalid("unknown size category")
	}
	urgencyMul, ok := e.cfg.UrgencyMultipliers[urgency]
	if !ok {
		return domain.PriceBreakdown{}, apperr.Invalid("unknown urgency tier")
	}
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return domain.PriceBreakdown{}, apperr.Invalid("distance must be a non-negative number")
	}

	distancePrice := math.Max(e.cfg.BaseRate, e.cfg.BaseRate+distanceKm*e.cfg.PerKmRate)

	var p domain.PriceBreakdown
	p.Base = Round2(distancePrice * sizeMul)
	p.UrgencyPremium = Round2(math.Max(0, p.Base*(urgencyMul-1)))
	p.SizePremium = Round2(math.Max(0, p.Base*(sizeMul-1)))
	if pkg.Fragile {
		p.HandlingFee = fragileHandlingFee
	}
	subtotal := p.Base + p.UrgencyPremium + p.SizePremium + p.HandlingFee
	p.ServiceFee = Round2(serviceFeeRate * subtotal)
	p.Tax = Round2(taxRate * (subtotal + p.ServiceFee))
	p.Total = Round2(subtotal + p.ServiceFee + p.Tax)
	return p, nil
}

// Round2 rounds half-up to two decimal places. The epsilon absorbs binary
// representation error such as 6.215 being stored as 6.21499999.
func Round2(v float64) float64 {
	if v < 0 {
		return -Round2(-v)
	}
	return math.Floor(v*100+0.5+1e-7) / 100
}

// CourierEarnings is the courier's share of a quote: everything except the
// platform service fee and tax.
func CourierEarnings(p domain.PriceBreakdown) float64 {
	return Round2(p.Total - p.ServiceFee - p.Tax)
}
