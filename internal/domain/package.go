package domain

import "github.com/google/uuid"

type (
	// SizeCategory is the package size class used for pricing.
	SizeCategory string
	// UrgencyTier selects delivery speed.
	UrgencyTier string
)

// List of size categories.
const (
	SizeSmall      SizeCategory = "small"
	SizeMedium     SizeCategory = "medium"
	SizeLarge      SizeCategory = "large"
	SizeExtraLarge SizeCategory = "extra_large"
)

// List of urgency tiers.
const (
	UrgencyASAP      UrgencyTier = "asap"
	Urgency1H        UrgencyTier = "1h"
	Urgency2H        UrgencyTier = "2h"
	Urgency4H        UrgencyTier = "4h"
	UrgencyScheduled UrgencyTier = "scheduled"
)

// SizeCategories lists every size category.
var SizeCategories = [...]SizeCategory{SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge}

// UrgencyTiers lists every urgency tier.
var UrgencyTiers = [...]UrgencyTier{UrgencyASAP, Urgency1H, Urgency2H, Urgency4H, UrgencyScheduled}

// Valid checks if the SizeCategory is known.
func (s SizeCategory) Valid() bool {
	for _, v := range SizeCategories {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the UrgencyTier is known.
func (u UrgencyTier) Valid() bool {
	for _, v := range UrgencyTiers {
		if u == v {
			return true
		}
	}
	return false
}

// Package is the parcel carried by exactly one order.
type Package struct {
	ID                uuid.UUID
	Type              string
	Size              SizeCategory
	WeightKg          float64
	DeclaredValue     float64
	Fragile           bool
	PickupCondition   string
	DeliveryCondition string
}
