package domain

// BuyerType classifies the kind of prospective acquirer.
type BuyerType string

const (
	BuyerTypeStrategic  BuyerType = "strategic"
	BuyerTypeFinancial  BuyerType = "financial"
	BuyerTypeIndividual BuyerType = "individual"
	BuyerTypeManagement BuyerType = "management"
	BuyerTypeESOP       BuyerType = "esop"
	BuyerTypeOther      BuyerType = "other"
)

// AllBuyerTypes lists every buyer type. Breakdown reports enumerate all
// of them, including zero-count entries.
var AllBuyerTypes = []BuyerType{
	BuyerTypeStrategic,
	BuyerTypeFinancial,
	BuyerTypeIndividual,
	BuyerTypeManagement,
	BuyerTypeESOP,
	BuyerTypeOther,
}

// Tier ranks a buyer's attractiveness from A (best) to D.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// AllTiers lists every tier.
var AllTiers = []Tier{TierA, TierB, TierC, TierD}

// IsKnownBuyerType reports whether the value belongs to the buyer type
// enumeration.
func IsKnownBuyerType(t BuyerType) bool {
	for _, known := range AllBuyerTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsKnownTier reports whether the value belongs to the tier enumeration.
func IsKnownTier(t Tier) bool {
	for _, known := range AllTiers {
		if t == known {
			return true
		}
	}
	return false
}
