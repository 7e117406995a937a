package bot

// ===========================================================================
// Risk Classifier
// Deterministic decision table mapping (sector, area) to a risk tier.
// For a fixed sector the tier never goes down as the area grows.
// ===========================================================================

// RiskLevel ITSE risk tier of a property
type RiskLevel string

const (
	// RiskIndeterminate not enough signals to classify
	RiskIndeterminate RiskLevel = "indeterminate"

	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// highRiskSectors sectors that start at medium regardless of area
var highRiskSectors = map[Sector]bool{
	SectorRestaurant: true,
	SectorWorkshop:   true,
	SectorHotel:      true,
}

// ClassifyRisk maps a classification to a risk tier.
func ClassifyRisk(c Classification) RiskLevel {
	if c.Sector == SectorNone && !c.HasArea {
		return RiskIndeterminate
	}

	if c.HasArea && c.AreaM2 >= 300 {
		return RiskHigh
	}

	if highRiskSectors[c.Sector] {
		if c.HasArea && c.AreaM2 >= 200 {
			return RiskHigh
		}
		return RiskMedium
	}

	if c.HasArea && c.AreaM2 >= 120 {
		return RiskMedium
	}

	return RiskLow
}
