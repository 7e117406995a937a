package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name     string
		c        Classification
		expected RiskLevel
	}{
		{"no signals", Classification{}, RiskIndeterminate},
		{"large area always high", Classification{AreaM2: 300, HasArea: true}, RiskHigh},
		{"large area office still high", Classification{Sector: SectorOffice, AreaM2: 500, HasArea: true}, RiskHigh},
		{"restaurant no area", Classification{Sector: SectorRestaurant}, RiskMedium},
		{"restaurant small area", Classification{Sector: SectorRestaurant, AreaM2: 150, HasArea: true}, RiskMedium},
		{"restaurant 200m2 high", Classification{Sector: SectorRestaurant, AreaM2: 200, HasArea: true}, RiskHigh},
		{"workshop no area", Classification{Sector: SectorWorkshop}, RiskMedium},
		{"hotel 250m2 high", Classification{Sector: SectorHotel, AreaM2: 250, HasArea: true}, RiskHigh},
		{"office mid area medium", Classification{Sector: SectorOffice, AreaM2: 120, HasArea: true}, RiskMedium},
		{"shop small area low", Classification{Sector: SectorShop, AreaM2: 80, HasArea: true}, RiskLow},
		{"area only small low", Classification{AreaM2: 50, HasArea: true}, RiskLow},
		{"sector only shop low", Classification{Sector: SectorShop}, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyRisk(tt.c))
		})
	}
}

// rank orders tiers so monotonicity can be asserted numerically
func rank(r RiskLevel) int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 0
}

func TestClassifyRiskMonotonicInArea(t *testing.T) {
	sectors := []Sector{SectorNone, SectorRestaurant, SectorShop, SectorOffice, SectorWorkshop, SectorHotel}

	for _, sector := range sectors {
		prev := 0
		for area := 1; area <= 600; area++ {
			current := rank(ClassifyRisk(Classification{Sector: sector, AreaM2: area, HasArea: true}))
			assert.GreaterOrEqual(t, current, prev,
				"risk dropped at sector=%s area=%d", sector, area)
			prev = current
		}
	}
}
