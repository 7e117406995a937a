package bot

import (
	"regexp"
	"strconv"
	"strings"
)

// ===========================================================================
// Classifier
// Scans free-text visitor messages for the requested service category,
// the business sector and the declared floor area. Pure functions so the
// whole package can be tested without a database.
// ===========================================================================

// ServiceCategory detected service the visitor is asking about
type ServiceCategory string

const (
	// ServiceNone no category detected
	ServiceNone ServiceCategory = ""

	// ServiceInspection ITSE inspection / operating licence
	ServiceInspection ServiceCategory = "inspection"

	// ServiceGrounding grounding well installation and measurement
	ServiceGrounding ServiceCategory = "grounding"

	// ServiceMaintenance preventive or corrective maintenance plans
	ServiceMaintenance ServiceCategory = "maintenance"

	// ServiceFireSafety fire detection and alarm systems
	ServiceFireSafety ServiceCategory = "fire_safety"
)

// Sector detected business sector
type Sector string

const (
	SectorNone       Sector = ""
	SectorRestaurant Sector = "restaurante"
	SectorShop       Sector = "tienda"
	SectorOffice     Sector = "oficina"
	SectorWorkshop   Sector = "taller"
	SectorHotel      Sector = "hotel"
)

// categoryKeywords keyword sets per service category, checked in order
var categoryKeywords = []struct {
	category ServiceCategory
	keywords []string
}{
	{ServiceInspection, []string{"itse", "licencia", "inspección", "inspeccion"}},
	{ServiceGrounding, []string{"pozo", "tierra", "puesta a tierra"}},
	{ServiceMaintenance, []string{"mantenimiento", "preventivo", "correctivo"}},
	{ServiceFireSafety, []string{"incendio", "incendios", "alarma", "detección", "detector"}},
}

// sectorKeywords known sector tokens
var sectorKeywords = []Sector{
	SectorRestaurant,
	SectorShop,
	SectorOffice,
	SectorWorkshop,
	SectorHotel,
}

// areaPattern digits followed by an area unit token
var areaPattern = regexp.MustCompile(`(\d+)\s*(?:m2|m²|metros cuadrados|metros)`)

// Classification everything the classifier could extract from a message
type Classification struct {
	// Category detected service category, ServiceNone when nothing matched
	Category ServiceCategory

	// Sector detected business sector, SectorNone when nothing matched
	Sector Sector

	// AreaM2 declared floor area in square meters, valid when HasArea
	AreaM2 int

	// HasArea whether an area was found in the text
	HasArea bool
}

// HasSignals reports whether the classifier found anything at all.
func (c Classification) HasSignals() bool {
	return c.Category != ServiceNone || c.Sector != SectorNone || c.HasArea
}

// Classify extracts service category, sector and area from a message.
func Classify(content string) Classification {
	t := strings.ToLower(content)

	var result Classification

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(t, keyword) {
				result.Category = entry.category
				break
			}
		}
		if result.Category != ServiceNone {
			break
		}
	}

	for _, sector := range sectorKeywords {
		if strings.Contains(t, string(sector)) {
			result.Sector = sector
			break
		}
	}

	if match := areaPattern.FindStringSubmatch(t); match != nil {
		if area, err := strconv.Atoi(match[1]); err == nil {
			result.AreaM2 = area
			result.HasArea = true
		}
	}

	return result
}
