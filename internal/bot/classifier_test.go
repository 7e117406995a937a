package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ServiceCategory
	}{
		{"itse keyword", "necesito el certificado ITSE para mi local", ServiceInspection},
		{"licencia keyword", "quiero sacar mi licencia de funcionamiento", ServiceInspection},
		{"inspeccion without accent", "cuanto cuesta una inspeccion", ServiceInspection},
		{"pozo keyword", "necesito un pozo a tierra", ServiceGrounding},
		{"puesta a tierra phrase", "medición de puesta a tierra", ServiceGrounding},
		{"mantenimiento keyword", "busco mantenimiento preventivo", ServiceMaintenance},
		{"incendios keyword", "sistema contra incendios para mi hotel", ServiceFireSafety},
		{"detector keyword", "quiero instalar un detector de humo", ServiceFireSafety},
		{"no category", "hola buenos dias", ServiceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.input)
			assert.Equal(t, tt.expected, result.Category)
		})
	}
}

func TestClassifyCategoryPrecedence(t *testing.T) {
	// inspection keywords win over later categories
	result := Classify("itse y pozo a tierra para mi taller")
	assert.Equal(t, ServiceInspection, result.Category)
}

func TestClassifySectors(t *testing.T) {
	tests := []struct {
		input    string
		expected Sector
	}{
		{"tengo un restaurante en surco", SectorRestaurant},
		{"mi tienda de ropa", SectorShop},
		{"una oficina administrativa", SectorOffice},
		{"taller mecánico", SectorWorkshop},
		{"un hotel de 3 pisos", SectorHotel},
		{"mi casa", SectorNone},
	}

	for _, tt := range tests {
		result := Classify(tt.input)
		assert.Equal(t, tt.expected, result.Sector, tt.input)
	}
}

func TestClassifyArea(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		area    int
		hasArea bool
	}{
		{"m2 unit", "un local de 150 m2", 150, true},
		{"m2 no space", "local de 80m2", 80, true},
		{"squared meter symbol", "son 250 m²", 250, true},
		{"metros cuadrados", "unos 400 metros cuadrados", 400, true},
		{"bare number ignored", "somos 20 personas", 0, false},
		{"no number", "un local grande", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.input)
			assert.Equal(t, tt.hasArea, result.HasArea)
			assert.Equal(t, tt.area, result.AreaM2)
		})
	}
}

func TestClassifyFullScenario(t *testing.T) {
	result := Classify("Necesito ITSE para un restaurante de 150 m2")

	assert.Equal(t, ServiceInspection, result.Category)
	assert.Equal(t, SectorRestaurant, result.Sector)
	assert.True(t, result.HasArea)
	assert.Equal(t, 150, result.AreaM2)
	assert.True(t, result.HasSignals())
}

func TestHasSignals(t *testing.T) {
	assert.False(t, Classify("hola").HasSignals())
	assert.True(t, Classify("itse").HasSignals())
	assert.True(t, Classify("mi hotel").HasSignals())
	assert.True(t, Classify("300 m2").HasSignals())
}
