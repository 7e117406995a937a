package notify

import (
	"testing"

	"tesla-crm/internal/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestFormatLeadAlert(t *testing.T) {
	lead := &models.Lead{
		FirstName: "María",
		LastName:  "Quispe",
		Email:     strPtr("maria@example.com"),
		Phone:     strPtr("987654321"),
		Source:    models.SourceChat,
		Notes:     strPtr("Necesita ITSE para restaurante"),
	}

	text := formatLeadAlert(lead)

	assert.Contains(t, text, "Nuevo lead:")
	assert.Contains(t, text, "Nombre: María Quispe")
	assert.Contains(t, text, "Email: maria@example.com")
	assert.Contains(t, text, "Tel: 987654321")
	assert.Contains(t, text, "Fuente: chat")
	assert.Contains(t, text, "Mensaje: Necesita ITSE para restaurante")
}

func TestFormatLeadAlertOmitsMissingFields(t *testing.T) {
	lead := &models.Lead{
		FirstName: "Pedro",
		Source:    models.SourceWebsite,
	}

	text := formatLeadAlert(lead)

	assert.NotContains(t, text, "Email:")
	assert.NotContains(t, text, "Tel:")
	assert.NotContains(t, text, "Mensaje:")
	assert.Contains(t, text, "Fuente: website")
}
