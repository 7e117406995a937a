package bot

// ===========================================================================
// Price Estimator
// Canned Spanish price lines per service category. Referential pricing
// only; exact quotes always go through a technical visit.
// ===========================================================================

// categoryReplies base reply per detected service category
var categoryReplies = map[ServiceCategory]string{
	ServiceInspection: "ITSE: pago municipal aprox. S/ 218 y gestión desde S/ 300 (referencial). " +
		"Para precisión: rubro y área en m². ¿Agendamos visita técnica sin costo?",
	ServiceGrounding: "Pozo de tierra: S/ 1,500 – 2,500 (referencial, depende del terreno). " +
		"Podemos medir resistencia y proponer solución. ¿Dirección para visita?",
	ServiceMaintenance: "Mantenimiento: plan a medida (preventivo/correctivo). " +
		"Cuéntame tamaño del local y equipos críticos para estimar.",
	ServiceFireSafety: "Contra incendios: diseño, detección y alarma según normativa. " +
		"Costo depende del área y riesgo. ¿Qué tipo de propiedad es?",
}

// fallbackReply used when no category keyword matched
const fallbackReply = "Gracias. Déjanos nombre y número para coordinar una visita técnica."

// riskLines extra context appended once the risk tier is known
var riskLines = map[RiskLevel]string{
	RiskLow:    "Por los datos indicados, el local califica como riesgo bajo.",
	RiskMedium: "Por el área y rubro indicados, el local califica como riesgo medio.",
	RiskHigh:   "Por el área y rubro indicados, el local califica como riesgo alto y requiere inspección previa.",
}

// PriceLine returns the canned reply for a category, or the fallback.
func PriceLine(category ServiceCategory) string {
	if reply, ok := categoryReplies[category]; ok {
		return reply
	}
	return fallbackReply
}

// RiskLine returns the context line for a risk tier, empty when the
// tier is indeterminate.
func RiskLine(risk RiskLevel) string {
	return riskLines[risk]
}
