package pricing

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats an amount the way the clinic's paperwork does:
// "R$ 1.234,56".
func BRL(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}

// Describe renders the breakdown as the multi-line summary shown next
// to a quoted procedure.
func (q Quote) Describe() string {
	var b strings.Builder
	b.WriteString("=== DETALHAMENTO DO CÁLCULO ===\n")
	ptBR.Fprintf(&b, "Materiais: %s\n", BRL(q.Materials))
	ptBR.Fprintf(&b, "Mão de obra: %s\n", BRL(q.Labor))
	if q.Assistant > 0 {
		ptBR.Fprintf(&b, "Assistente: %s\n", BRL(q.Assistant))
	}
	ptBR.Fprintf(&b, "Subtotal: %s\n", BRL(q.Subtotal))
	if q.DiscountRate > 0 {
		ptBR.Fprintf(&b, "Desconto paciente (%.0f%%): -%s\n", q.DiscountRate*100, BRL(q.Discount))
	}
	ptBR.Fprintf(&b, "VALOR FINAL: %s\n", BRL(q.Total))
	b.WriteString("===============================")
	return b.String()
}
