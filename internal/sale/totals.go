package sale

// Tax and service charge rates applied at the lounge. Amounts are kept in the
// smallest currency unit (kyats), so percentages are computed with integer
// arithmetic and rounded half-up. Display totals and the billing recompute
// must agree, which is why both go through this function.
const (
	taxRatePercent     = 5
	serviceRatePercent = 10
)

// Totals is the derived money view of a session.
type Totals struct {
	Subtotal      int64 `json:"subtotal"`
	Tax           int64 `json:"tax"`
	ServiceCharge int64 `json:"service_charge"`
	Total         int64 `json:"total"`
}

// ComputeTotals derives totals from line subtotals under the given flags.
func ComputeTotals(lines []*Line, applyTax, applyService bool) Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.LineTotal
	}

	t := Totals{Subtotal: subtotal}
	if applyTax {
		t.Tax = roundPercent(subtotal, taxRatePercent)
	}
	if applyService {
		t.ServiceCharge = roundPercent(subtotal, serviceRatePercent)
	}
	t.Total = t.Subtotal + t.Tax + t.ServiceCharge
	return t
}

// roundPercent computes amount*rate% rounded half-up. Amounts are never
// negative, so the plain +50 bias is enough.
func roundPercent(amount int64, rate int64) int64 {
	return (amount*rate + 50) / 100
}
