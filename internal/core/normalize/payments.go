package normalize

import (
	"context"
	"math"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Values normalizes the payment group. The result always holds exactly one transfer whose
// amount is the sum of the payment media values, rounded to cents, and whose currency is the
// first medium's. Without media the amount is 0 and the currency is the home currency.
func (n *Normalizer) Values(ctx context.Context, in Fields, service string) entity.Values {
	transfers := in.List("transferencia")
	media := in.List("medioPago", "medio_pago")
	if len(media) == 0 {
		media = migrateTransfers(transfers)
	}

	out := entity.Values{
		Transfers:    make([]entity.Transfer, 0, 1),
		PaymentMedia: make([]entity.PaymentMedium, 0, len(media)),
	}
	total := 0.0
	for _, m := range media {
		pm := n.PaymentMedium(ctx, m)
		total += pm.Value
		out.PaymentMedia = append(out.PaymentMedia, pm)
	}

	base := Fields{}
	if len(transfers) > 0 {
		base = transfers[0]
	}
	eff := make(Fields, len(base)+2)
	for k, v := range base {
		eff[k] = v
	}
	eff["monto"] = Round2(total)
	if len(out.PaymentMedia) > 0 {
		first := out.PaymentMedia[0]
		eff["moneda"] = first.Currency
		delete(eff, "co_moneda")
		if first.CurrencyCode != nil {
			eff["co_moneda"] = *first.CurrencyCode
		}
	}

	t := n.Transfer(ctx, eff, service)
	if t.Currency == "" || (len(out.PaymentMedia) == 0 && t.Currency != string(constants.HomeCurrency)) {
		t.Currency = string(constants.HomeCurrency)
		t.CurrencyCode = n.currencyCode(ctx, t.Currency)
	}
	out.Transfers = append(out.Transfers, t)
	return out
}

// migrateTransfers turns transfers carrying an amount into payment media, guessing the
// medium from the payment form text.
func migrateTransfers(transfers []Fields) []Fields {
	var media []Fields
	for _, t := range transfers {
		if t.Float("monto") <= 0 {
			continue
		}
		media = append(media, Fields{
			"medio_pago":     constants.MediumFromForm(EnumKey(t.Str("forma_pago", "formaPago"))),
			"moneda":         t.Str("moneda"),
			"co_moneda":      t["co_moneda"],
			"valor_bien":     t.Float("monto"),
			"fecha_pago":     t.Str("fecha_pago", "fechaDocumentoPago"),
			"bancos":         t.Str("bancos", "banco"),
			"documento_pago": t.Str("documento_pago", "numeroDocumentoPago"),
		})
	}
	return media
}

// Transfer normalizes one transfer record. A blank template (no currency, code, amount,
// form or timing) keeps its timing empty; otherwise any payment evidence without a
// timing gets the default one.
func (n *Normalizer) Transfer(ctx context.Context, in Fields, service string) entity.Transfer {
	formRaw := in.Str("forma_pago", "formaPago")
	timingRaw := in.Str("oportunidad_pago", "oportunidadPago")
	t := entity.Transfer{
		Currency:      CanonicalCurrency(in.Str("moneda")),
		CurrencyCode:  in.Code("co_moneda"),
		Amount:        in.Float("monto"),
		PaymentForm:   n.PaymentForm(formRaw, service),
		PaymentTiming: n.PaymentTiming(timingRaw),
	}

	blank := t.Currency == "" && t.CurrencyCode == nil && t.Amount == 0 && formRaw == "" && timingRaw == ""
	switch {
	case blank:
		t.PaymentTiming = ""
	case t.PaymentTiming == "" && (t.Currency != "" || t.Amount > 0 || t.PaymentForm != ""):
		t.PaymentTiming = constants.DefaultTiming
	}

	if t.CurrencyCode == nil {
		t.CurrencyCode = n.currencyCode(ctx, t.Currency)
	}
	return t
}

// PaymentMedium normalizes one payment medium record.
func (n *Normalizer) PaymentMedium(ctx context.Context, in Fields) entity.PaymentMedium {
	value := in.Float("valor_bien", "valorBien")
	m := entity.PaymentMedium{
		Medium:          n.Medium(in.Str("medio_pago", "medio"), value),
		Currency:        CanonicalCurrency(in.Str("moneda")),
		CurrencyCode:    in.Code("co_moneda"),
		Value:           value,
		PaymentDate:     in.Str("fecha_pago", "fechaDocumentoPago"),
		Banks:           in.Str("bancos", "banco"),
		PaymentDocument: in.Str("documento_pago", "numeroDocumentoPago"),
	}
	if m.CurrencyCode == nil {
		m.CurrencyCode = n.currencyCode(ctx, m.Currency)
	}
	return m
}

func (n *Normalizer) currencyCode(ctx context.Context, currency string) *int {
	return codeOf(n.findByName(ctx, "currency", n.catalogs.Currencies, currency))
}

// CanonicalCurrency maps literal currency tokens ("US$", "$", "dólares", "S/.") to their label.
// Unknown text comes back upper-cased.
func CanonicalCurrency(raw string) string {
	cur, _ := constants.CanonicalizeCurrency(textutil.Upper(raw))
	return string(cur)
}

// PaymentForm resolves forma_pago. A medium written where the form belongs, or no usable
// form at all, falls back to the service's policy default when there is one.
func (n *Normalizer) PaymentForm(value, service string) string {
	forced := n.policy.DefaultForm(service)
	if forced != "" && BestMatch(n.scorer, value, constants.PaymentMediums, n.match.Medium) != "" {
		return forced
	}
	if m := BestMatch(n.scorer, value, constants.PaymentForms, n.match.Form); m != "" {
		return m
	}
	return forced
}

// PaymentTiming resolves oportunidad_pago, keeping the raw text when nothing matches.
func (n *Normalizer) PaymentTiming(value string) string {
	if value == "" {
		return ""
	}
	if m := BestMatch(n.scorer, value, constants.PaymentTimings, n.match.Timing); m != "" {
		return m
	}
	return value
}

// Medium resolves medio_pago. Only a positive value gets one; unmatched or missing text
// then defaults to an account deposit.
func (n *Normalizer) Medium(raw string, value float64) string {
	if value <= 0 {
		return ""
	}
	if m := BestMatch(n.scorer, raw, constants.PaymentMediums, n.match.Medium); m != "" {
		return m
	}
	return constants.DefaultMedium
}

// Round2 rounds to cents.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
