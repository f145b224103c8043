package constants

import "strings"

// Currency is the canonical currency label.
type Currency string

const (
	CurrencySoles   Currency = "SOLES"
	CurrencyDollars Currency = "DOLARES"
	CurrencyEuros   Currency = "EUROS"

	// HomeCurrency is used when nothing else says which currency applies.
	HomeCurrency = CurrencySoles
)

var currencyTokens = map[Currency][]string{
	CurrencySoles:   {"PEN", "S/.", "S/", "SOLES", "SOL", "NUEVOS SOLES", "NUEVO SOL"},
	CurrencyDollars: {"USD", "US$", "US$.", "$", "DOLARES", "DÓLARES", "DOLAR", "DÓLAR", "DOLARES AMERICANOS", "DOLAR AMERICANO"},
	CurrencyEuros:   {"EUR", "€", "EUROS", "EURO"},
}

var currencyLookup = func() map[string]Currency {
	m := make(map[string]Currency)
	for cur, toks := range currencyTokens {
		for _, t := range toks {
			m[t] = cur
		}
	}
	return m
}()

// CanonicalizeCurrency maps a literal currency token to its label.
// Input is expected upper-cased with single spaces. Unknown tokens are returned unchanged.
func CanonicalizeCurrency(input string) (Currency, bool) {
	if cur, ok := currencyLookup[input]; ok {
		return cur, true
	}
	return Currency(input), false
}

// Payment medium options (medio_pago).
const (
	MediumAccountDeposit = "DEPOSITO EN CUENTA"
	MediumWireTransfer   = "TRANSFERENCIA DE FONDOS"
	MediumCashierCheck   = "CHEQUE DE GERENCIA"
	MediumCheck          = "CHEQUE"
	MediumCash           = "EFECTIVO"
	MediumPaymentOrder   = "ORDEN DE PAGO"
	MediumCreditCard     = "TARJETA DE CREDITO"
	MediumDebitCard      = "TARJETA DE DEBITO"
	MediumOther          = "OTROS"

	// DefaultMedium applies when a positive value has no usable medium text.
	DefaultMedium = MediumAccountDeposit
)

// PaymentMediums lists the medio_pago options in match order.
var PaymentMediums = []string{
	MediumAccountDeposit, MediumWireTransfer, MediumCashierCheck, MediumCheck, MediumCash,
	MediumPaymentOrder, MediumCreditCard, MediumDebitCard, MediumOther,
}

// Payment form options (forma_pago).
const (
	FormCash   = "CONTADO"
	FormCredit = "CREDITO"
	FormOther  = "OTRO"
)

// PaymentForms lists the forma_pago options.
var PaymentForms = []string{FormCash, FormCredit, FormOther}

// DefaultTiming is used when a payment is evidenced but no timing was given.
const DefaultTiming = "A LA FIRMA DEL INSTRUMENTO PÚBLICO NOTARIAL PROTOCOLAR"

// PaymentTimings lists the oportunidad_pago options.
var PaymentTimings = []string{
	DefaultTiming,
	"ANTES DE LA FIRMA DEL INSTRUMENTO PÚBLICO NOTARIAL PROTOCOLAR",
	"DESPUÉS DE LA FIRMA DEL INSTRUMENTO PÚBLICO NOTARIAL PROTOCOLAR",
	"A LA FIRMA DE LA MINUTA",
	"CON ANTERIORIDAD A LA FIRMA DE LA MINUTA",
}

// MediumFromForm guesses a medium from payment-form text, for transfers that
// arrive without payment media. Input is expected upper-cased without diacritics.
func MediumFromForm(form string) string {
	switch {
	case strings.Contains(form, "EFECTIVO"):
		return MediumCash
	case strings.Contains(form, "DEPOSIT"):
		return MediumAccountDeposit
	case strings.Contains(form, "TRANSF"):
		return MediumWireTransfer
	case strings.Contains(form, "CHEQ"):
		return MediumCheck
	}
	return ""
}
