package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeCurrencyDollarAliases(t *testing.T) {
	for _, in := range []string{"USD", "US$", "$", "DÓLARES", "DOLARES AMERICANOS"} {
		cur, ok := CanonicalizeCurrency(in)
		assert.True(t, ok, in)
		assert.Equal(t, CurrencyDollars, cur, in)
	}
	cur, ok := CanonicalizeCurrency("S/.")
	assert.True(t, ok)
	assert.Equal(t, CurrencySoles, cur)

	cur, ok = CanonicalizeCurrency("YENES")
	assert.False(t, ok)
	assert.Equal(t, Currency("YENES"), cur)
}

func TestCanonicalizeDocumentType(t *testing.T) {
	tests := []struct {
		in   string
		want DocumentType
		ok   bool
	}{
		{"D.N.I.", DocNationalID, true},
		{"dni", DocNationalID, true},
		{"R.U.C.", DocTaxID, true},
		{"c.e.", DocForeignID, true},
		{"Carné de Extranjería", DocForeignID, true},
		{"Pasaporte", DocPassport, true},
		{"PAS", DocPassport, true},
		{"Partida", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalizeDocumentType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
	assert.True(t, IsPassportType("pasaporte alemán"))
	assert.True(t, IsNationalIDType("DNI N°"))
	assert.False(t, IsTaxIDType("DNI"))
	assert.True(t, DocForeignID.NumericOnly())
	assert.False(t, DocPassport.NumericOnly())
}

func TestCanonicalizeAssetType(t *testing.T) {
	tests := map[string]AssetType{
		"INMUEBLE UBICADO EN": AssetRealEstate,
		"LOTE 5 MZ B":         AssetRealEstate,
		"VEHICULO DE PLACA":   AssetMovable,
		"DINERO":              AssetCash,
		"ACCIONES":            AssetSecurities,
		"JOYAS":               AssetOther,
	}
	for in, want := range tests {
		got, _ := CanonicalizeAssetType(in)
		assert.Equal(t, want, got, in)
	}
	got, ok := CanonicalizeAssetType("  ")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCanonicalizeAssetClass(t *testing.T) {
	assert.Equal(t, ClassLand, CanonicalizeAssetClass("INMUEBLE", ""))
	assert.Equal(t, ClassLand, CanonicalizeAssetClass("OTROS", "INSCRITO EN LA PARTIDA 1234"))
	assert.Equal(t, ClassVehicles, CanonicalizeAssetClass("VEHICULO", "CAMIONETA DE PLACA ABC-123"))
	assert.Equal(t, ClassAircraft, CanonicalizeAssetClass("", "UNA AERONAVE"))
	assert.Equal(t, ClassOtherUnspecified, CanonicalizeAssetClass("JOYAS", "COLLAR DE ORO"))
}

func TestFoldCivilStatusAndPersonType(t *testing.T) {
	assert.Equal(t, "SOLTERO", FoldCivilStatus("SOLTERA"))
	assert.Equal(t, "CASADO", FoldCivilStatus("CASADO"))
	assert.Equal(t, PersonJuridical, CanonicalizePersonType("PERSONA JURIDICA"))
	assert.Equal(t, PersonNatural, CanonicalizePersonType(""))
}

func TestMediumFromForm(t *testing.T) {
	assert.Equal(t, MediumCash, MediumFromForm("EN EFECTIVO"))
	assert.Equal(t, MediumAccountDeposit, MediumFromForm("DEPOSITO"))
	assert.Equal(t, MediumWireTransfer, MediumFromForm("TRANSFERENCIA BANCARIA"))
	assert.Equal(t, MediumCheck, MediumFromForm("CHEQUE"))
	assert.Equal(t, "", MediumFromForm("CONTADO"))
}
