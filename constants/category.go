package constants

import (
	"strings"
)

// AssetType is the canonical tipo_bien taxonomy.
type AssetType string

const (
	AssetRealEstate AssetType = "INMUEBLES"
	AssetMovable    AssetType = "MUEBLES"
	AssetCash       AssetType = "DINERO EFECTIVO"
	AssetSecurities AssetType = "VALORES"
	AssetOther      AssetType = "OTROS"
)

// AssetClass is the canonical clase_bien taxonomy.
type AssetClass string

const (
	ClassLand             AssetClass = "PREDIOS"
	ClassVehicles         AssetClass = "VEHICULOS TERRESTRES"
	ClassShips            AssetClass = "NAVES"
	ClassAircraft         AssetClass = "AERONAVES"
	ClassMines            AssetClass = "MINAS CANTERAS Y DEPOSITOS DE HIDROCARBUROS"
	ClassConcessions      AssetClass = "CONCESIONES"
	ClassIntellectual     AssetClass = "DERECHOS DE PROPIEDAD INTELECTUAL"
	ClassMachinery        AssetClass = "MAQUINARIA Y EQUIPOS"
	ClassCredits          AssetClass = "CREDITOS"
	ClassOtherUnspecified AssetClass = "OTROS NO ESPECIFICADOS"
)

type keywordRule[T any] struct {
	value    T
	keywords []string
}

// ordered: first rule with a keyword hit wins
var assetTypeRules = []keywordRule[AssetType]{
	{AssetRealEstate, []string{"INMUEBLE", "PREDIO", "LOTE", "URBANIZ", "PARTIDA REGISTRAL", "REGISTRO DE PROPIEDAD INMUEBLE", "DEPARTAMENTO N", "TERRENO"}},
	{AssetMovable, []string{"VEHIC", "PLAC", "MOTOR", "SERIE", "AUTOMOV", "CAMION", "MOTO"}},
	{AssetCash, []string{"DINERO", "EFECTIVO", "SOLES", "DOLARES", "EUROS"}},
	{AssetSecurities, []string{"ACCION", "BONO", "VALOR", "TITULO VALOR", "PARTICIPACION", "CERTIFICADO"}},
}

var assetClassRules = []keywordRule[AssetClass]{
	{ClassVehicles, []string{"VEHIC", "PLAC", "MOTOR", "SERIE", "AUTOMOV", "CAMION", "MOTO"}},
	{ClassAircraft, []string{"AERONAVE", "AVION", "HELICOPTERO"}},
	{ClassShips, []string{"NAVE", "EMBARC", "BUQUE"}},
	{ClassMines, []string{"MINA", "CANTERA", "YACIMIENTO"}},
	{ClassConcessions, []string{"CONCESION"}},
	{ClassIntellectual, []string{"PROPIEDAD INTELECTUAL", "MARCA", "PATENTE", "DERECHOS DE AUTOR"}},
	{ClassMachinery, []string{"MAQUINARIA", "EQUIPO", "MAQUINAS"}},
	{ClassCredits, []string{"CREDITO", "DEUDA", "PAGARE"}},
}

var landContext = []string{"REGISTRO DE PROPIEDAD INMUEBLE", "PARTIDA", "URBANIZ", "LOTE"}

var allAssetClasses = []AssetClass{
	ClassLand, ClassVehicles, ClassShips, ClassAircraft, ClassMines, ClassConcessions,
	ClassIntellectual, ClassMachinery, ClassCredits, ClassOtherUnspecified,
}

// CanonicalizeAssetType maps free text to the tipo_bien taxonomy.
// The input is expected upper-cased without diacritics.
// Blank input stays blank; anything unrecognised is AssetOther.
func CanonicalizeAssetType(input string) (AssetType, bool) {
	normalized := strings.TrimSpace(input)
	if normalized == "" {
		return "", false
	}
	for _, rule := range assetTypeRules {
		if containsAny(normalized, rule.keywords) {
			return rule.value, true
		}
	}
	return AssetOther, false
}

// CanonicalizeAssetClass maps free text to the clase_bien taxonomy using the asset type
// and its surrounding text. Both inputs are expected upper-cased without diacritics.
func CanonicalizeAssetClass(assetType, context string) AssetClass {
	if strings.Contains(assetType, "INMUEBLE") || containsAny(context, landContext) {
		return ClassLand
	}
	for _, cls := range allAssetClasses {
		if context == string(cls) {
			return cls
		}
	}
	for _, rule := range assetClassRules {
		if containsAny(context, rule.keywords) {
			return rule.value
		}
	}
	return ClassOtherUnspecified
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
