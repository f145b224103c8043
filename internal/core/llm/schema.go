package llm

// BuildPayloadJSONSchema returns the JSON-Schema (draft 2020-12 subset) of the canonical payload
// as a generic map. It is compiled once by NewSchemaValidator.
func BuildPayloadJSONSchema() map[string]any {
	location := object(map[string]any{
		"departamento": str(),
		"provincia":    str(),
		"distrito":     str(),
	})

	participant := object(map[string]any{
		"tipo_persona":     str(),
		"nombres":          str(),
		"apellido_paterno": str(),
		"apellido_materno": str(),
		"razon_social":     str(),
		"ciiu":             str(),
		"co_ciiu":          code(),
		"pais":             str(),
		"co_pais":          code(),
		"documento": object(map[string]any{
			"co_documento":     code(),
			"tipo_documento":   str(),
			"numero_documento": str(),
		}),
		"ocupacion":         str(),
		"otros_ocupaciones": str(),
		"co_ocupacion":      code(),
		"estado_civil":      str(),
		"co_estado_civil":   code(),
		"domicilio": object(map[string]any{
			"direccion": str(),
			"ubigeo":    location,
			"co_ubigeo": map[string]any{"type": "string", "pattern": `^(\d{6})?$`},
		}),
		"genero":                         str(),
		"rol":                            str(),
		"relacion":                       str(),
		"correo":                         str(),
		"porcentaje_participacion":       map[string]any{"type": "number", "minimum": 0},
		"numeroAcciones_participaciones": map[string]any{"type": "integer", "minimum": 0},
		"acciones_suscritas":             map[string]any{"type": "integer", "minimum": 0},
		"monto_aportado":                 map[string]any{"type": "number"},
	})

	transfer := object(map[string]any{
		"moneda":           str(),
		"co_moneda":        code(),
		"monto":            map[string]any{"type": "number"},
		"forma_pago":       str(),
		"oportunidad_pago": str(),
	})

	medium := object(map[string]any{
		"medio_pago":     str(),
		"moneda":         str(),
		"co_moneda":      code(),
		"valor_bien":     map[string]any{"type": "number"},
		"fecha_pago":     str(),
		"bancos":         str(),
		"documento_pago": str(),
	})

	asset := object(map[string]any{
		"tipo_bien":          str(),
		"clase_bien":         str(),
		"ubigeo":             location,
		"partida_registral":  str(),
		"zona_registral":     str(),
		"co_zona_registral":  code(),
		"fecha_adquisicion":  str(),
		"fecha_minuta":       str(),
		"opcion_bien_mueble": str(),
		"numero_psm":         str(),
		"otros_bienes":       str(),
	})

	return object(map[string]any{
		"acto": object(map[string]any{
			"nombre_servicio": str(),
			"fecha_minuta":    map[string]any{"type": "string", "pattern": `^(\d{4}-\d{2}-\d{2})?$`},
		}),
		"participantes": object(map[string]any{
			"otorgantes":    list(participant),
			"beneficiarios": list(participant),
		}),
		"valores": object(map[string]any{
			"transferencia": map[string]any{"type": "array", "items": transfer, "maxItems": 1},
			"medioPago":     list(medium),
		}),
		"bienes": list(asset),
	})
}

// object requires every listed property and rejects unknown ones.
func object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func list(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func str() map[string]any {
	return map[string]any{"type": "string"}
}

// code is a nullable catalog code.
func code() map[string]any {
	return map[string]any{"type": []any{"integer", "null"}}
}
