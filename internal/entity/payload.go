package entity

// Location is a department/province/district triple.
type Location struct {
	Department string `json:"departamento"`
	Province   string `json:"provincia"`
	District   string `json:"distrito"`
}

// Complete reports whether all three levels are set.
func (l Location) Complete() bool {
	return l.Department != "" && l.Province != "" && l.District != ""
}

// Any reports whether at least one level is set.
func (l Location) Any() bool {
	return l.Department != "" || l.Province != "" || l.District != ""
}

// CanonicalDomicile is the participant address in the output payload.
type CanonicalDomicile struct {
	Address      string   `json:"direccion"`
	Location     Location `json:"ubigeo"`
	LocationCode string   `json:"co_ubigeo"`
}

// Document is the canonical identity document.
type Document struct {
	Code   *int   `json:"co_documento"`
	Type   string `json:"tipo_documento"`
	Number string `json:"numero_documento"`
}

// Participant is a canonical party record.
type Participant struct {
	PersonType           string            `json:"tipo_persona"`
	GivenNames           string            `json:"nombres"`
	PaternalSurname      string            `json:"apellido_paterno"`
	MaternalSurname      string            `json:"apellido_materno"`
	CorporateName        string            `json:"razon_social"`
	Industry             string            `json:"ciiu"`
	IndustryCode         *int              `json:"co_ciiu"`
	Country              string            `json:"pais"`
	CountryCode          *int              `json:"co_pais"`
	Document             Document          `json:"documento"`
	Occupation           string            `json:"ocupacion"`
	OccupationOther      string            `json:"otros_ocupaciones"`
	OccupationCode       *int              `json:"co_ocupacion"`
	CivilStatus          string            `json:"estado_civil"`
	CivilStatusCode      *int              `json:"co_estado_civil"`
	Domicile             CanonicalDomicile `json:"domicilio"`
	Gender               string            `json:"genero"`
	Role                 string            `json:"rol"`
	Relationship         string            `json:"relacion"`
	Email                string            `json:"correo"`
	ParticipationPct     float64           `json:"porcentaje_participacion"`
	SharesParticipations int               `json:"numeroAcciones_participaciones"`
	SharesSubscribed     int               `json:"acciones_suscritas"`
	ContributedAmount    float64           `json:"monto_aportado"`
}

// Participants groups canonical parties by side.
type Participants struct {
	Grantors      []Participant `json:"otorgantes"`
	Beneficiaries []Participant `json:"beneficiarios"`
}

// Transfer is the single consideration record of a deed.
type Transfer struct {
	Currency      string  `json:"moneda"`
	CurrencyCode  *int    `json:"co_moneda"`
	Amount        float64 `json:"monto"`
	PaymentForm   string  `json:"forma_pago"`
	PaymentTiming string  `json:"oportunidad_pago"`
}

// PaymentMedium is one means by which the consideration was paid.
type PaymentMedium struct {
	Medium          string  `json:"medio_pago"`
	Currency        string  `json:"moneda"`
	CurrencyCode    *int    `json:"co_moneda"`
	Value           float64 `json:"valor_bien"`
	PaymentDate     string  `json:"fecha_pago"`
	Banks           string  `json:"bancos"`
	PaymentDocument string  `json:"documento_pago"`
}

// Values groups the payment records.
type Values struct {
	Transfers    []Transfer      `json:"transferencia"`
	PaymentMedia []PaymentMedium `json:"medioPago"`
}

// Asset is a canonical asset (bien) record.
type Asset struct {
	Type              string   `json:"tipo_bien"`
	Class             string   `json:"clase_bien"`
	Location          Location `json:"ubigeo"`
	RegistryEntry     string   `json:"partida_registral"`
	RegistryZone      string   `json:"zona_registral"`
	RegistryZoneCode  *int     `json:"co_zona_registral"`
	AcquisitionDate   string   `json:"fecha_adquisicion"`
	DeedDate          string   `json:"fecha_minuta"`
	MovableOption     string   `json:"opcion_bien_mueble"`
	PlateSerialEngine string   `json:"numero_psm"`
	OtherAssets       string   `json:"otros_bienes"`
}

// Act describes the deed itself.
type Act struct {
	ServiceName string `json:"nombre_servicio"`
	DeedDate    string `json:"fecha_minuta"`
}

// Payload is the canonical output of one pipeline run.
type Payload struct {
	Act          Act          `json:"acto"`
	Participants Participants `json:"participantes"`
	Values       Values       `json:"valores"`
	Assets       []Asset      `json:"bienes"`
}

// EmptyPayload is the fully empty canonical object; lists encode as [] rather than null.
func EmptyPayload() Payload {
	return Payload{
		Participants: Participants{Grantors: []Participant{}, Beneficiaries: []Participant{}},
		Values:       Values{Transfers: []Transfer{}, PaymentMedia: []PaymentMedium{}},
		Assets:       []Asset{},
	}
}
