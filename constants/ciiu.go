package constants

// IndustrySection is one CIIU section: numeric id, letter code and activity.
type IndustrySection struct {
	ID       int
	Code     string
	Activity string
}

// DefaultIndustryActivity is used for incorporated companies whose activity was not stated.
const DefaultIndustryActivity = "ACTIVIDADES INMOBILIARIAS, EMPRESARIALES Y DE ALQUILER"

// IndustrySections is the fixed CIIU section catalog.
var IndustrySections = []IndustrySection{
	{1, "A", "AGRICULTURA GANADERIA CAZA Y SILVICULTURA"},
	{2, "B", "PESCA"},
	{3, "C", "EXPLOTACION DE MINAS Y CANTERAS"},
	{4, "D", "INDUSTRIAS MANUFACTURERAS"},
	{5, "E", "SUMINISTRO DE ELECTRICIDAD, GAS Y AGUA"},
	{6, "F", "CONSTRUCCION"},
	{7, "G", "COMERCIO AL POR MAYOR Y MENOR, REPARACION DE VEHICULOS AUTOMOTORES, ART. DOMESTICOS"},
	{8, "H", "HOTELES Y RESTAURANTES"},
	{9, "I", "TRANSPORTE,ALMACENAMIENTO Y COMUNICACIONES"},
	{10, "J", "INTERMEDIACION FINANCIERA"},
	{11, "K", DefaultIndustryActivity},
	{12, "L", "ADMINISTRACION PUBLICA Y DEFENSA, PLANES DE SEGURIDAD SOCIAL DE AFILIACION OBLIGATORIA"},
	{13, "M", "ENSEÑANZA(PRIVADA)"},
	{14, "N", "ACTIVIDADES DE SERVICIOS SOCIALES Y DE SALUD (PRIVADA)"},
	{15, "O", "OTRAS ACTIV. DE SERVICIOS COMUNITARIAS, SOCIALES Y PERSONALES"},
	{16, "P", "HOGARES PRIVADOS CON SERVICIO DOMESTICO"},
	{17, "Q", "ORGANIZACIONES Y ORGANOS EXTRATERRITORIALES"},
}
