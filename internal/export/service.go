package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

// Sheet names of the exported workbook.
const (
	SheetParticipants = "Participantes"
	SheetPayments     = "Pagos"
	SheetAssets       = "Bienes"
)

// Document is one processed deed to export.
type Document struct {
	ID      string
	Payload entity.Payload
}

// Service turns canonical payloads into XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

type sheetSpec struct {
	name    string
	headers []string
	widths  map[string]float64
	rows    func(doc Document) [][]any
}

var sheets = []sheetSpec{
	{
		name: SheetParticipants,
		headers: []string{
			"Documento", "Servicio", "Fecha Minuta", "Rol", "Tipo Persona", "Nombres", "Apellido Paterno",
			"Apellido Materno", "Razón Social", "Tipo Documento", "Número Documento", "País", "Estado Civil",
			"Ocupación", "Dirección", "Departamento", "Provincia", "Distrito", "Ubigeo", "Correo", "% Participación",
		},
		widths: map[string]float64{"A": 38, "B": 22, "F": 28, "O": 48},
		rows:   participantRows,
	},
	{
		name: SheetPayments,
		headers: []string{
			"Documento", "Registro", "Moneda", "Código Moneda", "Monto", "Forma Pago", "Oportunidad Pago",
			"Medio Pago", "Fecha Pago", "Bancos", "Documento Pago",
		},
		widths: map[string]float64{"A": 38, "F": 20, "G": 48, "H": 32},
		rows:   paymentRows,
	},
	{
		name: SheetAssets,
		headers: []string{
			"Documento", "Tipo Bien", "Clase Bien", "Departamento", "Provincia", "Distrito", "Partida Registral",
			"Zona Registral", "Fecha Adquisición", "Opción Bien Mueble", "Placa/Serie/Motor", "Otros Bienes",
		},
		widths: map[string]float64{"A": 38, "C": 28, "L": 48},
		rows:   assetRows,
	},
}

// ExportPayloadsXLSX writes one workbook with a sheet per record kind; every row starts
// with the document id so rows can be joined back.
func (s *Service) ExportPayloadsXLSX(ctx context.Context, docs []Document) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	total := 0
	for i, spec := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), spec.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(spec.name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", spec.name, err)
		}
		n, err := writeSheet(f, spec, docs)
		if err != nil {
			return nil, err
		}
		total += n
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", len(docs),
		"rows", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, spec sheetSpec, docs []Document) (int, error) {
	header := make([]any, len(spec.headers))
	for i, h := range spec.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(spec.name, "A1", &header); err != nil {
		return 0, fmt.Errorf("%s header: %w", spec.name, err)
	}

	row := 2
	for _, doc := range docs {
		for _, values := range spec.rows(doc) {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(spec.name, cell, &values); err != nil {
				return 0, fmt.Errorf("%s row %d: %w", spec.name, row, err)
			}
			row++
		}
	}

	for col, w := range spec.widths {
		_ = f.SetColWidth(spec.name, col, col, w)
	}
	return row - 2, nil
}

func participantRows(doc Document) [][]any {
	var out [][]any
	for _, group := range [][]entity.Participant{doc.Payload.Participants.Grantors, doc.Payload.Participants.Beneficiaries} {
		for _, p := range group {
			out = append(out, []any{
				doc.ID,
				doc.Payload.Act.ServiceName,
				doc.Payload.Act.DeedDate,
				p.Role,
				p.PersonType,
				p.GivenNames,
				p.PaternalSurname,
				p.MaternalSurname,
				p.CorporateName,
				p.Document.Type,
				p.Document.Number,
				p.Country,
				p.CivilStatus,
				p.Occupation,
				truncate(p.Domicile.Address, 140),
				p.Domicile.Location.Department,
				p.Domicile.Location.Province,
				p.Domicile.Location.District,
				p.Domicile.LocationCode,
				p.Email,
				p.ParticipationPct,
			})
		}
	}
	return out
}

func paymentRows(doc Document) [][]any {
	var out [][]any
	for _, t := range doc.Payload.Values.Transfers {
		out = append(out, []any{doc.ID, "TRANSFERENCIA", t.Currency, code(t.CurrencyCode), t.Amount, t.PaymentForm, t.PaymentTiming, "", "", "", ""})
	}
	for _, m := range doc.Payload.Values.PaymentMedia {
		out = append(out, []any{doc.ID, "MEDIO DE PAGO", m.Currency, code(m.CurrencyCode), m.Value, "", "", m.Medium, m.PaymentDate, m.Banks, m.PaymentDocument})
	}
	return out
}

func assetRows(doc Document) [][]any {
	var out [][]any
	for _, a := range doc.Payload.Assets {
		out = append(out, []any{
			doc.ID,
			a.Type,
			a.Class,
			a.Location.Department,
			a.Location.Province,
			a.Location.District,
			a.RegistryEntry,
			a.RegistryZone,
			a.AcquisitionDate,
			a.MovableOption,
			a.PlateSerialEngine,
			truncate(a.OtherAssets, 140),
		})
	}
	return out
}

func code(c *int) string {
	if c == nil {
		return ""
	}
	return strconv.Itoa(*c)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
