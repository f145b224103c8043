package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

func samplePayload() entity.Payload {
	usd := 2
	p := entity.EmptyPayload()
	p.Act = entity.Act{ServiceName: "COMPRA VENTA", DeedDate: "2024-03-15"}
	p.Participants.Grantors = append(p.Participants.Grantors, entity.Participant{
		Role:       "OTORGANTE",
		GivenNames: "OLIVER THOMAS ALEXANDER",
		Document:   entity.Document{Type: "DNI", Number: "10322575"},
		Domicile: entity.CanonicalDomicile{
			Address:      "JR. EL GOLF 756",
			Location:     entity.Location{Department: "LIMA", Province: "LIMA", District: "LA MOLINA"},
			LocationCode: "150114",
		},
		Email: "oliver@example.com",
	})
	p.Participants.Beneficiaries = append(p.Participants.Beneficiaries, entity.Participant{Role: "BENEFICIARIO", GivenNames: "MARIA ELENA"})
	p.Values.Transfers = append(p.Values.Transfers, entity.Transfer{Currency: "DOLARES", CurrencyCode: &usd, Amount: 1500, PaymentForm: "CONTADO"})
	p.Values.PaymentMedia = append(p.Values.PaymentMedia,
		entity.PaymentMedium{Medium: "DEPOSITO EN CUENTA", Currency: "DOLARES", Value: 1000.5},
		entity.PaymentMedium{Medium: "TRANSFERENCIA DE FONDOS", Currency: "DOLARES", Value: 499.5},
	)
	p.Assets = append(p.Assets, entity.Asset{Type: "INMUEBLE", Class: "DEPARTAMENTO", Location: entity.Location{District: "MIRAFLORES"}})
	return p
}

func TestExportPayloadsXLSX(t *testing.T) {
	data, err := NewService(nil).ExportPayloadsXLSX(context.Background(), []Document{
		{ID: "doc-1", Payload: samplePayload()},
		{ID: "doc-2", Payload: entity.EmptyPayload()},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetParticipants, SheetPayments, SheetAssets}, f.GetSheetList())

	people, err := f.GetRows(SheetParticipants)
	require.NoError(t, err)
	require.Len(t, people, 3)
	assert.Equal(t, "Documento", people[0][0])
	assert.Equal(t, "doc-1", people[1][0])
	assert.Equal(t, "OTORGANTE", people[1][3])
	assert.Equal(t, "10322575", people[1][10])
	assert.Equal(t, "150114", people[1][18])
	assert.Equal(t, "oliver@example.com", people[1][19])
	assert.Equal(t, "BENEFICIARIO", people[2][3])

	payments, err := f.GetRows(SheetPayments)
	require.NoError(t, err)
	require.Len(t, payments, 4)
	assert.Equal(t, "TRANSFERENCIA", payments[1][1])
	assert.Equal(t, "2", payments[1][3])
	assert.Equal(t, "1500", payments[1][4])
	assert.Equal(t, "MEDIO DE PAGO", payments[2][1])

	assets, err := f.GetRows(SheetAssets)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "MIRAFLORES", assets[1][5])
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewService(nil).ExportPayloadsXLSX(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate(" abc ", 10))
	assert.Equal(t, "ñañ…", truncate("ñañañaña", 4))
}
