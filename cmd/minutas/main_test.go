package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

const sampleDeed = "SEÑOR NOTARIO: sírvase extender una escritura de COMPRA VENTA que otorga " +
	"OLIVER THOMAS ALEXANDER STARK PREUSS, identificado con DNI # 10322575, con domicilio en Jr. El Golf 756 , La Molina" +
	"; a favor de MARIA ELENA QUISPE MAMANI, identificada con DNI 45678912, con domicilio en Av. Arequipa 123, Lima."

const sampleReply = "```json\n" + `{
  "acto": "COMPRA VENTA",
  "fecha_minuta": "15/03/2024",
  "generales_ley": {"otorgantes": [], "beneficiarios": []},
  "valores": {"medioPago": [{"medio_pago": "deposito", "moneda": "soles", "valor_bien": 2500}]}
}` + "\n```"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CATALOG_DRIVER", "memory")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "deed.txt", sampleDeed)
	model := writeFile(t, dir, "deed.json", sampleReply)

	out, err := execute(t, "normalize", "--text", text, "--model", model, "--service", "COMPRA VENTA", "--no-geo", "--with-report=false", "--out", "")
	require.NoError(t, err)

	var payload entity.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "COMPRA VENTA", payload.Act.ServiceName)
	assert.Equal(t, "2024-03-15", payload.Act.DeedDate)
	require.Len(t, payload.Participants.Grantors, 1)
	assert.Equal(t, "10322575", payload.Participants.Grantors[0].Document.Number)
	require.NotNil(t, payload.Participants.Grantors[0].Document.Code, "document type resolved through the seeded catalog")
	assert.Equal(t, 1, *payload.Participants.Grantors[0].Document.Code)
	require.Len(t, payload.Values.Transfers, 1)
	assert.Equal(t, 2500.0, payload.Values.Transfers[0].Amount)
	assert.Equal(t, "CONTADO", payload.Values.Transfers[0].PaymentForm)
}

func TestNormalizeCommandReport(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "deed.txt", sampleDeed)
	dest := filepath.Join(dir, "out.json")

	_, err := execute(t, "normalize", "--text", text, "--model", "", "--service", "", "--no-geo", "--with-report", "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.NotEmpty(t, r.TraceID)
	assert.Len(t, r.TextHash, 64)
	assert.Contains(t, r.Issues, "$: not_object")
	assert.Contains(t, r.TimingsMS, "normalize")
}

func TestBatchCommand(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "a.txt", sampleDeed)
	writeFile(t, in, "a.json", sampleReply)
	writeFile(t, in, "b.txt", sampleDeed+" Firmado en Lima.")
	writeFile(t, in, "b.json", "not json at all")
	writeFile(t, in, "c.txt", sampleDeed)
	book := filepath.Join(out, "payloads.xlsx")

	_, err := execute(t, "batch", in, "--out", out, "--xlsx", book, "--workers", "2", "--no-geo", "--service", "COMPRA VENTA")
	require.NoError(t, err)

	for _, name := range []string{"a.payload.json", "b.payload.json", "payloads.xlsx"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "c.payload.json"), "identical text is processed once")
}

func TestCatalogFindCommand(t *testing.T) {
	out, err := execute(t, "catalog", "find", "moneda", "dólares", "--by", "name")
	require.NoError(t, err)
	assert.Contains(t, out, "[2] DOLARES")

	out, err = execute(t, "catalog", "find", "ocupacion", "ingeniero de sistemas", "--by", "description")
	require.NoError(t, err)
	assert.Contains(t, out, "[16]")

	_, err = execute(t, "catalog", "find", "planetas", "marte", "--by", "name")
	assert.Error(t, err)
}

func TestCatalogHealthSQLite(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "catalogs.db"))
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"catalog", "health", "--timeout", "1s"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, buf.String(), "DB health: OK")
	assert.Contains(t, buf.String(), "ciiu")
}
