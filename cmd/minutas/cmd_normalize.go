package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/minutas/internal/core/llm"
	"github.com/joseph-ayodele/minutas/internal/core/pipeline"
)

var (
	textFile   string
	modelFile  string
	service    string
	outFile    string
	noGeo      bool
	withReport bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Run one deed through the pipeline and print the canonical payload",
	Long: `Reads the deed text and, optionally, the language model's JSON reply (markdown
fences are tolerated) and prints the canonical payload as JSON.

Example:
  minutas normalize --text minuta.txt --model reply.json --service "COMPRA VENTA"`,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&textFile, "text", "", "deed text file (- for stdin)")
	normalizeCmd.Flags().StringVar(&modelFile, "model", "", "model output JSON file")
	normalizeCmd.Flags().StringVar(&service, "service", "", "document/service type label, e.g. \"COMPRA VENTA\"")
	normalizeCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the payload here instead of stdout")
	normalizeCmd.Flags().BoolVar(&noGeo, "no-geo", false, "skip location code enrichment")
	normalizeCmd.Flags().BoolVar(&withReport, "with-report", false, "wrap the payload with trace id, issues and timings")
	_ = normalizeCmd.MarkFlagRequired("text")
}

// report is the --with-report envelope.
type report struct {
	TraceID       string           `json:"trace_id"`
	TextHash      string           `json:"raw_text_hash"`
	Issues        []string         `json:"issues"`
	FallbackFills int              `json:"fallback_fills"`
	GeoFills      int              `json:"geo_fills"`
	SchemaError   string           `json:"schema_error,omitempty"`
	TimingsMS     map[string]int64 `json:"timings_ms"`
	Payload       any              `json:"payload"`
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in, err := readInput(cmd.InOrStdin(), textFile, modelFile)
	if err != nil {
		return err
	}
	in.Service = service

	p, err := a.pipeline(ctx, !noGeo)
	if err != nil {
		return err
	}
	res, err := p.Run(ctx, in)
	if err != nil {
		return err
	}

	var out any = res.Payload
	if withReport {
		out = newReport(res)
	}
	w := cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", outFile, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// readInput loads the deed text and the decoded model reply. A model file that is not JSON
// still runs: the pipeline falls back to the preparsed candidates.
func readInput(stdin io.Reader, textPath, modelPath string) (pipeline.Input, error) {
	var in pipeline.Input
	var (
		text []byte
		err  error
	)
	if textPath == "-" {
		text, err = io.ReadAll(stdin)
	} else {
		text, err = os.ReadFile(textPath)
	}
	if err != nil {
		return in, fmt.Errorf("read text: %w", err)
	}
	in.Text = string(text)

	if modelPath == "" {
		return in, nil
	}
	raw, err := os.ReadFile(modelPath)
	if err != nil {
		return in, fmt.Errorf("read model output: %w", err)
	}
	doc, err := llm.DecodeModelOutput(raw)
	if err != nil {
		logger.Warn("model output not decodable, using text only", "file", modelPath, "error", err)
		return in, nil
	}
	in.ModelOutput = doc
	return in, nil
}

func newReport(res *pipeline.Result) report {
	r := report{
		TraceID:       res.TraceID,
		TextHash:      res.TextHash,
		Issues:        make([]string, 0, len(res.Issues)),
		FallbackFills: res.FallbackFills,
		GeoFills:      res.GeoFills,
		TimingsMS:     make(map[string]int64, len(res.Timings)),
		Payload:       res.Payload,
	}
	for _, issue := range res.Issues {
		r.Issues = append(r.Issues, issue.String())
	}
	if res.SchemaErr != nil {
		r.SchemaError = res.SchemaErr.Error()
	}
	for stage, d := range res.Timings {
		r.TimingsMS[stage] = d.Milliseconds()
	}
	return r
}
