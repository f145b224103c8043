package normalize

import (
	"context"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Document canonicalizes an identity document. Known types collapse to their token
// ("D.N.I." -> DNI, "c e" -> C.E., "Pasaporte" -> PAS) and numeric-only types lose every non-digit.
// Unknown types keep their cleaned text. The catalog code is only looked up when absent.
func (n *Normalizer) Document(ctx context.Context, in Fields) entity.Document {
	out := entity.Document{
		Code:   in.Code("co_documento"),
		Type:   in.Str("tipo_documento", "tipo"),
		Number: in.Str("numero_documento", "numero"),
	}
	if dt, ok := constants.CanonicalizeDocumentType(out.Type); ok {
		out.Type = string(dt)
		if dt.NumericOnly() {
			out.Number = textutil.OnlyDigits(out.Number)
		}
	}
	if out.Code == nil {
		out.Code = codeOf(n.findByName(ctx, "document_type", n.catalogs.Documents, out.Type))
	}
	return out
}
