// Package preparse derives candidate persons from deed text with deterministic rules,
// independently of the language model.
package preparse

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

// EvidenceKey is the evidence entry under which a candidate keeps its source chunk.
const EvidenceKey = "preparse.chunk"

// Preparser extracts grantor and beneficiary candidates from conditioned text.
type Preparser struct {
	rules  Rules
	logger *slog.Logger
}

// New builds a preparser with the default rule table.
func New(logger *slog.Logger) *Preparser {
	return NewWithRules(DefaultRules(), logger)
}

// NewWithRules builds a preparser over a custom rule table.
func NewWithRules(rules Rules, logger *slog.Logger) *Preparser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preparser{rules: rules.Sorted(), logger: logger}
}

// Parse returns per-role candidates. Only chunks with a national-ID match become candidates.
// Beneficiary chunks with tab characters or more than one ID are dropped as signature noise.
func (p *Preparser) Parse(text string) entity.Parties {
	out := entity.Parties{Grantors: []entity.PersonCandidate{}, Beneficiaries: []entity.PersonCandidate{}}
	if strings.TrimSpace(text) == "" {
		return out
	}
	seg := FindSegments(text)

	if seg.Grantor.Text != "" {
		shared := ""
		if m := ReSharedDomicile.FindStringSubmatch(seg.Grantor.Text); m != nil {
			shared = NormalizeAddress(m[1])
		}
		for _, ch := range SplitChunks(seg.Grantor.Text) {
			if ch.IDs == 0 {
				continue
			}
			cand := p.candidate(text, seg.Grantor, ch, entity.RoleGrantor)
			if cand.DocumentNumber == "" {
				continue
			}
			if shared != "" && cand.Domicile.Address == "" {
				cand.Domicile.Address = shared
			}
			out.Grantors = append(out.Grantors, cand)
		}
	}

	dropped := 0
	if seg.Beneficiary.Text != "" {
		for _, ch := range SplitChunks(seg.Beneficiary.Text) {
			if ch.IDs == 0 {
				continue
			}
			if strings.Contains(ch.Text, "\t") || ch.IDs > 1 {
				dropped++
				continue
			}
			cand := p.candidate(text, seg.Beneficiary, ch, entity.RoleBeneficiary)
			if cand.DocumentNumber == "" {
				continue
			}
			out.Beneficiaries = append(out.Beneficiaries, cand)
		}
	}

	p.logger.Debug("preparse.done",
		"grantors", len(out.Grantors),
		"beneficiaries", len(out.Beneficiaries),
		"dropped_noise", dropped,
		"has_grantor_zone", seg.Grantor.Text != "",
		"has_beneficiary_zone", seg.Beneficiary.Text != "",
	)
	return out
}

func (p *Preparser) candidate(full string, z Zone, ch Chunk, role entity.Role) entity.PersonCandidate {
	cand := entity.PersonCandidate{
		AdditionalDocs: []entity.AdditionalDocument{},
		Role:           string(role),
	}
	p.rules.Apply(ch.Text, &cand)

	start := z.Offset + ch.Start
	end := z.Offset + ch.End
	cand.Evidence = map[string]entity.Evidence{
		EvidenceKey: {
			Text: ch.Text,
			Span: [2]int{utf8.RuneCountInString(full[:start]), utf8.RuneCountInString(full[:end])},
		},
	}
	return cand
}
