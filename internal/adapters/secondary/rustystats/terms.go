package rustystats

import (
	"fmt"

	"atelier-service/internal/core/domain"
)

// Term types that carry an explicit "variable" field when they cannot claim
// the plain column name as their dict key.
var variableAwareTypes = map[string]bool{
	"target_encoding":    true,
	"frequency_encoding": true,
}

// TermsDict converts the ordered term list into the column-keyed dict the
// engine consumes. Expression terms are keyed by their expression so several
// can coexist; when a column carries both an encoding term and a regular
// term, the encoding term is re-keyed as column__type with a "variable"
// field and the regular term keeps the plain column name.
func TermsDict(terms []domain.TermSpec) map[string]map[string]any {
	out := make(map[string]map[string]any, len(terms))

	for _, t := range terms {
		entry := map[string]any{"type": t.Type}
		if t.DF != nil {
			entry["df"] = *t.DF
		}
		if t.K != nil {
			entry["k"] = *t.K
		}
		if t.Monotonicity != nil {
			entry["monotonicity"] = *t.Monotonicity
		}
		if t.Type == "expression" && t.Expr != nil {
			entry["expr"] = *t.Expr
		}

		key := t.Column
		_, taken := out[t.Column]
		switch {
		case t.Type == "expression":
			if t.Expr != nil && *t.Expr != "" {
				key = *t.Expr
			}
		case taken && variableAwareTypes[t.Type]:
			key = fmt.Sprintf("%s__%s", t.Column, t.Type)
			entry["variable"] = t.Column
		case taken && variableAwareTypes[out[t.Column]["type"].(string)]:
			// The earlier entry is the encoding term; move it aside so the
			// new term can use the plain column name.
			existing := out[t.Column]
			delete(out, t.Column)
			existing["variable"] = t.Column
			out[fmt.Sprintf("%s__%s", t.Column, existing["type"])] = existing
		}

		out[key] = entry
	}

	return out
}
