// Package codegen renders a fit specification as a standalone Python script
// that reproduces the fit against the native engine's Python bindings. The
// script is stored with the attempt so a fit can be rerun outside the
// service.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

type Renderer struct{}

func NewRenderer() ports.ScriptRenderer {
	return &Renderer{}
}

func (r *Renderer) Render(spec domain.FitSpec) string {
	var b strings.Builder

	b.WriteString("import polars as pl\n")
	b.WriteString("import rustystats as rs\n\n")
	b.WriteString("df = pl.read_csv(\"dataset.csv\")\n")

	if spec.Split != nil {
		renderSplit(&b, spec.Split)
	}
	b.WriteString("\n")

	b.WriteString("terms = {\n")
	for _, t := range spec.Terms {
		renderTerm(&b, t)
	}
	b.WriteString("}\n\n")

	b.WriteString("model = rs.glm_dict(\n")
	fmt.Fprintf(&b, "    response=%s,\n", pyString(spec.Response))
	b.WriteString("    terms=terms,\n")
	b.WriteString("    data=df,\n")
	fmt.Fprintf(&b, "    family=%s,\n", pyString(spec.Family))
	if spec.Link != "" {
		fmt.Fprintf(&b, "    link=%s,\n", pyString(spec.Link))
	}
	if spec.Offset != "" {
		fmt.Fprintf(&b, "    offset=%s,\n", pyString(spec.Offset))
	}
	if spec.Weights != "" {
		fmt.Fprintf(&b, "    weights=%s,\n", pyString(spec.Weights))
	}
	b.WriteString(")\n")
	b.WriteString("result = model.fit()\n")
	b.WriteString("print(result.summary())\n")

	return b.String()
}

func renderSplit(b *strings.Builder, split *domain.SplitSpec) {
	trainValues := valuesFor(split.Mapping, "train")
	fmt.Fprintf(b, "df = df.filter(pl.col(%s).is_in([%s]))\n",
		pyString(split.Column), joinPyStrings(trainValues))
}

func renderTerm(b *strings.Builder, t domain.TermSpec) {
	key := t.Column
	if t.Type == "expression" && t.Expr != nil && *t.Expr != "" {
		key = *t.Expr
	}

	opts := []string{fmt.Sprintf("\"type\": %s", pyString(t.Type))}
	if t.DF != nil {
		opts = append(opts, fmt.Sprintf("\"df\": %d", *t.DF))
	}
	if t.K != nil {
		opts = append(opts, fmt.Sprintf("\"k\": %d", *t.K))
	}
	if t.Monotonicity != nil {
		opts = append(opts, fmt.Sprintf("\"monotonicity\": %s", pyString(*t.Monotonicity)))
	}
	if t.Type == "expression" && t.Expr != nil {
		opts = append(opts, fmt.Sprintf("\"expr\": %s", pyString(*t.Expr)))
	}

	fmt.Fprintf(b, "    %s: {%s},\n", pyString(key), strings.Join(opts, ", "))
}

// valuesFor returns the split column values mapped to the given role, in
// a stable order.
func valuesFor(mapping map[string]string, role string) []string {
	var values []string
	for value, r := range mapping {
		if r == role {
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}

func joinPyStrings(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pyString(v)
	}
	return strings.Join(quoted, ", ")
}

func pyString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
