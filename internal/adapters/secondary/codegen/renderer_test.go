package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"atelier-service/internal/core/domain"
)

func TestRender(t *testing.T) {
	df := 5
	spec := domain.FitSpec{
		Response: "claim_count",
		Family:   "poisson",
		Link:     "log",
		Offset:   "exposure",
		Terms: []domain.TermSpec{
			{Column: "region", Type: "categorical"},
			{Column: "age", Type: "bs", DF: &df},
		},
	}

	code := NewRenderer().Render(spec)

	assert.Contains(t, code, "import rustystats as rs")
	assert.Contains(t, code, `response="claim_count"`)
	assert.Contains(t, code, `family="poisson"`)
	assert.Contains(t, code, `link="log"`)
	assert.Contains(t, code, `offset="exposure"`)
	assert.Contains(t, code, `"region": {"type": "categorical"}`)
	assert.Contains(t, code, `"age": {"type": "bs", "df": 5}`)
	assert.Contains(t, code, "result = model.fit()")
	assert.NotContains(t, code, "weights=")
}

func TestRender_SplitFiltersToTrainRows(t *testing.T) {
	spec := domain.FitSpec{
		Response: "claim_count",
		Family:   "poisson",
		Terms:    []domain.TermSpec{{Column: "region", Type: "categorical"}},
		Split: &domain.SplitSpec{
			Column: "fold",
			Mapping: map[string]string{
				"a": "train",
				"b": "train",
				"c": "validation",
			},
		},
	}

	code := NewRenderer().Render(spec)
	assert.Contains(t, code, `df.filter(pl.col("fold").is_in(["a", "b"]))`)
	assert.NotContains(t, code, `"c"`)
}

func TestRender_ExpressionTermKeyedByExpr(t *testing.T) {
	expr := "log(age)"
	spec := domain.FitSpec{
		Response: "claim_count",
		Family:   "gamma",
		Terms: []domain.TermSpec{
			{Column: "age", Type: "expression", Expr: &expr},
		},
	}

	code := NewRenderer().Render(spec)
	assert.Contains(t, code, `"log(age)": {"type": "expression", "expr": "log(age)"}`)
}

func TestRender_EscapesQuotes(t *testing.T) {
	spec := domain.FitSpec{
		Response: `claim"count`,
		Family:   "poisson",
		Terms:    []domain.TermSpec{{Column: "region", Type: "categorical"}},
	}

	code := NewRenderer().Render(spec)
	assert.Contains(t, code, `response="claim\"count"`)
	assert.Equal(t, 1, strings.Count(code, "model = rs.glm_dict("))
}
