package rustystats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier-service/internal/core/domain"
)

func TestParseProgressLine(t *testing.T) {
	p, ok := ParseProgressLine("iter 3/25 deviance=10423.915 change=1.2e-03")
	require.True(t, ok)
	assert.Equal(t, 3, p.Iteration)
	assert.Equal(t, 25, p.MaxIterations)
	assert.InDelta(t, 10423.915, p.Objective, 1e-9)
	assert.InDelta(t, 0.0012, p.ObjectiveChange, 1e-9)
}

func TestParseProgressLine_PrefixedForm(t *testing.T) {
	p, ok := ParseProgressLine("[irls] iter 1/100 deviance=5.0 change=0.5")
	require.True(t, ok)
	assert.Equal(t, 1, p.Iteration)
	assert.Equal(t, 100, p.MaxIterations)
}

func TestParseProgressLine_RejectsNonProgressLines(t *testing.T) {
	lines := []string{
		"",
		"warning: column exposure has 12 missing values",
		"iter three/25 deviance=1.0 change=0.1",
		"iter 3/25 deviance=1.0",
		"panicked at src/irls.rs:120",
	}
	for _, line := range lines {
		_, ok := ParseProgressLine(line)
		assert.False(t, ok, "line %q should not parse", line)
	}
}

func TestTermsDict(t *testing.T) {
	df := 5
	mono := "increasing"
	terms := []domain.TermSpec{
		{Column: "region", Type: "categorical"},
		{Column: "age", Type: "bs", DF: &df, Monotonicity: &mono},
	}

	dict := TermsDict(terms)
	require.Len(t, dict, 2)
	assert.Equal(t, map[string]any{"type": "categorical"}, dict["region"])
	assert.Equal(t, map[string]any{"type": "bs", "df": 5, "monotonicity": "increasing"}, dict["age"])
}

func TestTermsDict_LaterDuplicateWins(t *testing.T) {
	terms := []domain.TermSpec{
		{Column: "age", Type: "linear"},
		{Column: "age", Type: "categorical"},
	}
	dict := TermsDict(terms)
	require.Len(t, dict, 1)
	assert.Equal(t, "categorical", dict["age"]["type"])
}

func TestTermsDict_ExpressionsKeyedByExpr(t *testing.T) {
	e1 := "log(age)"
	e2 := "age * exposure"
	terms := []domain.TermSpec{
		{Column: "age", Type: "expression", Expr: &e1},
		{Column: "age", Type: "expression", Expr: &e2},
	}

	dict := TermsDict(terms)
	require.Len(t, dict, 2)
	assert.Equal(t, "log(age)", dict["log(age)"]["expr"])
	assert.Equal(t, "age * exposure", dict["age * exposure"]["expr"])
}

func TestTermsDict_EncodingDuplicateGetsVariableField(t *testing.T) {
	terms := []domain.TermSpec{
		{Column: "zip", Type: "categorical"},
		{Column: "zip", Type: "target_encoding"},
	}

	dict := TermsDict(terms)
	require.Len(t, dict, 2)
	assert.Equal(t, "categorical", dict["zip"]["type"])
	assert.Equal(t, "zip", dict["zip__target_encoding"]["variable"])
}

func TestTermsDict_EncodingFirstIsRekeyed(t *testing.T) {
	terms := []domain.TermSpec{
		{Column: "zip", Type: "frequency_encoding"},
		{Column: "zip", Type: "categorical"},
	}

	dict := TermsDict(terms)
	require.Len(t, dict, 2)
	assert.Equal(t, "categorical", dict["zip"]["type"])
	assert.Equal(t, "zip", dict["zip__frequency_encoding"]["variable"])
}
