package rustystats

import (
	"regexp"
	"strconv"

	"atelier-service/internal/core/domain"
)

// The engine logs one line per IRLS iteration, e.g.
//
//	iter 3/25 deviance=10423.915 change=1.2e-03
//
// Earlier engine builds prefixed the line with "[irls]"; both forms parse.
var progressLine = regexp.MustCompile(
	`^(?:\[irls\]\s+)?iter\s+(\d+)/(\d+)\s+deviance=([0-9eE+.\-]+)\s+change=([0-9eE+.\-]+)\s*$`,
)

// ParseProgressLine extracts an iteration signal from one stderr line.
// Lines that do not match the progress format return ok=false.
func ParseProgressLine(line string) (domain.FitProgress, bool) {
	m := progressLine.FindStringSubmatch(line)
	if m == nil {
		return domain.FitProgress{}, false
	}

	iter, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.FitProgress{}, false
	}
	maxIter, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.FitProgress{}, false
	}
	objective, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return domain.FitProgress{}, false
	}
	change, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return domain.FitProgress{}, false
	}

	return domain.FitProgress{
		Iteration:       iter,
		MaxIterations:   maxIter,
		Objective:       objective,
		ObjectiveChange: change,
	}, true
}
