package risk

// Level is the risk verdict shown to users.
type Level string

// Risk levels.
const (
	High Level = "high"
	Low  Level = "low"
)

// Result is the normalized classifier output for one request.
type Result struct {
	Label       bool
	Probability float64
}

// Verdict is the final risk assessment.
type Verdict struct {
	Level       Level
	Probability float64
}

// Interpret maps a classifier result to a verdict. The level follows the classifier
// label only; the probability is carried for context and never overrides it.
func Interpret(r Result) Verdict {
	level := Low
	if r.Label {
		level = High
	}
	return Verdict{Level: level, Probability: r.Probability}
}
