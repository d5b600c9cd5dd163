package condition

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the predictable health conditions.
type Kind string

// Condition kinds. The set is closed; Parse rejects anything else.
const (
	Diabetes          Kind = "diabetes"
	HeartDisease      Kind = "heart_disease"
	LiverDisease      Kind = "liver_disease"
	KidneyDisease     Kind = "kidney_disease"
	ParkinsonsDisease Kind = "parkinsons_disease"
)

var all = []Kind{Diabetes, HeartDisease, LiverDisease, KidneyDisease, ParkinsonsDisease}

var displayNames = map[Kind]string{
	Diabetes:          "Diabetes",
	HeartDisease:      "Heart Disease",
	LiverDisease:      "Liver Disease",
	KidneyDisease:     "Kidney Disease",
	ParkinsonsDisease: "Parkinson's Disease",
}

// aliases maps the short keys used by older clients and artifact names.
var aliases = map[string]Kind{
	"heart":      HeartDisease,
	"liver":      LiverDisease,
	"kidney":     KidneyDisease,
	"parkinsons": ParkinsonsDisease,
}

// ErrUnknown is returned by Parse for keys outside the closed set.
var ErrUnknown = errors.New("unknown condition")

// All returns every kind in a stable order.
func All() []Kind {
	out := make([]Kind, len(all))
	copy(out, all)
	return out
}

// Parse resolves a wire key (or a short alias) to a Kind.
func Parse(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	k := Kind(key)
	if k.IsValid() {
		return k, nil
	}
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// IsValid reports whether k belongs to the closed set.
func (k Kind) IsValid() bool {
	_, ok := displayNames[k]
	return ok
}

// String returns the wire key.
func (k Kind) String() string { return string(k) }

// DisplayName returns the human-readable condition name.
func (k Kind) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}
