package domain

import "strings"

// Label classifies an inbound customer message. It is a closed set:
// every message maps to exactly one of the three values below.
type Label string

const (
	LabelPositiveFeedback Label = "positive_feedback"
	LabelNegativeFeedback Label = "negative_feedback"
	LabelQuery            Label = "query"
)

// Valid reports whether l is one of the three defined labels.
func (l Label) Valid() bool {
	switch l {
	case LabelPositiveFeedback, LabelNegativeFeedback, LabelQuery:
		return true
	}
	return false
}

// labelAliases maps the shorthand forms models tend to emit to canonical labels.
var labelAliases = map[string]Label{
	"positive":          LabelPositiveFeedback,
	"positive_feedback": LabelPositiveFeedback,
	"pos":               LabelPositiveFeedback,
	"negative":          LabelNegativeFeedback,
	"negative_feedback": LabelNegativeFeedback,
	"neg":               LabelNegativeFeedback,
	"query":             LabelQuery,
	"question":          LabelQuery,
}

// ParseLabel normalizes raw model output to a Label. Case, surrounding
// whitespace, and spaces-for-underscores are forgiven. The second return
// value is false when the input maps to no known label.
func ParseLabel(raw string) (Label, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
	label, ok := labelAliases[key]
	return label, ok
}

// Classification is the structured result of classifying a message.
type Classification struct {
	Label     Label  `json:"label"`
	Rationale string `json:"rationale,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}
