package outline

import "fmt"

// Kind classifies a validation issue.
type Kind string

const (
	KindMissingRequiredField Kind = "MissingRequiredField"
	KindDuplicateID          Kind = "DuplicateId"
	KindOrphanRecord         Kind = "OrphanRecord"
	KindDetachedRecord       Kind = "DetachedRecord"
	KindCycleDetected        Kind = "CycleDetected"
	KindMissingLocaleContent Kind = "MissingLocaleContent"
	KindDepthExceeded        Kind = "DepthExceeded"
	KindUnknownRoot          Kind = "UnknownRoot"
)

// Issue is one recoverable anomaly found while indexing, building or
// rendering. Issues never abort a run.
type Issue struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	ID      ID     `json:"id,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", i.Kind, i.Line, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

func newIssue(kind Kind, id ID, line int, format string, args ...any) Issue {
	return Issue{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		ID:      id,
		Line:    line,
	}
}

// CountByKind tallies issues per kind.
func CountByKind(issues []Issue) map[Kind]int {
	counts := make(map[Kind]int)
	for _, is := range issues {
		counts[is.Kind]++
	}
	return counts
}
