package fold

import (
	"fmt"

	"github.com/inodb/vibe-fold/internal/structure"
)

// ResourceLimitError is returned when enumeration finds more co-optimal
// structures than the caller allowed. Found holds the structures collected
// before the cap was hit.
type ResourceLimitError struct {
	SeqID string
	Limit int
	Found []*structure.Structure
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("%s: more than %d co-optimal structures", e.SeqID, e.Limit)
}
