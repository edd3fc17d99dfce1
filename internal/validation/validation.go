package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
)

// Error collects field-level validation failures. It is returned to the API
// caller as a recoverable condition and never causes a mutation.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// ParsePositionID parses a position id path parameter.
// Ids are positive integers.
func ParsePositionID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidPositionID, raw)
	}
	return id, nil
}
