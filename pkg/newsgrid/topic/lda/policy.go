package lda

import (
	"fmt"
	"strings"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Policy selects how cells become training instances
type Policy int

const (
	// PerCell concatenates all documents of a cell into one instance.
	PerCell Policy = iota
	// PerDocument trains on every sampled document; cell vectors are the
	// mean over the cell's instances.
	PerDocument
)

func (p Policy) String() string {
	switch p {
	case PerCell:
		return "per_cell"
	case PerDocument:
		return "per_document"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a configuration name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_") {
	case "per_cell", "cell":
		return PerCell, nil
	case "per_document", "document":
		return PerDocument, nil
	}
	return 0, fmt.Errorf("unknown corpus policy %q: %w", name, internalerr.ErrInvalidConfig)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
