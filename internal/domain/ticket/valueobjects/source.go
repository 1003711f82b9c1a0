package valueobjects

import "fmt"

// Source records how a ticket came to exist.
type Source string

const (
	SourceManual    Source = "manual"
	SourceRecurring Source = "recurring"
)

func (s Source) IsValid() bool {
	return s == SourceManual || s == SourceRecurring
}

func (s Source) String() string {
	return string(s)
}

func NewSource(s string) (Source, error) {
	source := Source(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid ticket source: %s", s)
	}
	return source, nil
}

// IsMachineGenerated reports whether the ticket was spawned by the system
// rather than created by a user.
func (s Source) IsMachineGenerated() bool {
	return s == SourceRecurring
}
