package source

import (
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

func validated(s Source, records []interval.Record) ([]interval.Record, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s returned no records", s.Name())
	}
	if err := interval.ValidateAll(records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "%s", s.Name())
	}
	return records, nil
}

// bound converts an open window bound to NULL.
func bound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
