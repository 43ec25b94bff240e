package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// mapError adds PostgreSQL error class context to err.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Class() {
	case "08":
		return fmt.Errorf("database connection error: %w", err)
	case "23":
		return fmt.Errorf("constraint violation %s: %w", pqErr.Constraint, err)
	case "40":
		return fmt.Errorf("transaction conflict: %w", err)
	case "53":
		return fmt.Errorf("database resource limit: %w", err)
	case "57":
		return fmt.Errorf("database operator intervention: %w", err)
	default:
		return fmt.Errorf("postgres error [%s %s]: %w", pqErr.Code, pqErr.Code.Name(), err)
	}
}
