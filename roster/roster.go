// Package roster publishes the list of students a teacher may view the site
// as. Sources (a Supabase table, a spreadsheet) are read in full and the
// whole roster record is replaced.
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creastat/espace-cours/session"
)

var (
	ErrMissingID   = errors.New("student without id")
	ErrDuplicateID = errors.New("duplicate student id")
)

// Source provides the current list of students.
type Source interface {
	Students(ctx context.Context) ([]session.Student, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]session.Student, error)

// Students implements Source.
func (f SourceFunc) Students(ctx context.Context) ([]session.Student, error) {
	return f(ctx)
}

// Validate checks that every student has a unique, non-empty id.
func Validate(students []session.Student) error {
	seen := make(map[string]struct{}, len(students))
	for i, s := range students {
		if s.ID == "" {
			return fmt.Errorf("row %d: %w", i, ErrMissingID)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%q: %w", s.ID, ErrDuplicateID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// Sync reads src and overwrites the roster record under key.
// It returns the number of students written.
func Sync(ctx context.Context, src Source, store session.Store, key string) (int, error) {
	if key == "" {
		key = session.DefaultRosterKey
	}

	students, err := src.Students(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read roster source: %w", err)
	}
	if students == nil {
		students = []session.Student{}
	}
	if err := Validate(students); err != nil {
		return 0, fmt.Errorf("invalid roster: %w", err)
	}

	val, err := json.Marshal(students)
	if err != nil {
		return 0, fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := store.Set(ctx, key, val); err != nil {
		return 0, fmt.Errorf("failed to save roster: %w", err)
	}
	return len(students), nil
}
