package supabase

import (
	"context"

	"github.com/creastat/espace-cours/session"
)

// Store provides read access to the roster kept in Supabase
type Store interface {
	// Students retrieves every student of the roster table, sorted by name
	Students(ctx context.Context) ([]session.Student, error)

	// Close closes the Supabase client and releases resources
	Close() error
}

// studentRow is a row of the roster table
type studentRow struct {
	ID         string `json:"id"`
	GivenName  string `json:"prenom"`
	FamilyName string `json:"nom"`
}
