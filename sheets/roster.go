package sheets

import (
	"context"
	"strings"

	"github.com/creastat/espace-cours/session"
)

// Roster column headers.
const (
	ColumnID         = "id"
	ColumnGivenName  = "prenom"
	ColumnFamilyName = "nom"
)

// RosterSource reads the roster from one sheet. Rows without an id are
// skipped; order follows the sheet.
type RosterSource struct {
	Client *Client
	Sheet  string
}

// Students implements roster.Source.
func (r RosterSource) Students(ctx context.Context) ([]session.Student, error) {
	records, err := r.Client.Values(ctx, r.Sheet)
	if err != nil {
		return nil, err
	}

	students := make([]session.Student, 0, len(records))
	for _, rec := range records {
		id := strings.TrimSpace(rec[ColumnID])
		if id == "" {
			continue
		}
		students = append(students, session.Student{
			ID:         id,
			GivenName:  strings.TrimSpace(rec[ColumnGivenName]),
			FamilyName: strings.TrimSpace(rec[ColumnFamilyName]),
		})
	}
	return students, nil
}
