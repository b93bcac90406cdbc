package core

import "strings"

// DBOrdering is a single ORDER BY term requested by an API client.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderByClause joins orderings into a SQL ORDER BY body; empty when no
// ordering was requested.
func OrderByClause(orderings []DBOrdering) string {
	if len(orderings) == 0 {
		return ""
	}
	terms := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		terms = append(terms, ord.String())
	}
	return strings.Join(terms, ", ")
}
