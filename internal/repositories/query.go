// Package repositories implements MySQL persistence for every entity of
// the admin backend.
package repositories

import "strings"

// orderClause builds an ORDER BY clause from user supplied sort
// parameters. sortBy must appear in the allow-list of column names,
// otherwise fallback is used. Direction defaults to descending.
func orderClause(sortBy, sortOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = fallback
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	return "ORDER BY " + column + " " + direction
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern wraps a search term for substring matching. LIKE
// metacharacters in the term are escaped so they match literally.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
