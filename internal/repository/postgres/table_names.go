package postgres

import "fmt"

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users    string
	Projects string
	Versions string
	Messages string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:    fmt.Sprintf("%susers", prefix),
		Projects: fmt.Sprintf("%sprojects", prefix),
		Versions: fmt.Sprintf("%sversions", prefix),
		Messages: fmt.Sprintf("%sconversation_messages", prefix),
	}
}
