package model

// Snapshot is the full content of every table, in export order.
type Snapshot struct {
	Schools          []School          `json:"schools"`
	Media            []Media           `json:"media"`
	Classes          []SchoolClass     `json:"classes"`
	MarksheetSchemas []MarksheetSchema `json:"marksheetSchemas"`
	Students         []Student         `json:"students"`
	Marks            []Mark            `json:"marks"`
}

// DashboardCounts holds the number of rows per table.
type DashboardCounts struct {
	Schools          int `json:"schools"`
	Media            int `json:"media"`
	Classes          int `json:"classes"`
	MarksheetSchemas int `json:"marksheetSchemas"`
	Students         int `json:"students"`
	Marks            int `json:"marks"`
}
