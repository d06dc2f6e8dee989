package bigquery

// Table types reported by BigQuery
const (
	TypeTable = "TABLE"
	TypeView  = "VIEW"
)

// Column modes reported by BigQuery
const (
	ModeNullable = "NULLABLE"
	ModeRequired = "REQUIRED"
	ModeRepeated = "REPEATED"
)

// DatasetInfo represents BigQuery dataset metadata
type DatasetInfo struct {
	ID          string
	Description string
}

// TableInfo represents BigQuery table metadata
type TableInfo struct {
	ID          string
	Type        string // TABLE, VIEW, MATERIALIZED_VIEW, EXTERNAL, SNAPSHOT
	Description string
}

// DisplayType collapses every table type other than VIEW into TABLE
func (t TableInfo) DisplayType() string {
	if t.Type == TypeView {
		return TypeView
	}
	return TypeTable
}

// Schema represents BigQuery table schema
type Schema struct {
	Fields []SchemaField
}

// SchemaField represents a BigQuery schema field
type SchemaField struct {
	Name        string
	Type        string
	Mode        string // REQUIRED, NULLABLE, REPEATED
	Description string
	Fields      []SchemaField // For nested/repeated fields
}

// Nullable reports whether the column accepts NULL. Repeated columns do not.
func (f SchemaField) Nullable() bool {
	return f.Mode == ModeNullable || f.Mode == ""
}

// TableMetadata represents complete table metadata
type TableMetadata struct {
	TableInfo
	Schema *Schema
}

// QueryResult holds the consumed head of a query result in service order
type QueryResult struct {
	Columns []string
	Rows    [][]any
}
