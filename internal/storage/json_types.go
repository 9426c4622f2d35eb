package storage

// DatabaseMeta is the layout of <dir>/meta.json.
type DatabaseMeta struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Tables  []string `json:"tables,omitempty"`
}

// TableMeta is the layout of <dir>/<table>/meta.json.
type TableMeta struct {
	Name     string       `json:"name"`
	Columns  []ColumnMeta `json:"columns"`
	RowCount int64        `json:"row_count,omitempty"`
}

type ColumnMeta struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	NotNull bool        `json:"not_null"`
	Default interface{} `json:"default,omitempty"`
}

// RowData is one entry of data.json, keyed by column name.
type RowData map[string]interface{}
