package core

import "strings"

// DataType is advisory metadata describing what a field is expected to hold.
// The resolver never enforces it; it drives formula template suggestions.
type DataType string

// DataType values.
const (
	DataTypeString DataType = "STRING"
	DataTypeNumber DataType = "NUMBER"
	DataTypeDate   DataType = "DATE"
)

// ParseDataType maps a case-insensitive name to a DataType, defaulting to STRING.
func ParseDataType(s string) DataType {
	switch DataType(strings.ToUpper(strings.TrimSpace(s))) {
	case DataTypeNumber:
		return DataTypeNumber
	case DataTypeDate:
		return DataTypeDate
	default:
		return DataTypeString
	}
}

// Field is one output column: Name becomes the column/tag name and Formula is
// resolved per row to produce its value.
type Field struct {
	ID       string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string   `yaml:"name" json:"name"`
	Formula  string   `yaml:"formula" json:"formula"`
	DataType DataType `yaml:"dataType,omitempty" json:"dataType,omitempty"`
}

// TableDef describes one output table. Field order is output column order.
type TableDef struct {
	TableName string  `yaml:"tableName" json:"tableName"`
	Fields    []Field `yaml:"fields" json:"fields"`
}

// ColumnNames returns the field names in declared order.
func (t *TableDef) ColumnNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// TableEntry pairs a logical table key with its definition.
type TableEntry struct {
	Key string
	Def TableDef
}

// Profile is a named bundle of output tables, variables and a transmission order.
type Profile struct {
	ID        string
	Name      string
	IsDefault bool

	// Tables keeps the authored key order, which is the fallback generation order.
	Tables []TableEntry

	// Variables maps $NAME tokens to formula-valued strings.
	Variables map[string]string

	// TransmissionSequence optionally overrides the generation order.
	TransmissionSequence []string
}

// Table returns the definition for a table key.
func (p *Profile) Table(key string) (*TableDef, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Tables {
		if p.Tables[i].Key == key {
			return &p.Tables[i].Def, true
		}
	}
	return nil, false
}

// TableKeys returns table keys in authored order.
func (p *Profile) TableKeys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.Tables))
	for i, t := range p.Tables {
		keys[i] = t.Key
	}
	return keys
}

// Sequence returns the transmission sequence, or the table key order when
// none was configured.
func (p *Profile) Sequence() []string {
	if p == nil {
		return nil
	}
	if len(p.TransmissionSequence) > 0 {
		out := make([]string, len(p.TransmissionSequence))
		copy(out, p.TransmissionSequence)
		return out
	}
	return p.TableKeys()
}

// SetTable adds or replaces a table definition, keeping the position of an
// existing key.
func (p *Profile) SetTable(key string, def TableDef) {
	for i := range p.Tables {
		if p.Tables[i].Key == key {
			p.Tables[i].Def = def
			return
		}
	}
	p.Tables = append(p.Tables, TableEntry{Key: key, Def: def})
}
