package formula

import "github.com/leapstack-labs/ratefusion/pkg/core"

// Template is a ready-made formula fragment offered for a field data type.
type Template struct {
	Label       string `json:"label"`
	Func        string `json:"fn"`
	Args        string `json:"args"`
	Description string `json:"description"`
}

// Snippet returns the text inserted into a formula. Constants such as SEQ
// and SYSDATE are inserted bare.
func (t Template) Snippet() string {
	if t.Args == "" && !IsFunction(t.Func) {
		return t.Func
	}
	return t.Func + "(" + t.Args + ")"
}

var templates = map[core.DataType][]Template{
	core.DataTypeNumber: {
		{"SUM", "SUM", "{VAL}, 10", "Add values (autocasts string to number)"},
		{"SUBTRACT", "SUB", "{VAL}, 5", "Subtract from current"},
		{"MULTIPLY", "MUL", "{VAL}, 2", "Scale value"},
		{"DIVIDE", "DIV", "{VAL}, 100", "Normalize value"},
		{"TO NUMBER", "TO_NUMBER", "{VAL}", "Force cast to number"},
		{"TEXT TO NUMBER", "TO_NUMBER", "{VAL}", "Cast string to number"},
		{"SEQUENCE", "SEQ", "", "Auto-increment"},
	},
	core.DataTypeString: {
		{"LOOKUP", "LOOKUP", `{VAL}, "TableName"`, "Find value in a master data key-value table"},
		{"IF CONDITION", "IF", `{DG}==YES, _DG, ""`, "Conditional logic"},
		{"CONCAT", "CONCAT", "{VAL}, _EXTRA", "Suffix text"},
		{"UPPERCASE", "UPPER", "{VAL}", "Capitalize (autocasts to string)"},
		{"LOWERCASE", "LOWER", "{VAL}", "Lowercase"},
		{"SUBSTRING", "SUBSTR", "{VAL}, 0, 10", "Limit length"},
		{"EXTRACT ID", "XID", "{VAL}", "Remove GID prefix"},
		{"TO STRING", "TO_STRING", "{VAL}", "Force cast to string"},
		{"DATE TO STRING", "TO_STRING", "{VAL}", "Cast date to string"},
		{"NUMBER TO STRING", "TO_STRING", "{VAL}", "Cast number to string"},
	},
	core.DataTypeDate: {
		{"FULL DATE", "DATE", "{VAL}", "OTM timestamp (14 chars)"},
		{"SHORT DATE", "DATE_SHORT", "{VAL}", "OTM short date (8 chars)"},
		{"ADD DAYS", "ADD_DAYS", "{VAL}, 30", "Add days to date"},
		{"TO DATE", "TO_DATE", "{VAL}", "Force cast to date"},
		{"TEXT TO DATE", "TO_DATE", "{VAL}", "Cast string to date"},
		{"FORMAT DATE", "FORMAT_DATE", `{VAL}, "YYYY-MM-DD"`, "Format date to string"},
		{"SYSTEM DATE", "SYSDATE", "", "Current OTM timestamp"},
	},
}

// Templates returns the template catalogue for a data type. Unknown types
// get the STRING catalogue.
func Templates(dt core.DataType) []Template {
	list, ok := templates[dt]
	if !ok {
		list = templates[core.DataTypeString]
	}
	out := make([]Template, len(list))
	copy(out, list)
	return out
}
