package core

// CategoryType distinguishes validation lists from lookup tables.
type CategoryType string

// CategoryType values.
const (
	CategoryList     CategoryType = "LIST"
	CategoryKeyValue CategoryType = "KEY_VALUE"
)

// MasterDataCategory is an admin-curated reference table.
// LIST categories carry Records for validation; KEY_VALUE categories carry
// DataMap for the LOOKUP function.
type MasterDataCategory struct {
	ID      string            `yaml:"id" json:"id"`
	Name    string            `yaml:"name" json:"name"`
	Type    CategoryType      `yaml:"type" json:"type"`
	Records []string          `yaml:"records,omitempty" json:"records,omitempty"`
	DataMap map[string]string `yaml:"dataMap,omitempty" json:"dataMap,omitempty"`
}

// MasterData is the read-only snapshot of categories for one request.
type MasterData []MasterDataCategory

// Find returns the first category whose name or id equals ref.
func (m MasterData) Find(ref string) (*MasterDataCategory, bool) {
	for i := range m {
		if m[i].Name == ref || m[i].ID == ref {
			return &m[i], true
		}
	}
	return nil, false
}

// ByID returns the category with the given id.
func (m MasterData) ByID(id string) (*MasterDataCategory, bool) {
	for i := range m {
		if m[i].ID == id {
			return &m[i], true
		}
	}
	return nil, false
}

// Lookup maps key through a KEY_VALUE category. ok is false when the category
// is not a usable lookup table or the key is unmapped.
func (c *MasterDataCategory) Lookup(key string) (string, bool) {
	if c == nil || c.Type != CategoryKeyValue || c.DataMap == nil {
		return "", false
	}
	v, ok := c.DataMap[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
