package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// LoadMasterData reads a list of master data categories from a YAML or JSON
// file. An empty path yields no categories.
func LoadMasterData(path string) (core.MasterData, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read master data: %w", err)
	}
	md, err := ParseMasterData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return md, nil
}

// ParseMasterData decodes a list of categories. Category types are
// normalized; a category without a type is treated as LIST.
func ParseMasterData(data []byte) (core.MasterData, error) {
	var md core.MasterData
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to parse master data: %w", err)
	}
	for i := range md {
		c := &md[i]
		switch c.Type {
		case core.CategoryKeyValue, "key_value", "KEYVALUE":
			c.Type = core.CategoryKeyValue
		case core.CategoryList, "list", "":
			c.Type = core.CategoryList
		default:
			return nil, core.InvalidInputf("category %q has unknown type %q", c.Name, c.Type)
		}
		if c.ID == "" {
			c.ID = c.Name
		}
	}
	return md, nil
}
