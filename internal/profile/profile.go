// Package profile loads formula profiles and master data from YAML or JSON
// files.
//
// A profile file holds either one profile or a list of them. Table
// definitions live under "config", keyed by table key; the key order in the
// file is kept as the default generation order. JSON is read with the same
// YAML decoder, so both formats keep that order.
package profile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// file is the on-disk shape of one profile.
type file struct {
	ID                   string            `yaml:"id"`
	Name                 string            `yaml:"name"`
	IsDefault            bool              `yaml:"isDefault"`
	Config               yaml.Node         `yaml:"config"`
	Variables            map[string]string `yaml:"variables,omitempty"`
	TransmissionSequence []string          `yaml:"transmissionSequence,omitempty"`
}

// LoadFile reads every profile in path.
func LoadFile(path string) ([]*core.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	profiles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// Parse decodes one profile or a list of profiles.
func Parse(data []byte) ([]*core.Profile, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = *root.Content[0]
	}

	var files []file
	switch root.Kind {
	case yaml.MappingNode:
		var f file
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		files = append(files, f)
	case yaml.SequenceNode:
		if err := root.Decode(&files); err != nil {
			return nil, fmt.Errorf("failed to decode profiles: %w", err)
		}
	default:
		return nil, core.InvalidInputf("profile file must hold a mapping or a list")
	}

	profiles := make([]*core.Profile, 0, len(files))
	for i := range files {
		p, err := files[i].toProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (f *file) toProfile() (*core.Profile, error) {
	p := &core.Profile{
		ID:                   f.ID,
		Name:                 f.Name,
		IsDefault:            f.IsDefault,
		Variables:            f.Variables,
		TransmissionSequence: f.TransmissionSequence,
	}
	if p.Name == "" {
		p.Name = p.ID
	}

	if f.Config.Kind != 0 && f.Config.Kind != yaml.MappingNode {
		return nil, core.InvalidInputf("profile %q: config must be a mapping of table keys", p.Name)
	}
	for i := 0; i+1 < len(f.Config.Content); i += 2 {
		key := f.Config.Content[i].Value
		var def core.TableDef
		if err := f.Config.Content[i+1].Decode(&def); err != nil {
			return nil, fmt.Errorf("profile %q: table %s: %w", p.Name, key, err)
		}
		if def.TableName == "" {
			def.TableName = key
		}
		for j := range def.Fields {
			def.Fields[j].DataType = core.ParseDataType(string(def.Fields[j].DataType))
		}
		p.SetTable(key, def)
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the structural rules a profile must satisfy before use.
func Validate(p *core.Profile) error {
	for _, t := range p.Tables {
		for i, f := range t.Def.Fields {
			if f.Name == "" {
				return core.InvalidInputf("profile %q: table %s: field %d has no name", p.Name, t.Key, i)
			}
		}
	}
	for _, key := range p.TransmissionSequence {
		if _, ok := p.Table(key); !ok {
			return core.InvalidInputf("profile %q: transmission sequence names unknown table %q", p.Name, key)
		}
	}
	return nil
}

// Select picks a profile by name or id. With an empty ref it returns the
// profile flagged as default, or the first one.
func Select(profiles []*core.Profile, ref string) (*core.Profile, error) {
	if len(profiles) == 0 {
		return nil, core.InvalidInputf("no profiles defined")
	}
	if ref == "" {
		for _, p := range profiles {
			if p.IsDefault {
				return p, nil
			}
		}
		return profiles[0], nil
	}
	for _, p := range profiles {
		if p.Name == ref || p.ID == ref {
			return p, nil
		}
	}
	return nil, core.InvalidInputf("profile %q not found", ref)
}

// Marshal encodes a profile as YAML, keeping table order.
func Marshal(p *core.Profile) ([]byte, error) {
	f := file{
		ID:                   p.ID,
		Name:                 p.Name,
		IsDefault:            p.IsDefault,
		Variables:            p.Variables,
		TransmissionSequence: p.TransmissionSequence,
	}
	f.Config.Kind = yaml.MappingNode
	for _, t := range p.Tables {
		var value yaml.Node
		if err := value.Encode(t.Def); err != nil {
			return nil, fmt.Errorf("failed to encode table %s: %w", t.Key, err)
		}
		f.Config.Content = append(f.Config.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Key},
			&value,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
