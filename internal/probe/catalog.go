package probe

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/auditmatrix/internal/model"
)

// catalogSchema describes a probe catalog file:
//
//	probes:
//	  - id: layout-grid
//	    description: Grid layout implemented
//	    feature_pattern: '^display: grid'
//	    target_file: src/layout/grid.cpp
//	    required_markers: ["GridLayout::layout("]
//	    required_if_claim_present: false
const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["probes"],
  "additionalProperties": false,
  "properties": {
    "probes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "feature_pattern", "target_file", "required_markers"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "pattern": "^[A-Za-z0-9][A-Za-z0-9._-]*$"},
          "description": {"type": "string"},
          "feature_pattern": {"type": "string", "minLength": 1},
          "target_file": {"type": "string", "minLength": 1},
          "required_markers": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "required_if_claim_present": {"type": "boolean"}
        }
      }
    }
  }
}`

type catalogFile struct {
	Probes []catalogEntry `yaml:"probes"`
}

type catalogEntry struct {
	ID                     string   `yaml:"id"`
	Description            string   `yaml:"description"`
	FeaturePattern         string   `yaml:"feature_pattern"`
	TargetFile             string   `yaml:"target_file"`
	RequiredMarkers        []string `yaml:"required_markers"`
	RequiredIfClaimPresent *bool    `yaml:"required_if_claim_present"` // Defaults to true
}

// LoadCatalog reads a YAML probe catalog from fs
func LoadCatalog(fs afero.Fs, path string) ([]model.Probe, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read probe catalog: %w", err)
	}

	probes, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("probe catalog %s: %w", path, err)
	}
	return probes, nil
}

// ParseCatalog validates catalog YAML against the schema and decodes it
func ParseCatalog(data []byte) ([]model.Probe, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(catalogSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate schema: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	probes := make([]model.Probe, 0, len(file.Probes))
	for _, entry := range file.Probes {
		required := true
		if entry.RequiredIfClaimPresent != nil {
			required = *entry.RequiredIfClaimPresent
		}
		probes = append(probes, model.Probe{
			ID:                     entry.ID,
			Description:            entry.Description,
			FeaturePattern:         entry.FeaturePattern,
			TargetFile:             entry.TargetFile,
			RequiredMarkers:        entry.RequiredMarkers,
			RequiredIfClaimPresent: required,
		})
	}

	if err := Validate(probes); err != nil {
		return nil, err
	}
	return probes, nil
}
