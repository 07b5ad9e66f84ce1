package rulepack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlPack struct {
	Description string      `yaml:"description"`
	Checks      []CheckSpec `yaml:"checks"`
}

func loadYAML(id, path string) (*Pack, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from rule configuration
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	var doc yamlPack
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	pack := &Pack{id: id, path: path, doc: doc.Description}
	for i, spec := range doc.Checks {
		check, err := spec.Compile()
		if err != nil {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("checks[%d]: %v", i, err)}
		}
		pack.checks = append(pack.checks, check)
	}
	return pack, nil
}
