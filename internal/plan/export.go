package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PlanVersion is written at the top of every exported plan document.
const PlanVersion = "1"

type planDocument struct {
	Version string     `yaml:"version"`
	Plan    *ProxyPlan `yaml:"plan"`
}

// ExportYAML renders the plan as a YAML document for the emission backend.
func ExportYAML(p *ProxyPlan) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, p); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteYAML writes the plan document to w.
func WriteYAML(w io.Writer, p *ProxyPlan) error {
	if p == nil {
		return errors.New("plan is nil")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(planDocument{Version: PlanVersion, Plan: p}); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	return enc.Close()
}
