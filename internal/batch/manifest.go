// Package batch generates many embed documents from one manifest file.
//
// A manifest lists jobs, each naming a template, a CSV file and optional
// settings, config, binding and format files. Manifests may be TOML or YAML;
// the file extension decides. Relative paths resolve against the manifest's
// directory.
package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/plotset/plotembed/internal/testable"
)

// Manifest is the top-level batch file.
type Manifest struct {
	// Defaults apply to every job that leaves the field empty.
	Template     string `toml:"template" yaml:"template"`
	OutputDir    string `toml:"output_dir" yaml:"output_dir"`
	ExternalURL  string `toml:"external_url" yaml:"external_url"`
	Watermark    *bool  `toml:"watermark" yaml:"watermark"`
	ReferenceURL string `toml:"reference_url" yaml:"reference_url"`

	Jobs []Job `toml:"jobs" yaml:"jobs"`

	// dir is the manifest's directory, used to resolve relative paths.
	dir string
}

// Job describes one embed document.
type Job struct {
	// ID is assigned at load time and is unique within a run.
	ID   string `toml:"-" yaml:"-"`
	Name string `toml:"name" yaml:"name"`

	Template string `toml:"template" yaml:"template"`
	Data     string `toml:"data" yaml:"data"`
	Settings string `toml:"settings" yaml:"settings"`
	Config   string `toml:"config" yaml:"config"`
	Binding  string `toml:"binding" yaml:"binding"`
	Format   string `toml:"format" yaml:"format"`
	Output   string `toml:"output" yaml:"output"`

	Watermark    *bool  `toml:"watermark" yaml:"watermark"`
	ReferenceURL string `toml:"reference_url" yaml:"reference_url"`
}

// Load reads and validates a manifest. Jobs inherit manifest defaults and
// get an ID; unnamed jobs are named after it.
func Load(fsys testable.FileSystem, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %s: unsupported extension %q (use .toml, .yaml or .yml)", path, ext)
	}

	m.dir = filepath.Dir(path)
	if err := m.prepare(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) prepare() error {
	if len(m.Jobs) == 0 {
		return fmt.Errorf("no jobs")
	}

	var errs []string
	names := make(map[string]int, len(m.Jobs))
	for i := range m.Jobs {
		j := &m.Jobs[i]
		j.ID = uuid.NewString()
		if j.Name == "" {
			j.Name = "job-" + j.ID[:8]
		}
		if j.Template == "" {
			j.Template = m.Template
		}
		if j.Watermark == nil {
			j.Watermark = m.Watermark
		}
		if j.ReferenceURL == "" {
			j.ReferenceURL = m.ReferenceURL
		}
		if j.Output == "" {
			j.Output = filepath.Join(m.OutputDir, j.Name+".html")
		}

		if prev, dup := names[j.Name]; dup {
			errs = append(errs, fmt.Sprintf("jobs[%d]: name %q already used by jobs[%d]", i, j.Name, prev))
		}
		names[j.Name] = i
		if j.Template == "" {
			errs = append(errs, fmt.Sprintf("jobs[%d] (%s): no template and no manifest default", i, j.Name))
		}
		if j.Data == "" {
			errs = append(errs, fmt.Sprintf("jobs[%d] (%s): data is required", i, j.Name))
		}
		if j.Settings != "" && j.Config != "" {
			errs = append(errs, fmt.Sprintf("jobs[%d] (%s): settings and config are mutually exclusive", i, j.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid jobs:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Resolve returns p relative to the manifest directory, or "" for "".
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.dir, p)
}
