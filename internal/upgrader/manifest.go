package upgrader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/upgrader.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Manifest is the declarative upgrader a kernel may ship as
// <kernelDir>/<kernel>.yaml.
type Manifest struct {
	Kernel       string   `yaml:"kernel,omitempty"`
	Builtin      *bool    `yaml:"builtin,omitempty"`
	MetadataFile string   `yaml:"metadata_file,omitempty"`
	Placeholder  string   `yaml:"placeholder,omitempty"`
	UpgradeFiles []string `yaml:"upgrade_files,omitempty"`
	Hooks        Hooks    `yaml:"hooks,omitempty"`
}

// Hooks are argv lists run after (or instead of) the built-in file handling.
type Hooks struct {
	Create  []string `yaml:"create,omitempty"`
	Upgrade []string `yaml:"upgrade,omitempty"`
}

// For returns the hook command for op.
func (h Hooks) For(op Operation) []string {
	switch op {
	case OperationCreate:
		return h.Create
	case OperationUpgrade:
		return h.Upgrade
	default:
		return nil
	}
}

// UsesBuiltin reports whether the built-in file handling runs before hooks.
func (m *Manifest) UsesBuiltin() bool {
	return m.Builtin == nil || *m.Builtin
}

// Layout applies the manifest's overrides to base.
func (m *Manifest) Layout(base Layout) Layout {
	return base.Merge(Layout{
		ManagedFiles: m.UpgradeFiles,
		MetadataFile: m.MetadataFile,
		Placeholder:  m.Placeholder,
	})
}

// ManifestPath returns where kernel id's upgrader manifest lives.
func ManifestPath(kernelDir, kernelID string) string {
	return filepath.Join(kernelDir, kernelID+".yaml")
}

// ManifestError lists the schema violations of a manifest.
type ManifestError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *ManifestError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(parts, "; "))
}

func (e *ManifestError) Unwrap() error {
	return ErrInvalidManifest
}

// ValidationIssue is a single schema violation.
type ValidationIssue struct {
	Path    string // Instance location, e.g. "/hooks/create"
	Message string
	Keyword string
}

// LoadManifest reads, validates and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		var me *ManifestError
		if errors.As(err, &me) {
			me.Path = path
			return nil, me
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest validates data against the upgrader schema and decodes it.
func ParseManifest(data []byte) (*Manifest, error) {
	issues, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &ManifestError{Path: "manifest", Issues: issues}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// Validate checks raw YAML against the upgrader schema. The error return is
// for parse or schema compilation failures; violations come back as issues.
func Validate(data []byte) ([]ValidationIssue, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return extractIssues(validationErr), nil
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("upgrader.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("upgrader.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// extractIssues flattens the error tree to its leaves, dropping container
// keywords that carry no detail of their own.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}

	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
			keyword = kwPath[len(kwPath)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	switch keyword {
	case "", "allOf", "$ref", "if", "then":
		return
	}

	*issues = append(*issues, ValidationIssue{
		Path:    path,
		Message: msg,
		Keyword: keyword,
	})
}
