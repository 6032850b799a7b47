// Package plan reads YAML edit plans: a list of contracts, each with the
// edits to apply to it in order.
//
//	output_dir: updated_contracts
//	contracts:
//	  - input: Contract 1.docx
//	    edits:
//	      - op: insert_definition
//	        section: Definitions.
//	        heading: Affiliate
//	        body: means any entity that controls ...
//	      - op: renumber
//
// Relative input, output and output_dir paths in a plan file are resolved
// against the directory holding the plan.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownOp is returned for an edit whose op is not recognised.
	ErrUnknownOp = errors.New("plan: unknown op")

	// ErrInvalidEdit is returned for an edit missing a required field.
	ErrInvalidEdit = errors.New("plan: invalid edit")

	// ErrNoContracts is returned for a plan that lists no contracts.
	ErrNoContracts = errors.New("plan: no contracts")
)

// Op names an edit operation.
type Op string

const (
	OpInsertDefinition   Op = "insert_definition"
	OpInsertSentence     Op = "insert_sentence"
	OpInsertClauseAfter  Op = "insert_clause_after"
	OpInsertClauseBefore Op = "insert_clause_before"
	OpRenumber           Op = "renumber"
)

// Ops lists every known op.
var Ops = []Op{OpInsertDefinition, OpInsertSentence, OpInsertClauseAfter, OpInsertClauseBefore, OpRenumber}

// DefaultOutputDir is where outputs go when neither the plan nor the caller
// names a directory.
const DefaultOutputDir = "updated_contracts"

// Edit is one operation against a contract. Which fields matter depends on
// Op; see Validate.
type Edit struct {
	Op Op `yaml:"op"`

	// insert_definition
	Section string `yaml:"section,omitempty"`
	After   string `yaml:"after,omitempty"`

	// insert_clause_after / insert_clause_before
	Anchor string `yaml:"anchor,omitempty"`

	// shared by the inserts
	Heading string `yaml:"heading,omitempty"`
	Body    string `yaml:"body,omitempty"`

	// insert_sentence
	StartsWith string `yaml:"starts_with,omitempty"`
	Sentence   string `yaml:"sentence,omitempty"`
	Index      *int   `yaml:"index,omitempty"`
}

// Position returns the sentence index to insert at; -1 (append) when unset.
func (e Edit) Position() int {
	if e.Index == nil {
		return -1
	}
	return *e.Index
}

// Validate checks that e names a known op and carries its required fields.
func (e Edit) Validate() error {
	var required map[string]string
	switch e.Op {
	case OpInsertDefinition:
		required = map[string]string{"section": e.Section, "heading": e.Heading, "body": e.Body}
	case OpInsertClauseAfter, OpInsertClauseBefore:
		required = map[string]string{"anchor": e.Anchor, "heading": e.Heading, "body": e.Body}
	case OpInsertSentence:
		required = map[string]string{"starts_with": e.StartsWith, "sentence": e.Sentence}
	case OpRenumber:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, e.Op)
	}

	var missing []string
	for _, field := range []string{"section", "anchor", "heading", "body", "starts_with", "sentence"} {
		if v, ok := required[field]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %s", ErrInvalidEdit, e.Op, strings.Join(missing, ", "))
	}
	return nil
}

// Contract is one input document and its edits.
type Contract struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
	Edits  []Edit `yaml:"edits"`
}

// Plan is a parsed edit plan.
type Plan struct {
	OutputDir string     `yaml:"output_dir,omitempty"`
	Contracts []Contract `yaml:"contracts"`

	// dir is the directory relative inputs are resolved against.
	dir string
}

// Parse decodes a plan. Unknown keys are rejected so that a misspelt field
// does not silently drop an edit.
func Parse(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoContracts
		}
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses the plan at path. Relative input paths in the plan
// are resolved against the plan's directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	p, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// Validate checks every contract and edit, reporting the first problem with
// its position.
func (p *Plan) Validate() error {
	if len(p.Contracts) == 0 {
		return ErrNoContracts
	}
	for i, c := range p.Contracts {
		if strings.TrimSpace(c.Input) == "" {
			return fmt.Errorf("contract %d: %w: input is required", i+1, ErrInvalidEdit)
		}
		for j, e := range c.Edits {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("contract %d (%s) edit %d: %w", i+1, c.Input, j+1, err)
			}
		}
	}
	return nil
}

// InputPath returns where to read c from.
func (p *Plan) InputPath(c Contract) string {
	return p.resolve(c.Input)
}

// OutputPath returns where to write c. An explicit output wins; otherwise
// the input's base name under the plan's output_dir, then under fallbackDir,
// then under DefaultOutputDir. Paths taken from the plan are relative to the
// plan file; fallbackDir is used as given.
func (p *Plan) OutputPath(c Contract, fallbackDir string) string {
	if c.Output != "" {
		return p.resolve(c.Output)
	}
	base := filepath.Base(c.Input)
	if p.OutputDir != "" {
		return filepath.Join(p.resolve(p.OutputDir), base)
	}
	if fallbackDir == "" {
		fallbackDir = DefaultOutputDir
	}
	return filepath.Join(fallbackDir, base)
}

// resolve anchors a relative path from the plan at the plan's directory.
func (p *Plan) resolve(path string) string {
	if filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}
