// Package playbook loads the GOAP catalog and HTN domain agents plan with.
//
// A playbook is a YAML document. It is checked against an embedded JSON
// Schema, then every operator and condition name is bound through an
// ai.Library and the HTN domain is validated. All failures happen here,
// during match setup.
package playbook

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/goap"
	"github.com/pthm-cable/rink/htn"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed schema.json
var schemaJSON string

var (
	ErrSchema        = errors.New("playbook does not match schema")
	ErrDuplicateName = errors.New("duplicate name")
	ErrUnknownTask   = errors.New("unknown root task")
	ErrNoGOAP        = errors.New("playbook has no GOAP actions")
)

// Document mirrors the YAML layout.
type Document struct {
	GOAP GOAPSpec `yaml:"goap"`
	HTN  HTNSpec  `yaml:"htn"`
}

type GOAPSpec struct {
	Actions []ActionSpec `yaml:"actions"`
	Goals   []GoalSpec   `yaml:"goals"`
}

type ActionSpec struct {
	Name          string            `yaml:"name"`
	Operator      string            `yaml:"operator"`
	Params        ai.OperatorParams `yaml:"params"`
	Cost          float64           `yaml:"cost"`
	Preconditions map[string]bool   `yaml:"preconditions"`
	Effects       map[string]bool   `yaml:"effects"`
}

type GoalSpec struct {
	Name     string          `yaml:"name"`
	Priority int             `yaml:"priority"`
	Desired  map[string]bool `yaml:"desired"`
}

type HTNSpec struct {
	Primitives []PrimitiveSpec `yaml:"primitives"`
	Compounds  []CompoundSpec  `yaml:"compounds"`
}

type PrimitiveSpec struct {
	Name     string            `yaml:"name"`
	Operator string            `yaml:"operator"`
	Params   ai.OperatorParams `yaml:"params"`
}

type CompoundSpec struct {
	Name    string       `yaml:"name"`
	Methods []MethodSpec `yaml:"methods"`
}

type MethodSpec struct {
	Name     string   `yaml:"name"`
	When     string   `yaml:"when"`
	Subtasks []string `yaml:"subtasks"`
}

// Playbook is a bound, validated playbook.
type Playbook struct {
	Behaviors []ai.Behavior
	Goals     []goap.Goal
	Domain    *htn.Domain[ai.Context, ai.Step]

	lib *ai.Library
}

// Default parses the embedded stock playbook.
func Default(lib *ai.Library) (*Playbook, error) {
	return Parse(defaultYAML, lib)
}

// DefaultYAML returns the embedded stock playbook source.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads a playbook from path. An empty path loads the default.
func Load(path string, lib *ai.Library) (*Playbook, error) {
	if path == "" {
		return Default(lib)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading playbook %s: %w", path, err)
	}
	pb, err := Parse(data, lib)
	if err != nil {
		return nil, fmt.Errorf("playbook %s: %w", path, err)
	}
	return pb, nil
}

// Parse validates and binds a playbook document.
func Parse(data []byte, lib *ai.Library) (*Playbook, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding playbook: %w", err)
	}

	pb := &Playbook{lib: lib}
	if err := pb.bindGOAP(doc.GOAP); err != nil {
		return nil, err
	}
	if err := pb.bindHTN(doc.HTN); err != nil {
		return nil, err
	}
	return pb, nil
}

// validateSchema checks the raw document. YAML is converted to plain JSON
// values first so numbers and maps have the shapes the validator expects.
func validateSchema(data []byte) error {
	schema, err := jsonschema.CompileString("playbook.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling playbook schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding playbook: %w", err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("converting playbook: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("converting playbook: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

func (pb *Playbook) bindGOAP(spec GOAPSpec) error {
	seen := make(map[string]bool, len(spec.Actions))
	for _, as := range spec.Actions {
		if seen[as.Name] {
			return fmt.Errorf("goap action %s: %w", as.Name, ErrDuplicateName)
		}
		seen[as.Name] = true

		step, err := pb.lib.Operator(as.Operator, as.Name, as.Params)
		if err != nil {
			return fmt.Errorf("goap action %s: %w", as.Name, err)
		}
		pb.Behaviors = append(pb.Behaviors, ai.Behavior{
			Action: &goap.Action{
				Name:          as.Name,
				Cost:          as.Cost,
				Preconditions: goap.State(as.Preconditions).Clone(),
				Effects:       goap.State(as.Effects).Clone(),
			},
			Step: step,
		})
	}

	for _, gs := range spec.Goals {
		pb.Goals = append(pb.Goals, goap.Goal{
			Name:     gs.Name,
			Desired:  goap.State(gs.Desired).Clone(),
			Priority: gs.Priority,
		})
	}
	return nil
}

// bindHTN creates every task first so methods can reference tasks declared
// later, including themselves. Cycles are left for Domain.Validate.
func (pb *Playbook) bindHTN(spec HTNSpec) error {
	d := htn.NewDomain[ai.Context, ai.Step]()

	for _, ps := range spec.Primitives {
		step, err := pb.lib.Operator(ps.Operator, ps.Name, ps.Params)
		if err != nil {
			return fmt.Errorf("htn primitive %s: %w", ps.Name, err)
		}
		if err := d.Add(htn.Primitive[ai.Context, ai.Step](ps.Name, step)); err != nil {
			return err
		}
	}

	for _, cs := range spec.Compounds {
		if err := d.Add(htn.Compound[ai.Context, ai.Step](cs.Name)); err != nil {
			return err
		}
	}

	for _, cs := range spec.Compounds {
		task, _ := d.Task(cs.Name)
		for _, ms := range cs.Methods {
			cond, err := pb.lib.Condition(ms.When)
			if err != nil {
				return fmt.Errorf("htn %s method %s: %w", cs.Name, ms.Name, err)
			}
			subtasks := make([]*htn.Task[ai.Context, ai.Step], 0, len(ms.Subtasks))
			for _, name := range ms.Subtasks {
				st, ok := d.Task(name)
				if !ok {
					return fmt.Errorf("htn %s method %s: %w: %s", cs.Name, ms.Name, htn.ErrUndefinedTask, name)
				}
				subtasks = append(subtasks, st)
			}
			task.AddMethod(htn.Method[ai.Context, ai.Step]{
				Name:      ms.Name,
				Condition: cond,
				Subtasks:  subtasks,
			})
		}
	}

	if err := d.Validate(); err != nil {
		return err
	}
	pb.Domain = d
	return nil
}

// Library returns the library the playbook was bound against.
func (pb *Playbook) Library() *ai.Library { return pb.lib }

// PlannerFor builds a planner for strategy. For HTN, task names the root
// task; GOAP ignores it.
func (pb *Playbook) PlannerFor(strategy ai.Strategy, task string) (ai.Planner, error) {
	switch ai.Strategy(strings.ToLower(string(strategy))) {
	case ai.StrategyGOAP:
		if len(pb.Behaviors) == 0 {
			return nil, ErrNoGOAP
		}
		return ai.NewGOAPPlanner(pb.Behaviors, pb.Goals, pb.lib), nil
	case ai.StrategyHTN:
		root, ok := pb.Domain.Task(task)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTask, task)
		}
		return ai.NewHTNPlanner(root), nil
	}
	return nil, fmt.Errorf("unknown planner strategy %q", strategy)
}
