// Package config reads ruleset definition files.
//
// A ruleset file is a YAML document describing one guessing domain:
//
//	title: Birds
//	subject: the animal
//	rules:
//	  bird:
//	    - [flies, lays eggs]
//	    - [has feathers]
//	  penguin:
//	    - [bird, doesn't fly]
//	exclusive:
//	  - [flies, doesn't fly]
//
// Each rules key is a fact proven by any one of its clauses; a clause is
// the list of facts that must all hold. Exclusive lists name facts of
// which at most one can be true at a time.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
)

// Ruleset is the on-disk form of a game definition.
type Ruleset struct {
	Title     string                `yaml:"title,omitempty"`
	Subject   string                `yaml:"subject,omitempty"`
	Rules     map[string][][]string `yaml:"rules"`
	Exclusive [][]string            `yaml:"exclusive,omitempty"`
}

// Load reads and parses a ruleset file.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes a ruleset document.
func Parse(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("%w: ruleset has no rules", internalerr.ErrInvalidConfig)
	}
	return &rs, nil
}

// Compile converts the document into a validated rule set and its
// exclusive groups.
func (rs *Ruleset) Compile() (rules.Rules, rules.Groups, error) {
	r := make(rules.Rules, len(rs.Rules))
	for fact, clauses := range rs.Rules {
		compiled := make([]rules.Clause, 0, len(clauses))
		for _, members := range clauses {
			compiled = append(compiled, rules.NewClause(members...))
		}
		r[fact] = compiled
	}
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}

	groups := make(rules.Groups, 0, len(rs.Exclusive))
	for _, members := range rs.Exclusive {
		groups = append(groups, rules.NewGroup(members...))
	}
	if err := groups.Validate(r); err != nil {
		return nil, nil, err
	}

	return r, groups, nil
}

// LoadDir reads every .yaml/.yml file in dir and returns the rulesets
// keyed by file stem ("birds.yaml" becomes "birds").
func LoadDir(dir string) (map[string]*Ruleset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sets := make(map[string]*Ruleset)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		rs, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sets[strings.TrimSuffix(entry.Name(), ext)] = rs
	}
	return sets, nil
}
