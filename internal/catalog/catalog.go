// Package catalog holds the static roadmap catalog: the ordered steps of every
// learning domain and the scoring policy applied to their assessments.
package catalog

import (
	"fmt"
	"slices"
)

// Step is one entry of a domain roadmap. Steps are ordered within their domain
// and the order defines the gating sequence.
type Step struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	MaxScore    int    `json:"max_score" yaml:"max_score"`
}

// Domain is a named, ordered roadmap.
type Domain struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Policy holds the score bounds and pass thresholds for step and final assessments.
type Policy struct {
	StepMaxScore   int `json:"step_max_score" yaml:"step_max_score"`
	StepPassScore  int `json:"step_pass_score" yaml:"step_pass_score"`
	FinalMaxScore  int `json:"final_max_score" yaml:"final_max_score"`
	FinalPassScore int `json:"final_pass_score" yaml:"final_pass_score"`
}

// DefaultPolicy returns the standard policy: steps are scored out of 20 and pass
// at 12, the final assessment is scored out of 100 and passes at 60.
func DefaultPolicy() Policy {
	return Policy{
		StepMaxScore:   20,
		StepPassScore:  12,
		FinalMaxScore:  100,
		FinalPassScore: 60,
	}
}

// StepScoreInRange reports whether score is a valid step assessment score.
func (p Policy) StepScoreInRange(score int) bool {
	return score >= 0 && score <= p.StepMaxScore
}

// FinalScoreInRange reports whether score is a valid final assessment score.
func (p Policy) FinalScoreInRange(score int) bool {
	return score >= 0 && score <= p.FinalMaxScore
}

// StepPassed reports whether a step score meets the pass threshold.
func (p Policy) StepPassed(score int) bool {
	return score >= p.StepPassScore
}

// FinalPassed reports whether a final score meets the pass threshold.
func (p Policy) FinalPassed(score int) bool {
	return score >= p.FinalPassScore
}

func (p Policy) validate() error {
	if p.StepMaxScore < 1 {
		return &InvalidCatalogError{Reason: fmt.Sprintf("step max score must be positive, got %d", p.StepMaxScore)}
	}
	if p.StepPassScore < 1 || p.StepPassScore > p.StepMaxScore {
		return &InvalidCatalogError{Reason: fmt.Sprintf("step pass score %d outside 1..%d", p.StepPassScore, p.StepMaxScore)}
	}
	if p.FinalMaxScore < 1 {
		return &InvalidCatalogError{Reason: fmt.Sprintf("final max score must be positive, got %d", p.FinalMaxScore)}
	}
	if p.FinalPassScore < 1 || p.FinalPassScore > p.FinalMaxScore {
		return &InvalidCatalogError{Reason: fmt.Sprintf("final pass score %d outside 1..%d", p.FinalPassScore, p.FinalMaxScore)}
	}
	return nil
}

// Catalog is an immutable lookup table of domains. It is safe for concurrent use.
type Catalog struct {
	domains   []Domain
	byName    map[string]int
	stepIndex map[string]map[string]int
	policy    Policy
}

// New builds a catalog from the given domains and policy. The input is copied;
// later changes to it do not affect the catalog. Steps with a zero MaxScore take
// the policy's step max score.
func New(domains []Domain, policy Policy) (*Catalog, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, &InvalidCatalogError{Reason: "catalog has no domains"}
	}

	c := &Catalog{
		domains:   make([]Domain, 0, len(domains)),
		byName:    make(map[string]int, len(domains)),
		stepIndex: make(map[string]map[string]int, len(domains)),
		policy:    policy,
	}

	for _, d := range domains {
		if d.Name == "" {
			return nil, &InvalidCatalogError{Reason: "domain name is empty"}
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, &InvalidCatalogError{Reason: fmt.Sprintf("duplicate domain %q", d.Name)}
		}
		if len(d.Steps) == 0 {
			return nil, &InvalidCatalogError{Reason: fmt.Sprintf("domain %q has no steps", d.Name)}
		}

		steps := make([]Step, len(d.Steps))
		index := make(map[string]int, len(d.Steps))
		for i, s := range d.Steps {
			if s.ID == "" {
				return nil, &InvalidCatalogError{Reason: fmt.Sprintf("domain %q step %d has no id", d.Name, i)}
			}
			if _, dup := index[s.ID]; dup {
				return nil, &InvalidCatalogError{Reason: fmt.Sprintf("domain %q has duplicate step %q", d.Name, s.ID)}
			}
			if s.MaxScore == 0 {
				s.MaxScore = policy.StepMaxScore
			}
			if s.MaxScore != policy.StepMaxScore {
				return nil, &InvalidCatalogError{
					Reason: fmt.Sprintf("domain %q step %q max score %d does not match policy %d", d.Name, s.ID, s.MaxScore, policy.StepMaxScore),
				}
			}
			steps[i] = s
			index[s.ID] = i
		}

		c.byName[d.Name] = len(c.domains)
		c.stepIndex[d.Name] = index
		c.domains = append(c.domains, Domain{Name: d.Name, Steps: steps})
	}

	return c, nil
}

// MustNew is like New but panics on an invalid catalog. Intended for
// package-level built-in catalogs and tests.
func MustNew(domains []Domain, policy Policy) *Catalog {
	c, err := New(domains, policy)
	if err != nil {
		panic(err)
	}
	return c
}

// Policy returns the catalog's scoring policy.
func (c *Catalog) Policy() Policy {
	return c.policy
}

// Domains returns the domain names in catalog order.
func (c *Catalog) Domains() []string {
	names := make([]string, len(c.domains))
	for i, d := range c.domains {
		names[i] = d.Name
	}
	return names
}

// HasDomain reports whether the catalog contains the named domain.
func (c *Catalog) HasDomain(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// StepsFor returns a copy of the ordered steps of a domain.
func (c *Catalog) StepsFor(domain string) ([]Step, error) {
	i, ok := c.byName[domain]
	if !ok {
		return nil, &UnknownDomainError{Domain: domain}
	}
	return slices.Clone(c.domains[i].Steps), nil
}

// StepIDs returns the ordered step ids of a domain.
func (c *Catalog) StepIDs(domain string) ([]string, error) {
	i, ok := c.byName[domain]
	if !ok {
		return nil, &UnknownDomainError{Domain: domain}
	}
	ids := make([]string, len(c.domains[i].Steps))
	for j, s := range c.domains[i].Steps {
		ids[j] = s.ID
	}
	return ids, nil
}

// StepIndex resolves the position of a step within its domain.
func (c *Catalog) StepIndex(domain, stepID string) (int, error) {
	index, ok := c.stepIndex[domain]
	if !ok {
		return -1, &UnknownDomainError{Domain: domain}
	}
	i, ok := index[stepID]
	if !ok {
		return -1, &UnknownStepError{Domain: domain, StepID: stepID}
	}
	return i, nil
}
