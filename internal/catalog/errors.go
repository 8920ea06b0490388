package catalog

import "fmt"

// UnknownDomainError indicates a domain that is not in the catalog.
type UnknownDomainError struct {
	Domain string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("unknown domain: %s", e.Domain)
}

// UnknownStepError indicates a step id that is not part of the domain's roadmap.
type UnknownStepError struct {
	Domain string
	StepID string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step %q in domain %s", e.StepID, e.Domain)
}

// InvalidCatalogError indicates a catalog definition that violates a structural rule.
type InvalidCatalogError struct {
	Reason string
}

func (e *InvalidCatalogError) Error() string {
	return "invalid catalog: " + e.Reason
}
