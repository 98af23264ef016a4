package sketch

import (
	"fmt"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
)

// ValidationSeverity indicates whether a validation finding blocks building
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks Build
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Region   string             // which region has the problem (empty if sketch-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Region == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] region %q: %s", e.Severity, e.Region, e.Message)
}

// HasErrors reports whether any finding has SeverityError.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks names and query references, then validates every region
// geometrically. It never mutates the sketch.
func Validate(s *Sketch) []ValidationError {
	var findings []ValidationError
	findings = append(findings, validateNames(s)...)
	findings = append(findings, validateReferences(s)...)
	findings = append(findings, validateRegions(s)...)
	return findings
}

func validateNames(s *Sketch) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, d := range s.Regions {
		if d.Name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("region %d has no name", i),
				Severity: SeverityError,
			})
			continue
		}
		if seen[d.Name] {
			errs = append(errs, ValidationError{
				Region:   d.Name,
				Message:  "duplicate region name",
				Severity: SeverityError,
			})
		}
		seen[d.Name] = true
	}
	return errs
}

func validateReferences(s *Sketch) []ValidationError {
	var errs []ValidationError
	for i, p := range s.Probes {
		if s.Lookup(p.Region) == nil {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("probe %d references unknown region %q", i, p.Region),
				Severity: SeverityError,
			})
		}
	}
	for i, c := range s.Cuts {
		if s.Lookup(c.Region) == nil {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("cut %d references unknown region %q", i, c.Region),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateRegions(s *Sketch) []ValidationError {
	var findings []ValidationError
	for _, d := range s.Regions {
		if _, err := brep.New(d.Lines, d.Edges); err != nil {
			findings = append(findings, ValidationError{
				Region:   d.Name,
				Message:  err.Error(),
				Severity: SeverityError,
			})
			continue
		}

		if len(d.Edges) == 0 {
			findings = append(findings, ValidationError{
				Region:   d.Name,
				Message:  "region has no edges",
				Severity: SeverityWarning,
			})
		}

		used := make([]bool, len(d.Lines))
		for _, e := range d.Edges {
			used[e.Line] = true
		}
		for i, u := range used {
			if !u {
				findings = append(findings, ValidationError{
					Region:   d.Name,
					Message:  fmt.Sprintf("line %d is not used by any edge", i),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return findings
}
