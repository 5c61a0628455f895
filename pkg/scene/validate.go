package scene

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a finding makes the scene invalid
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // scene is inconsistent
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
	PieceID  string             // which piece has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.PieceID == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] piece %s: %s", e.Severity, e.PieceID, e.Message)
}

// ValidationResult bundles errors and warnings from every tier.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether the scene has no errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// gridTol is how far a horizontal coordinate may sit from the half-stud
// grid before it is reported.
const gridTol = 1e-3

// Validate checks the scene in three tiers: structural (types and
// orientations), geometric (overlaps and grid alignment) and support
// (pieces with no path to the ground). It never mutates the scene.
func (s *Scene) Validate() ValidationResult {
	var res ValidationResult
	for _, f := range s.validateStructure() {
		res.add(f)
	}
	for _, f := range s.validateGeometry() {
		res.add(f)
	}
	for _, f := range s.validateSupport() {
		res.add(f)
	}
	return res
}

func (r *ValidationResult) add(f ValidationError) {
	if f.Severity == SeverityError {
		r.Errors = append(r.Errors, f)
	} else {
		r.Warnings = append(r.Warnings, f)
	}
}

func (s *Scene) validateStructure() []ValidationError {
	var out []ValidationError
	for _, pc := range s.Pieces() {
		if _, ok := s.cat.Get(pc.TypeID); !ok {
			out = append(out, ValidationError{
				PieceID:  pc.ID,
				Message:  fmt.Sprintf("unknown piece type %q", pc.TypeID),
				Severity: SeverityError,
			})
		}
		if !pc.Orientation.Valid() {
			out = append(out, ValidationError{
				PieceID:  pc.ID,
				Message:  fmt.Sprintf("invalid orientation %d", int(pc.Orientation)),
				Severity: SeverityError,
			})
		}
	}
	return out
}

func (s *Scene) validateGeometry() []ValidationError {
	var out []ValidationError
	pieces := s.Pieces()
	for i, a := range pieces {
		ab, ok := s.proj.Bounds(a)
		if !ok {
			continue
		}
		if offGrid(a.Position.X) || offGrid(a.Position.Z) {
			out = append(out, ValidationError{
				PieceID:  a.ID,
				Message:  fmt.Sprintf("position %s is off the stud grid", a.Position),
				Severity: SeverityWarning,
			})
		}
		for _, b := range pieces[i+1:] {
			bb, ok := s.proj.Bounds(b)
			if ok && ab.Overlaps(bb, overlapEps) {
				out = append(out, ValidationError{
					PieceID:  a.ID,
					Message:  fmt.Sprintf("overlaps piece %s", b.ID),
					Severity: SeverityError,
				})
			}
		}
	}
	return out
}

// offGrid reports whether v is not a multiple of half a stud.
func offGrid(v float64) bool {
	h := v * 2
	return math.Abs(h-math.Round(h)) > gridTol
}

func (s *Scene) validateSupport() []ValidationError {
	var out []ValidationError
	for _, id := range s.Floating() {
		out = append(out, ValidationError{
			PieceID:  id,
			Message:  "no path to the ground",
			Severity: SeverityWarning,
		})
	}
	return out
}
