package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/orient"
	"github.com/chazu/brickwork/pkg/piece"
	"github.com/chazu/brickwork/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites build scripts before passing them to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: nearest-stud -> nearest_stud
//     zygomys reads a hyphen inside an identifier as subtraction, so
//     kebab-case identifiers become underscore form outside of strings
//     and comments.
//
//  3. ; line comments become // comments.
//
// All three respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPiece refers to a placed piece so later calls can remove it or
// stack on it.
type sexpPiece struct {
	id     string
	typeID string
}

func (p *sexpPiece) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(piece %q %q)", p.typeID, p.id)
}
func (p *sexpPiece) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value is a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number. Floats must have no fractional part.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected whole number, got %g", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_up) and plain strings ("up").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// orientAliases lets scripts write :pos-x where a keyword cannot start
// with a sign.
var orientAliases = map[string]orient.Orientation{
	"pos-x": orient.PosX,
	"neg-x": orient.NegX,
	"pos-z": orient.PosZ,
	"neg-z": orient.NegZ,
}

// toOrientation converts a keyword or string to an orientation.
func toOrientation(s zygo.Sexp) (orient.Orientation, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return orient.Up, fmt.Errorf("expected orientation keyword: %w", err)
	}
	if o, ok := orientAliases[name]; ok {
		return o, nil
	}
	return orient.Parse(name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPieceID accepts a piece reference or a piece id string.
func toPieceID(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpPiece:
		return v.id, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected piece reference, got %T (%s)", s, s.SexpString(nil))
}

// wrap maps i onto 0..n-1, counting negative indices from the end.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// faceY is the local height of the bottom or top connection plane.
func faceY(pc piece.Placed, sc *scene.Scene, top bool) float64 {
	pt, _ := sc.Catalog().Get(pc.TypeID)
	if top {
		return pt.Height() / 2
	}
	return -pt.Height() / 2
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the build DSL into a zygomys environment. The
// builtins edit sc as the script runs, so placement rules (known type, no
// overlap, unique id) are enforced call by call.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: geom.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (piece "brick-2x4" :at (vec3 0 0.6 0) :orient :up :rot 1
	//        :color "#c0392b" :id "base")
	//
	// :on places the piece so the center of its bottom face sits on the
	// given point. Without :at or :on the piece rests on the ground at the
	// origin.
	// -----------------------------------------------------------------------
	env.AddFunction("piece", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("piece requires a type id as first argument")
		}
		typeID, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("piece: type: %w", err)
		}
		pt, ok := sc.Catalog().Get(typeID)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("piece: unknown piece type %q", typeID)
		}

		p := scene.Placement{TypeID: typeID}
		if v, ok := pa.kw["orient"]; ok {
			o, err := toOrientation(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece: orient: %w", err)
			}
			p.Orientation = o
		}
		if v, ok := pa.kw["rot"]; ok {
			r, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece: rot: %w", err)
			}
			p.Rotation = r
		}
		if v, ok := pa.kw["color"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece: color: %w", err)
			}
			p.Color = c
		}
		if v, ok := pa.kw["id"]; ok {
			id, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece: id: %w", err)
			}
			p.ID = id
		}

		at, hasAt := pa.kw["at"]
		on, hasOn := pa.kw["on"]
		lift := p.Orientation.UpVector().Scale(pt.Height() / 2)
		switch {
		case hasAt && hasOn:
			return zygo.SexpNull, fmt.Errorf("piece: :at and :on are mutually exclusive")
		case hasAt:
			v, err := toVec3(at)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece: at: %w", err)
			}
			p.Position = v
		case hasOn:
			v, err := toVec3(on)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece: on: %w", err)
			}
			p.Position = v.Add(lift)
		default:
			p.Position = lift
		}

		placed, err := sc.Place(p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("piece: %w", err)
		}
		return &sexpPiece{id: placed.ID, typeID: placed.TypeID}, nil
	})

	// -----------------------------------------------------------------------
	// (remove ref) removes a piece and everything that loses support with
	// it, returning the number of pieces removed.
	// -----------------------------------------------------------------------
	env.AddFunction("remove", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("remove requires exactly 1 argument, got %d", len(args))
		}
		id, err := toPieceID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove: %w", err)
		}
		gone := sc.Remove(id)
		if len(gone) == 0 {
			return zygo.SexpNull, fmt.Errorf("remove: no piece %q", id)
		}
		return &zygo.SexpInt{Val: int64(len(gone))}, nil
	})

	// -----------------------------------------------------------------------
	// (stud ref 3) returns the world position of a top stud. The index
	// wraps, so -1 is the last stud.
	// -----------------------------------------------------------------------
	env.AddFunction("stud", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 || len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("stud requires a piece and an optional index")
		}
		id, err := toPieceID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stud: %w", err)
		}
		idx := 0
		if len(args) == 2 {
			if idx, err = toInt(args[1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("stud: index: %w", err)
			}
		}
		var top []geom.Vec3
		for _, s := range sc.Studs(id) {
			if s.Kind == connector.TopStud {
				top = append(top, s.Position)
			}
		}
		if len(top) == 0 {
			return zygo.SexpNull, fmt.Errorf("stud: piece %q has no top studs", id)
		}
		return &sexpVec3{vec: top[wrap(idx, len(top))]}, nil
	})

	// -----------------------------------------------------------------------
	// (point ref 5) walks the connection point cycle of a piece: bottom
	// points first, then top points, with wraparound.
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("point requires a piece and an index")
		}
		id, err := toPieceID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		idx, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: index: %w", err)
		}
		pc, ok := sc.Get(id)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("point: no piece %q", id)
		}
		p, ok := sc.Projector().Resolver().Cycle(pc.TypeID).At(idx)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("point: piece %q has no connection points", id)
		}
		local := geom.Vec3{X: p.X, Y: faceY(pc, sc, p.Plane == connector.Top), Z: p.Z}
		return &sexpVec3{vec: pc.ToWorld(local)}, nil
	})
}
