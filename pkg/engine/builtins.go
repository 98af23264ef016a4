package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
	"github.com/birktj/cad-kernel-experiments/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms sketch Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: region-name -> region_name
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
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

// sexpPoint wraps a geometry.Point.
type sexpPoint struct {
	p geometry.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpLine wraps a geometry.Line.
type sexpLine struct {
	l geometry.Line
}

func (l *sexpLine) SexpString(ps *zygo.PrintState) string {
	return l.l.String()
}
func (l *sexpLine) Type() *zygo.RegisteredType { return nil }

// sexpEdge wraps a brep.Edge whose indices refer to the :lines list of the
// enclosing region.
type sexpEdge struct {
	e brep.Edge
}

func (e *sexpEdge) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(edge %d %d %d)", e.e.Line, e.e.X1, e.e.X2)
}
func (e *sexpEdge) Type() *zygo.RegisteredType { return nil }

// sexpBoundary holds the corners of a closed boundary until a region
// consumes it.
type sexpBoundary struct {
	corners []geometry.Point
}

func (b *sexpBoundary) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(boundary <%d corners>)", len(b.corners))
}
func (b *sexpBoundary) Type() *zygo.RegisteredType { return nil }

// sexpRegionRef names a region so probes and cuts can refer to it.
type sexpRegionRef struct {
	name string
}

func (r *sexpRegionRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(region %q)", r.name)
}
func (r *sexpRegionRef) Type() *zygo.RegisteredType { return nil }

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
// Keywords are identified by the __kw_ prefix added during preprocessing.
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
				// Keyword at end with no value: treat as flag with nil.
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

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a Point from a sexpPoint.
func toPoint(s zygo.Sexp) (geometry.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geometry.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toLine extracts a Line from a sexpLine.
func toLine(s zygo.Sexp) (geometry.Line, error) {
	if l, ok := s.(*sexpLine); ok {
		return l.l, nil
	}
	return geometry.Line{}, fmt.Errorf("expected line, got %T (%s)", s, s.SexpString(nil))
}

// toIndex extracts a non-negative integer.
func toIndex(s zygo.Sexp) (int, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val < 0 {
		return 0, fmt.Errorf("index %d is negative", v.Val)
	}
	return int(v.Val), nil
}

// toRegionName accepts a region reference or a plain string.
func toRegionName(s zygo.Sexp) (string, error) {
	if r, ok := s.(*sexpRegionRef); ok {
		return r.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected region or name: %w", err)
	}
	return name, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all sketch DSL builtins into a zygomys environment.
// The builtins operate on the provided Sketch, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *sketch.Sketch) {

	// -----------------------------------------------------------------------
	// (point 3 4)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("point requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
		}
		return &sexpPoint{p: geometry.Pt(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (line (point 0 0) (point 1 0))
	// (line :through (point 0 5) :dir (point 1 0))
	// (line :through (point 0 5) :normal (point 0 -1))
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) == 2 {
			p0, err := toPoint(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: from: %w", err)
			}
			p1, err := toPoint(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: to: %w", err)
			}
			if p0 == p1 {
				return zygo.SexpNull, fmt.Errorf("line: points coincide")
			}
			return &sexpLine{l: geometry.FromTwoPoints(p0, p1)}, nil
		}
		if len(pa.positional) != 0 {
			return zygo.SexpNull, fmt.Errorf("line requires two points or :through, got %d positional arguments", len(pa.positional))
		}

		v, ok := pa.kw["through"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("line: missing :through")
		}
		through, err := toPoint(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: through: %w", err)
		}

		dir, hasDir := pa.kw["dir"]
		normal, hasNormal := pa.kw["normal"]
		switch {
		case hasDir && hasNormal:
			return zygo.SexpNull, fmt.Errorf("line: :dir and :normal are exclusive")
		case hasDir:
			d, err := toPoint(dir)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: dir: %w", err)
			}
			if d.Length() == 0 {
				return zygo.SexpNull, fmt.Errorf("line: dir is zero")
			}
			return &sexpLine{l: geometry.FromPointDir(through, d)}, nil
		case hasNormal:
			n, err := toPoint(normal)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: normal: %w", err)
			}
			if n.Length() == 0 {
				return zygo.SexpNull, fmt.Errorf("line: normal is zero")
			}
			return &sexpLine{l: geometry.FromPointNormal(through, n)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("line: missing :dir or :normal")
	})

	// -----------------------------------------------------------------------
	// (hline 5) is the line y = 5 directed along +x.
	// (vline 5) is the line x = 5 directed along +y.
	// -----------------------------------------------------------------------
	axisLine := func(fn string, origin func(float64) geometry.Point, dir geometry.Point) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", fn, len(args))
			}
			v, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			return &sexpLine{l: geometry.FromPointDir(origin(v), dir)}, nil
		}
	}
	env.AddFunction("hline", axisLine("hline", func(y float64) geometry.Point { return geometry.Pt(0, y) }, geometry.Pt(1, 0)))
	env.AddFunction("vline", axisLine("vline", func(x float64) geometry.Point { return geometry.Pt(x, 0) }, geometry.Pt(0, 1)))

	// -----------------------------------------------------------------------
	// (edge 0 3 1)
	// -----------------------------------------------------------------------
	env.AddFunction("edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("edge requires exactly 3 arguments, got %d", len(args))
		}
		var idx [3]int
		for i, label := range []string{"line", "x1", "x2"} {
			n, err := toIndex(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("edge: %s: %w", label, err)
			}
			idx[i] = n
		}
		return &sexpEdge{e: brep.Edge{Line: idx[0], X1: idx[1], X2: idx[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (boundary (point 0 0) (point 0 10) (point 10 10) (point 10 0))
	// -----------------------------------------------------------------------
	env.AddFunction("boundary", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("boundary requires at least 3 points, got %d", len(args))
		}
		b := &sexpBoundary{corners: make([]geometry.Point, 0, len(args))}
		for i, a := range args {
			p, err := toPoint(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("boundary: corner %d: %w", i, err)
			}
			b.corners = append(b.corners, p)
		}
		return b, nil
	})

	// -----------------------------------------------------------------------
	// (region "plate" :lines (list ...) :edges (list ...) (boundary ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("region requires a name argument")
		}
		regionName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region: name: %w", err)
		}

		def := &sketch.RegionDef{Name: regionName}

		if v, ok := pa.kw["lines"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("region: lines: %w", err)
			}
			for i, item := range items {
				l, err := toLine(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("region: lines[%d]: %w", i, err)
				}
				def.Lines = append(def.Lines, l)
			}
		}
		if v, ok := pa.kw["edges"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("region: edges: %w", err)
			}
			for i, item := range items {
				e, ok := item.(*sexpEdge)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("region: edges[%d]: expected edge, got %T (%s)",
						i, item, item.SexpString(nil))
				}
				def.Edges = append(def.Edges, e.e)
			}
		}

		for i, arg := range pa.positional[1:] {
			b, ok := arg.(*sexpBoundary)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("region: child %d: expected boundary, got %T (%s)",
					i+1, arg, arg.SexpString(nil))
			}
			def.AddBoundary(b.corners...)
		}

		s.AddRegion(def)
		return &sexpRegionRef{name: regionName}, nil
	})

	// -----------------------------------------------------------------------
	// (probe "plate" (point 1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("probe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("probe requires a region and a point, got %d arguments", len(args))
		}
		region, err := toRegionName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("probe: %w", err)
		}
		p, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("probe: %w", err)
		}
		s.AddProbe(region, p)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (cut "plate" (hline 5))
	// -----------------------------------------------------------------------
	env.AddFunction("cut", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cut requires a region and a line, got %d arguments", len(args))
		}
		region, err := toRegionName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		l, err := toLine(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		s.AddCut(region, l)
		return zygo.SexpNull, nil
	})
}
