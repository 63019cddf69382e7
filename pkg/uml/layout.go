package uml

import (
	"strings"

	"github.com/protouml/protouml/pkg/schema"
)

// LayoutConfig holds the tuning constants for the package-wrap heuristic.
// The thresholds are organizational taste, not semantics; they are exposed
// here (and through the config file) so they can change without touching
// generation logic.
type LayoutConfig struct {
	// MeaningfulSuffixes are trailing path segments that mark a package
	// path as organizationally meaningful (forces a wrapper).
	MeaningfulSuffixes []string

	// WrapMinSegments..WrapMaxSegments is the path length range that
	// wraps by itself.
	WrapMinSegments int
	WrapMaxSegments int

	// ShortPathSegments and below never wrap (unless a meaningful
	// suffix forces it); above DeepPathSegments never wraps either.
	ShortPathSegments int
	DeepPathSegments  int

	// SuffixDisplaySegments is how many trailing segments to show for
	// long paths ending in a meaningful suffix; AbbrevTailSegments is
	// the tail length of the "first...last" abbreviation for very
	// deep paths.
	SuffixDisplaySegments int
	AbbrevTailSegments    int
}

// DefaultLayoutConfig returns the stock heuristic thresholds.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MeaningfulSuffixes: []string{
			"api", "service", "event", "model", "dto",
			"proto", "message", "client", "server",
		},
		WrapMinSegments:       3,
		WrapMaxSegments:       6,
		ShortPathSegments:     2,
		DeepPathSegments:      8,
		SuffixDisplaySegments: 4,
		AbbrevTailSegments:    3,
	}
}

// LayoutDecision is the computed package-wrap choice for one diagram.
type LayoutDecision struct {
	Wrap  bool
	Title string
}

// AnalyzePackage decides whether wrapping the diagram in a named grouping
// adds organizational value, and what display name to use.
//
// A wrapper is chosen when content spreads over more than one namespace
// level, when the path ends in a meaningful suffix, or when the path is of
// comfortable mid-range length. Trivially short paths never wrap; very deep
// paths only wrap when a meaningful suffix forces it, and get abbreviated
// display names.
func AnalyzePackage(root *schema.Namespace, pkg string, cfg LayoutConfig) LayoutDecision {
	if pkg == "" || root == nil {
		return LayoutDecision{}
	}

	segments := strings.Split(pkg, ".")
	n := len(segments)

	meaningful := false
	last := segments[n-1]
	for _, s := range cfg.MeaningfulSuffixes {
		if strings.EqualFold(last, s) {
			meaningful = true
			break
		}
	}

	levels := contentLevels(root, segments)

	wrap := levels > 1 || meaningful || (n >= cfg.WrapMinSegments && n <= cfg.WrapMaxSegments)
	if (n <= cfg.ShortPathSegments || n > cfg.DeepPathSegments) && !meaningful {
		wrap = false
	}
	if !wrap {
		return LayoutDecision{}
	}

	return LayoutDecision{Wrap: true, Title: displayName(segments, meaningful, cfg)}
}

// contentLevels counts how many namespace levels along the package path
// directly contain at least one message, enum, or service.
func contentLevels(root *schema.Namespace, segments []string) int {
	levels := 0
	cur := root
	for depth := 0; cur != nil; depth++ {
		if hasDirectContent(cur) {
			levels++
		}
		var next *schema.Namespace
		if depth+1 < len(segments) {
			for _, child := range cur.Children {
				if ns, ok := child.(*schema.Namespace); ok && ns.Name == segments[depth+1] {
					next = ns
					break
				}
			}
		}
		cur = next
	}
	return levels
}

func hasDirectContent(ns *schema.Namespace) bool {
	for _, child := range ns.Children {
		switch child.(type) {
		case *schema.Message, *schema.Enum, *schema.Service:
			return true
		}
	}
	return false
}

// displayName picks the wrapper title: mid-size paths in full, long paths
// ending in a meaningful suffix by their tail, very deep paths abbreviated
// as "first...last.three.segments".
func displayName(segments []string, meaningful bool, cfg LayoutConfig) string {
	n := len(segments)
	switch {
	case n <= cfg.WrapMaxSegments:
		return strings.Join(segments, ".")
	case meaningful:
		return strings.Join(segments[n-cfg.SuffixDisplaySegments:], ".")
	case n > cfg.DeepPathSegments:
		tail := strings.Join(segments[n-cfg.AbbrevTailSegments:], ".")
		return segments[0] + "..." + tail
	default:
		return strings.Join(segments, ".")
	}
}
