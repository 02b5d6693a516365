package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// bareIntegerVersion matches a lone build number, as the loader's catalog
// reports its minimum game version (e.g. "109000") rather than a proper
// semver triple.
var bareIntegerVersion = regexp.MustCompile(`^[0-9]+$`)

// IsValid reports whether v parses as a semver version.
func IsValid(v string) bool {
	_, err := semver.StrictNewVersion(v)
	return err == nil
}

// Coerce tolerantly parses s into a canonical semver string. A bare integer
// such as "109000" is coerced to "109000.0.0"; anything already valid is
// returned as-is. The second return value is false if s could not be
// coerced at all.
func Coerce(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if IsValid(s) {
		return s, true
	}
	if bareIntegerVersion.MatchString(s) {
		return s + ".0.0", true
	}
	return "", false
}

// Satisfies reports whether v (a semver version) satisfies c (a semver
// range constraint such as "^1.2.0" or ">=1.0.0 <2.0.0").
func Satisfies(v, c string) (bool, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false, fmt.Errorf("resolver: invalid version %q: %w", v, err)
	}
	cs, err := semver.NewConstraint(c)
	if err != nil {
		return false, fmt.Errorf("resolver: invalid constraint %q: %w", c, err)
	}
	return cs.Check(sv), nil
}

// SatisfiesAll reports whether v satisfies every constraint in cs. An empty
// cs is trivially satisfied.
func SatisfiesAll(v string, cs []string) (bool, error) {
	for _, c := range cs {
		ok, err := Satisfies(v, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Compare returns -1, 0, or 1 as a < b, a == b, or a > b, in semver
// precedence order.
func Compare(a, b string) (int, error) {
	av, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("resolver: invalid version %q: %w", a, err)
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("resolver: invalid version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// sortVersionsAscending sorts vs (assumed valid semver strings) ascending by
// semver precedence. Invalid entries sort last, stably, rather than
// panicking - callers only feed catalog-reported versions here, but the
// catalog is an external collaborator and its data is treated as
// potentially stale, never trusted blindly.
func sortVersionsAscending(vs []string) []string {
	out := make([]string, len(vs))
	copy(out, vs)

	// insertion sort: catalog result sets are small (one item's published
	// versions), and this keeps the comparator's error handling simple.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && versionAfter(out[j-1], out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// versionAfter reports whether a sorts after b: by semver precedence when
// both parse, with an unparseable version sorting after any valid one.
func versionAfter(a, b string) bool {
	av, aerr := semver.NewVersion(a)
	bv, berr := semver.NewVersion(b)
	switch {
	case aerr != nil:
		return berr == nil
	case berr != nil:
		return false
	default:
		return av.Compare(bv) > 0
	}
}
