// Package suffix converts metabolite identifiers between compartment-suffix
// conventions.  Source systems disagree on how a compartment tag is attached
// to a metabolite identifier: BiGG-style identifiers end in a bracketed code
// ("glc_D[c]") while ModelSEED-style identifiers end in an underscore code
// ("glc_D_c").  Translation is pure and invertible for the supported pairs.
package suffix

import (
	"fmt"
	"regexp"

	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Convention identifies a compartment-suffix scheme.
type Convention string

const (
	// ConventionBiGG is the trailing bracket scheme, e.g. "glc_D[c]".
	ConventionBiGG Convention = "bigg"
	// ConventionModelSEED is the trailing underscore scheme, e.g. "glc_D_c".
	ConventionModelSEED Convention = "modelseed"
	// ConventionUnknown is returned by Detect when no scheme matches.
	ConventionUnknown Convention = "unknown"
)

// Compartment codes observed across BiGG models.  The same set is accepted
// for the underscore scheme so that every supported identifier round-trips.
var (
	biggSuffixRe      = regexp.MustCompile(`\[([cefghilmnpsruvx])\]$`)
	modelseedSuffixRe = regexp.MustCompile(`_([cefghilmnpsruvx])$`)
)

// Detect reports the suffix convention used by id, or ConventionUnknown when
// id matches no known pattern.
func Detect(id string) Convention {
	if biggSuffixRe.MatchString(id) {
		return ConventionBiGG
	}
	if modelseedSuffixRe.MatchString(id) {
		return ConventionModelSEED
	}
	return ConventionUnknown
}

// Split separates id into its base identifier and compartment code under the
// detected convention.  ok is false when no convention matches, in which case
// base is the unmodified input and compartment is empty.
func Split(id string) (base, compartment string, ok bool) {
	if m := biggSuffixRe.FindStringSubmatch(id); m != nil {
		return id[:len(id)-len(m[0])], m[1], true
	}
	if m := modelseedSuffixRe.FindStringSubmatch(id); m != nil {
		return id[:len(id)-len(m[0])], m[1], true
	}
	return id, "", false
}

// Join attaches compartment to base under the given convention.
func Join(base, compartment string, to Convention) (string, error) {
	switch to {
	case ConventionBiGG:
		return fmt.Sprintf("%s[%s]", base, compartment), nil
	case ConventionModelSEED:
		return fmt.Sprintf("%s_%s", base, compartment), nil
	default:
		return "", errors.Newf(errors.ErrCodeSuffixBadConvention, "unsupported suffix convention %q", to)
	}
}

// Translate rewrites the compartment suffix of id into the target convention.
//
// When id matches no known suffix pattern the input is returned unchanged
// together with an ErrCodeSuffixNoMatch error; callers that want best-effort
// translation can use the returned value and treat the error as a signal
// rather than a failure.  An unsupported target convention is a hard error.
func Translate(id string, to Convention) (string, error) {
	if to != ConventionBiGG && to != ConventionModelSEED {
		return id, errors.Newf(errors.ErrCodeSuffixBadConvention, "unsupported suffix convention %q", to)
	}
	base, compartment, ok := Split(id)
	if !ok {
		return id, errors.New(errors.ErrCodeSuffixNoMatch, "unrecognized compartment suffix").
			WithDetail("id=" + id)
	}
	out, err := Join(base, compartment, to)
	if err != nil {
		return id, err
	}
	return out, nil
}
