// Package lint hosts the analysis rules that run over parsed class files.
//
// A Rule receives one fully parsed class plus a diag.Reporter and owns
// nothing across classes: whatever state it needs, it allocates inside
// Check and drops before returning. The driver may therefore run the same
// rule value over many classes concurrently.
package lint

import (
	"slices"

	"jvlint/internal/classfile"
	"jvlint/internal/diag"
	"jvlint/internal/source"
)

// Rule is one self-contained check over a single class.
type Rule interface {
	// Name is the stable identifier used in configuration and output.
	Name() string
	// Code is the diagnostic code the rule emits.
	Code() diag.Code
	// Check analyses one class and reports findings. It must not retain
	// cls or emit anything for state carried over from a previous class.
	Check(cls *classfile.Class, file source.FileID, rep diag.Reporter)
}

// All returns every registered rule in registration order.
func All() []Rule {
	return []Rule{
		MethodRefRule{},
	}
}

// Enabled returns the registered rules minus the disabled names.
func Enabled(disabled []string) []Rule {
	all := All()
	if len(disabled) == 0 {
		return all
	}
	out := make([]Rule, 0, len(all))
	for _, r := range all {
		if !slices.Contains(disabled, r.Name()) {
			out = append(out, r)
		}
	}
	return out
}
