// SPDX-License-Identifier: MIT

package narrative

import (
	"sort"
	"strings"
)

// Lens names.
const (
	LensHaraway  = "haraway"
	LensBarad    = "barad"
	LensFoucault = "foucault"
	LensSpivak   = "spivak"
	LensNone     = "none"
)

var lensTexts = map[string]string{
	LensHaraway: "Lens: Donna Haraway's Situated Knowledges.\n" +
		"Emphasize partiality, embodiment, and positionality in knowledge production. Avoid god-trick objectivity.",
	LensBarad: "Lens: Karen Barad's Intra-action.\n" +
		"Focus on how agencies emerge through relational entanglements. Reject atomistic separability.",
	LensFoucault: "Lens: Michel Foucault's Knowledge-Power.\n" +
		"Analyze discourse as structured by regimes of power. Investigate what is rendered sayable or unsayable.",
	LensSpivak: "Lens: Gayatri Spivak's Subaltern.\n" +
		"Attend to the silenced, displaced, or structurally unvoiced. Examine epistemic violence.",
	LensNone: "",
}

// Lenses returns the known lens names, sorted.
func Lenses() []string {
	out := make([]string, 0, len(lensTexts))
	for name := range lensTexts {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// IsLens reports whether name (any case) is a known lens.
func IsLens(name string) bool {
	_, ok := lensTexts[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// LensContext joins the texts of the named lenses with blank lines, in the
// given order. Unknown names and "none" contribute nothing.
func LensContext(names []string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if text := lensTexts[strings.ToLower(strings.TrimSpace(n))]; text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n")
}
