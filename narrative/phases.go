// SPDX-License-Identifier: MIT

package narrative

import "fmt"

// Phase is one qualitative analysis step.
type Phase struct {
	// Key is the short name used in section headers ("Topology").
	Key string
	// Title is the full name ("Hypergraph Topology Mapping").
	Title string

	task string
}

// The three phases, in output order.
var (
	Topology = Phase{
		Key:   "Topology",
		Title: "Hypergraph Topology Mapping",
		task: `You are performing a Hypergraph Topology Mapping.
Analyze the following proposition by identifying:

- Hidden assumptions
- Cognitive modules and regimes involved
- Power relations embedded in the structure
- Metaphysical or structural commitments`,
	}

	Equilibrium = Phase{
		Key:   "Equilibrium",
		Title: "Entropic Equilibrium Analysis",
		task: `You are performing an Entropic Equilibrium Analysis.
Determine:

- Whether this proposition functions as a stabilizer or disruptor of cognition
- What forms of perturbation it resists or absorbs
- How institutional, social, or cultural forces maintain or destabilize it`,
	}

	Reconstruction = Phase{
		Key:   "Non-Anthropic Perspective",
		Title: "Non-Anthropic Reconstruction",
		task: `You are performing a Non-Anthropic Reconstruction.
Reframe the following proposition from an alien, post-human, or multispecies epistemology.
Avoid human-centric assumptions about logic, agency, or intelligence.`,
	}
)

// Phases lists every phase in output order.
func Phases() []Phase { return []Phase{Topology, Equilibrium, Reconstruction} }

// Prompt renders the phase instructions for proposition.
func (p Phase) Prompt(proposition string) string {
	return fmt.Sprintf("\n%s\n\nProposition: %s\n", p.task, proposition)
}
