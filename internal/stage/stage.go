// Package stage models the artifact generation lifecycle as a small
// finite-state machine.
//
// A conversation progresses through a fixed, totally ordered sequence of
// artifact stages (Documentation → Diagram → Code → Conversation) while a
// generation sub-stage toggles between creating a new artifact and modifying
// the last one. Conversation is absorbing: once reached, no further
// advancement is possible and the sub-stage loses its meaning.
package stage

// ArtifactStage identifies which deliverable the conversation is currently
// producing.
type ArtifactStage string

const (
	// Documentation is the initial stage: requirements and user stories.
	Documentation ArtifactStage = "Documentation"
	// Diagram produces architecture and flow diagrams.
	Diagram ArtifactStage = "Diagram"
	// Code produces source code and full project scaffolds.
	Code ArtifactStage = "Code"
	// Conversation is the terminal free-form chat stage.
	Conversation ArtifactStage = "Conversation"
)

// GenerationStage identifies the sub-mode within an artifact stage.
type GenerationStage string

const (
	// Creating generates a new artifact from user input.
	Creating GenerationStage = "Creating"
	// Modifying applies a change request to the last generated artifact.
	Modifying GenerationStage = "Modifying"
)

// artifactOrder is the closed, linear progression of artifact stages.
// Advancement walks this slice forward one step at a time; there is no
// skipping and no backward movement short of a full Reset.
var artifactOrder = []ArtifactStage{Documentation, Diagram, Code, Conversation}

// ArtifactStages returns the progression in order. The returned slice is a
// copy and safe to mutate.
func ArtifactStages() []ArtifactStage {
	out := make([]ArtifactStage, len(artifactOrder))
	copy(out, artifactOrder)
	return out
}

// Valid reports whether s is one of the known artifact stages.
func (s ArtifactStage) Valid() bool {
	return s.index() >= 0
}

// Terminal reports whether s is the absorbing Conversation stage.
func (s ArtifactStage) Terminal() bool {
	return s == Conversation
}

// Before reports whether s precedes other in the fixed progression.
func (s ArtifactStage) Before(other ArtifactStage) bool {
	return s.index() < other.index()
}

func (s ArtifactStage) index() int {
	for i, v := range artifactOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid reports whether g is one of the two known generation stages.
func (g GenerationStage) Valid() bool {
	return g == Creating || g == Modifying
}

// Manager tracks the current (ArtifactStage, GenerationStage) pair.
//
// Manager is not safe for concurrent use; the conversation layer serializes
// all mutation on a single logical timeline.
type Manager struct {
	artifact   ArtifactStage
	generation GenerationStage
}

// NewManager returns a Manager positioned at the initial stage pair
// (Documentation, Creating).
func NewManager() *Manager {
	return &Manager{artifact: Documentation, generation: Creating}
}

// Artifact returns the current artifact stage.
func (m *Manager) Artifact() ArtifactStage { return m.artifact }

// Generation returns the current generation sub-stage.
func (m *Manager) Generation() GenerationStage { return m.generation }

// Advance moves to the next artifact stage in the fixed order. It reports
// whether a change occurred; at the terminal Conversation stage it is a
// no-op returning false.
func (m *Manager) Advance() bool {
	idx := m.artifact.index()
	if idx < 0 || idx >= len(artifactOrder)-1 {
		return false
	}
	m.artifact = artifactOrder[idx+1]
	return true
}

// SetGeneration sets the generation sub-stage. Unknown values are rejected
// as a no-op returning false.
func (m *Manager) SetGeneration(g GenerationStage) bool {
	if !g.Valid() {
		return false
	}
	m.generation = g
	return true
}

// Reset returns both fields to their initial values.
func (m *Manager) Reset() {
	m.artifact = Documentation
	m.generation = Creating
}
