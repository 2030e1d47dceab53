package stage

// ActionDescription returns a short human-readable label for what the
// assistant is doing at the given stage pair. Shown in the status bar while
// a request is in flight.
func ActionDescription(artifact ArtifactStage, generation GenerationStage) string {
	if artifact == Conversation {
		return "Having a conversation"
	}

	descriptions := map[ArtifactStage]map[GenerationStage]string{
		Documentation: {
			Creating:  "Generating documentation (Jira stories)",
			Modifying: "Modifying documentation",
		},
		Diagram: {
			Creating:  "Generating diagrams",
			Modifying: "Modifying diagrams",
		},
		Code: {
			Creating:  "Generating code",
			Modifying: "Modifying code",
		},
	}
	if byGen, ok := descriptions[artifact]; ok {
		if desc, ok := byGen[generation]; ok {
			return desc
		}
	}
	return "Ready for input"
}

// Greeting returns the opening line shown before the first user turn.
func Greeting(artifact ArtifactStage) string {
	if artifact == Conversation {
		return "Let's chat! What's on your mind?"
	}
	return "What are we developing today?"
}

// StatusLine returns the footer hint for the current stage, or a processing
// indicator while a dispatch is outstanding.
func StatusLine(artifact ArtifactStage, generation GenerationStage, waiting bool) string {
	if waiting {
		return "Processing: " + ActionDescription(artifact, generation) + "..."
	}
	if artifact == Conversation {
		return "Ask me anything! We're just having a conversation."
	}
	return "Specify the requirements for your project!"
}
