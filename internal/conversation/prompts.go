package conversation

import "github.com/forgeline-ai/forgeline/internal/stage"

// Fixed bot texts. These are part of the client contract: tests and the
// rendering layer rely on the exact wording.
const (
	// ApologyText is appended as a synthetic bot message when a dispatch
	// fails.
	ApologyText = "Sorry, there was an error processing your request."

	// AttachmentPendingText asks the user to retry once extraction is done.
	AttachmentPendingText = "Your attachments are still being processed. Please try again in a moment."

	// ModifyPrompt is appended after switching to the Modifying sub-stage.
	ModifyPrompt = "What changes would you like me to apply?"

	diagramEntryPrompt = "What type of diagram do you want me to generate?. " +
		"Press continue to skip this step and move to code generation."

	codeEntryPrompt = "Let's set up your project! Please specify how do you want:\n\n" +
		"- **Frontend**: React, Vue, Angular, or other.\n" +
		"- **Backend**: Python, Java, Node.js, or other.\n" +
		"- **Database**: MySQL, PostgreSQL, MongoDB, or other.\n" +
		"- **Deployment**: AWS, Azure, Google Cloud, or local.\n\n" +
		"Press **continue** if you want to skip this step."

	conversationEntryPrompt = "Great! Now we can have a normal conversation. What would you like to discuss?"
)

// stageEntryPrompt returns the fixed bot prompt for entering an artifact
// stage, or "" when the stage has no entry prompt (Documentation is entered
// implicitly at startup).
func stageEntryPrompt(entered stage.ArtifactStage) string {
	switch entered {
	case stage.Diagram:
		return diagramEntryPrompt
	case stage.Code:
		return codeEntryPrompt
	case stage.Conversation:
		return conversationEntryPrompt
	default:
		return ""
	}
}
