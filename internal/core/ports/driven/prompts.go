package driven

// Prompt names recognised by the prompt store.
const (
	// PromptAnswerSystem is the system prompt for chat-style answering.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerTemplate is the single-prompt template used when the
	// provider cannot serve chat-style calls. It takes the joined
	// context and the question as fmt placeholders, in that order.
	PromptAnswerTemplate = "answer_template"
)

// PromptStore loads user-customisable prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads.
	Reload()
}
