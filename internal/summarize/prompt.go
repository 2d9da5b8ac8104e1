package summarize

const promptTemplate = "Summarize the following content accurately and concisely while preserving key details, " +
	"main arguments, and important insights. Ensure clarity and coherence in the summary, avoiding unnecessary " +
	"information or misinterpretation. Maintain a neutral and professional tone. If the content includes " +
	"structured data (such as lists or bullet points), retain its logical flow. Here is the content to summarize:\n\n"

const promptFooter = "\n\nPlease structure the summary to be clear and concise while capturing the essential information."

// BuildPrompt wraps content in the fixed summarization instruction.
func BuildPrompt(content string) string {
	return promptTemplate + content + promptFooter
}
