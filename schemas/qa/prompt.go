package qa

import "strings"

// Instructions are placed at the top of every prompt built by [BuildPrompt].
const Instructions = `You are a financial analysis assistant.
Read the given context and answer the user's question.
You MUST respond ONLY as a JSON object matching this schema:
{
  "answer": "string",
  "citations": [
    {
      "source_id": "string",
      "quote": "string"
    }
  ]
}
- 'answer' should be concise but complete.
- 'citations' should include at least 1 exact quote from the context.
Return ONLY valid JSON. No markdown, no explanation, no code block.`

// DemoContext and DemoQuestion drive the CLI's --demo mode.
const (
	DemoContext = `Document A (id: doc_001): The company reported revenue of $50M in Q3, up 15% YoY.
Document B (id: doc_002): Operating margin improved to 22% due to cost savings.
Document C (id: doc_003): CEO stated: "We expect strong growth in fiscal 2025."`

	DemoQuestion = "What was the revenue and growth in Q3?"
)

// BuildPrompt renders the full prompt for a question over context.
//
//	<Instructions>
//
//	Context:
//	<context>
//
//	Question:
//	<question>
//
//	Return ONLY JSON.
func BuildPrompt(context, question string) string {
	var b strings.Builder
	b.WriteString(Instructions)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.TrimSpace(context))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nReturn ONLY JSON.")
	return b.String()
}
