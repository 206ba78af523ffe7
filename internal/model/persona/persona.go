// Package persona holds the built-in system prompt table users can
// pick from by name.
package persona

// Persona is a named, predefined system prompt.
type Persona struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	SystemPrompt string `json:"systemPrompt"`
}

// Seed provides the built-in personas. The slice order is the order
// personas appear on the selection keyboard.
func Seed() []Persona {
	return []Persona{
		{
			ID:           "assistant",
			Name:         "Assistant",
			Title:        "general-purpose helper",
			SystemPrompt: "You are a helpful assistant. Answer clearly and admit when you do not know something.",
		},
		{
			ID:           "developer",
			Name:         "Developer",
			Title:        "programming copilot",
			SystemPrompt: "You are an experienced software engineer. Prefer concrete code examples, point out edge cases, and keep explanations short.",
		},
		{
			ID:           "concise",
			Name:         "Concise",
			Title:        "short answers only",
			SystemPrompt: "Answer in at most three sentences. No preamble, no filler, no repetition of the question.",
		},
		{
			ID:           "translator",
			Name:         "Translator",
			Title:        "english-russian translator",
			SystemPrompt: "Translate the user's message between English and Russian. Reply with the translation only, preserving tone and register.",
		},
	}
}
