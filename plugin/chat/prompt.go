package chat

import "strings"

// personaPrompt is the assistant's fixed persona. It heads every prompt
// context regardless of provider or retrieval outcome.
const personaPrompt = `You are mIA, a friendly and encouraging Chinese language tutor specialized in HSK exam preparation. ` +
	`You explain vocabulary, grammar and example sentences clearly, always including pinyin for Chinese characters. ` +
	`You keep answers short and practical, adapt to the learner's level, and gently correct mistakes. ` +
	`When you are not sure about something, you say so instead of guessing.`

// composeSystemInstruction builds the system entry for one turn: the persona,
// and when retrieval produced anything, a labeled block of matched past
// questions and answers. Each retrieved item is flattened to a single line.
func composeSystemInstruction(rc RetrievedContext) string {
	if rc.Empty() {
		return personaPrompt
	}

	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\nRelevant earlier exchanges from this conversation:")
	if len(rc.Questions) > 0 {
		b.WriteString("\nQuestions the learner asked before:")
		for _, q := range rc.Questions {
			b.WriteString("\n- ")
			b.WriteString(singleLine(q.Content))
		}
	}
	if len(rc.Answers) > 0 {
		b.WriteString("\nAnswers you gave before:")
		for _, a := range rc.Answers {
			b.WriteString("\n- ")
			b.WriteString(singleLine(a.Content))
		}
	}
	return b.String()
}

// singleLine collapses all whitespace runs, including newlines, to one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
