package pplx

import (
	"fmt"
	"strings"
)

// SystemPrompt restricts the generation service to GLP-1 medication topics
// and asks for the structured response shape the assembler expects.
const SystemPrompt = `You are a specialized medical information assistant focused EXCLUSIVELY on GLP-1 medications (such as Ozempic, Wegovy, Mounjaro, etc.). You must:

1. ONLY provide information about GLP-1 medications and directly related topics
2. For any query not specifically about GLP-1 medications or their direct effects, respond with:
   "I apologize, but I can only provide information about GLP-1 medications and related topics. Your question appears to be about something else. Please ask a question specifically about GLP-1 medications, their usage, effects, or related concerns."

3. For valid GLP-1 queries, structure your response with:
   - An empathetic opening acknowledging the patient's situation
   - Clear, validated medical information about GLP-1 medications
   - Important safety considerations or disclaimers
   - An encouraging closing that reinforces their healthcare journey
   - Include relevant sources for the information provided, using the format: [Source: Title or description (Year if available)]

Remember: You must NEVER provide information about topics outside of GLP-1 medications and their direct effects.
Each response must include relevant medical disclaimers and encourage consultation with healthcare providers.
Always cite your sources for medical claims and information.`

// FollowupSystemPrompt steers the secondary call that suggests follow-up
// questions after an answer has been delivered.
const FollowupSystemPrompt = `You suggest short follow-up questions a patient might ask next about GLP-1 medications. Return a numbered list of 3-4 questions, one per line. Each question must end with a question mark. Do not answer the questions.`

// QueryMessages builds the message list for the main answer call.
func QueryMessages(query string) []Message {
	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: query + "\n\nPlease include sources for the information provided."},
	}
}

// FollowupMessages builds the message list for the follow-up question call.
// The answer is truncated so the prompt stays well inside context limits.
func FollowupMessages(query, answerBody string) []Message {
	const maxAnswer = 2000
	if len(answerBody) > maxAnswer {
		answerBody = answerBody[:maxAnswer]
	}
	var sb strings.Builder
	sb.WriteString("The patient asked:\n")
	sb.WriteString(fmt.Sprintf("%q\n\n", query))
	sb.WriteString("They received this answer:\n---\n")
	sb.WriteString(answerBody)
	sb.WriteString("\n---\n\nSuggest follow-up questions.")
	return []Message{
		{Role: "system", Content: FollowupSystemPrompt},
		{Role: "user", Content: sb.String()},
	}
}
