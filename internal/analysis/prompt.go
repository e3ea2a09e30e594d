package analysis

import (
	"fmt"
	"strings"

	"github.com/abhisek/smartstudy/internal/study"
)

// InstructionVersion identifies the system instruction below. Bump it
// whenever the instruction text changes so logged events stay comparable.
const InstructionVersion = "study-package/v2"

var systemInstruction = fmt.Sprintf(`You are an academic assistant specialised in cognitive synthesis and university-level teaching.
Analyse the text you are given and reply with ONLY a valid JSON object (no markdown, no backticks, no extra text) with exactly this structure:

{
  "summary": "A structured summary in paragraphs covering every crucial point of the text, in clear academic language. At most one third of the length of the source text.",
  "keyConcepts": [
    {
      "term": "Name of the concept",
      "definition": "A precise definition of 15 to 30 words.",
      "example": "A concrete example illustrating the concept."
    }
  ],
  "quiz": [
    {
      "question": "A question grounded in Bloom's taxonomy",
      "bloomLevel": "Knowledge | Comprehension | Application | Analysis | Evaluation | Synthesis",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Why this answer is correct and the others are not."
    }
  ]
}

Rules:
- Produce exactly %d quiz questions, each with exactly %d options; correctAnswer is the 0-based index of the right option.
- Produce between %d and %d key concepts.
- Cover several different levels of Bloom's taxonomy across the quiz.
- Write in the same language as the source text.`,
	study.QuizLength, study.OptionCount, study.MinConcepts, study.MaxConcepts)

// Request is a fully shaped analysis request.
type Request struct {
	InstructionVersion string
	SystemInstruction  string
	UserContent        string
}

// PromptBuilder renders validated study text into a Request. The system
// instruction is fixed; only UserContent depends on the text.
type PromptBuilder struct{}

func (PromptBuilder) Build(text string) Request {
	var b strings.Builder
	b.WriteString("Analyse the following text and generate the requested learning structure:\n\n")
	b.WriteString("---\n")
	b.WriteString(text)
	b.WriteString("\n---")

	return Request{
		InstructionVersion: InstructionVersion,
		SystemInstruction:  systemInstruction,
		UserContent:        b.String(),
	}
}
