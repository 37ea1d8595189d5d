package openai

import "fmt"

const keyphraseResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "keyphrases": {
      "type": "array",
      "items": {
        "type": "string"
      }
    }
  },
  "required": ["keyphrases"],
  "additionalProperties": false
}`

const keyphrasePromptTemplate = `Extract the key phrases that identify the project, customer, product or
work topic from the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Key phrases must be lowercase and 1-3 words long.
- Extract only phrases that appear in the text or are clearly implied by it. Do not hallucinate.
- Prefer proper nouns, project codes, customer names and technical topics over generic meeting words.
- Skip filler words such as "meeting", "call", "sync", "update" unless they carry project identity.
- If nothing useful can be identified, return "keyphrases": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Optimax Apps&Models CZ 2024 WP-12081.04 weekly demo"
Output:
{
  "keyphrases": ["optimax", "apps models", "wp-12081.04", "demo"]
}

Example (body text):
Input: "Review of the gas transport forecast model for Gasum before the steering committee"
Output:
{
  "keyphrases": ["gasum", "gas transport", "forecast model", "steering committee"]
}

Example (nothing useful):
Input: "lunch"
Output:
{
  "keyphrases": []
}`

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(keyphrasePromptTemplate, keyphraseResponseSchema)
}
