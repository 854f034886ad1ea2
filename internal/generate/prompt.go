// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/autopost/pkg/types"
)

// Markers delimiting the free-form article in a response. Long Markdown
// nested in a JSON string tends to come back with unescaped newlines and
// quotes, so only the short metadata travels as JSON.
const (
	ArticleStart = "---ARTICLE---"
	ArticleEnd   = "---END---"
)

// Content rules shared by the prompt and the validator.
const (
	MinWords           = 500
	TargetMinWords     = 700
	TargetMaxWords     = 1000
	MaxDescriptionLen  = 160
	systemInstructions = "You are a helpful SEO content writer."
)

// Prompt is the pair of messages sent to the text-generation endpoint.
type Prompt struct {
	System string
	User   string
}

var postPromptTmpl = template.Must(template.New("post").Parse(`You are an SEO content writer.

Write ONE English blog post about: "{{.Topic}}".

Requirements:
- {{.TargetMin}} to {{.TargetMax}} words (must be {{.MinWords}}+).
- Use clear structure with H2/H3 headings.
- Include a short meta description (<= {{.MaxDescription}} characters).
- Provide {{.Keywords}} SEO keywords (as short phrases).
- Provide a compelling title (max ~70 characters).
- Natural keyword usage; do not spam.
- Add a brief FAQ section with 3 Q&As at the end.

Output format (follow exactly, no code fences, no other text):
1. First line: one single-line JSON object with exactly these keys:
{"title": "...", "meta_description": "...", "keywords": ["...", "...", "...", "...", "..."]}
2. Next line: {{.Start}}
3. The full article in Markdown.
4. Last line: {{.End}}
`))

// BuildPrompt returns the instructions for one post about topic.
func BuildPrompt(topic string) (Prompt, error) {
	var buf bytes.Buffer
	err := postPromptTmpl.Execute(&buf, struct {
		Topic          string
		TargetMin      int
		TargetMax      int
		MinWords       int
		MaxDescription int
		Keywords       int
		Start          string
		End            string
	}{
		Topic:          topic,
		TargetMin:      TargetMinWords,
		TargetMax:      TargetMaxWords,
		MinWords:       MinWords,
		MaxDescription: MaxDescriptionLen,
		Keywords:       types.KeywordCount,
		Start:          ArticleStart,
		End:            ArticleEnd,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("rendering prompt: %w", err)
	}
	return Prompt{
		System: systemInstructions,
		User:   buf.String(),
	}, nil
}
