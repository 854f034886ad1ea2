// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/autopost/pkg/types"
)

// jsonScanLines is how many leading lines are searched for a standalone
// metadata JSON line.
const jsonScanLines = 10

var (
	fenceOpen    = regexp.MustCompile("^```[A-Za-z]*\\s*")
	fenceClose   = regexp.MustCompile("\\s*```$")
	braceSpan    = regexp.MustCompile(`(?s)\{.*\}`)
	articleBlock = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(ArticleStart) + `(.*?)` + regexp.QuoteMeta(ArticleEnd))
)

// jsonSpan is a candidate metadata object located in a response.
type jsonSpan struct {
	// text is the candidate JSON.
	text string
	// rest is the offset just past the line holding the end of the JSON.
	rest int
}

// extractor locates the metadata JSON in a response using one strategy.
type extractor struct {
	name string
	find func(text string) (jsonSpan, bool)
}

// extractors are tried in order until one finds a candidate.
var extractors = []extractor{
	{name: "standalone line", find: findJSONLine},
	{name: "brace span", find: findBraceSpan},
}

// findJSONLine returns the first of the leading lines that, trimmed, starts
// with '{' and ends with '}'.
func findJSONLine(text string) (jsonSpan, bool) {
	offset := 0
	for i := 0; i < jsonScanLines && offset <= len(text); i++ {
		end := strings.IndexByte(text[offset:], '\n')
		next := len(text)
		line := text[offset:]
		if end >= 0 {
			line = text[offset : offset+end]
			next = offset + end + 1
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			return jsonSpan{text: trimmed, rest: next}, true
		}
		if end < 0 {
			break
		}
		offset = next
	}
	return jsonSpan{}, false
}

// findBraceSpan returns the widest span from the first '{' to the last '}'.
func findBraceSpan(text string) (jsonSpan, bool) {
	loc := braceSpan.FindStringIndex(text)
	if loc == nil {
		return jsonSpan{}, false
	}
	rest := len(text)
	if nl := strings.IndexByte(text[loc[1]:], '\n'); nl >= 0 {
		rest = loc[1] + nl + 1
	}
	return jsonSpan{text: text[loc[0]:loc[1]], rest: rest}, true
}

// stripFences removes a code fence wrapped around the whole response.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Parse turns a raw model response into a validated PostRecord. The response
// is expected to hold a one-line metadata JSON object followed by the
// article between ArticleStart and ArticleEnd, but common deviations are
// tolerated: a wrapping code fence, prose around the JSON, a missing end
// marker, or the article inside the JSON as "article_markdown".
func Parse(raw string) (types.PostRecord, error) {
	text := stripFences(raw)

	var span jsonSpan
	found := false
	tried := make([]string, 0, len(extractors))
	for _, ex := range extractors {
		if span, found = ex.find(text); found {
			break
		}
		tried = append(tried, ex.name)
	}
	if !found {
		return types.PostRecord{}, &ParseError{Msg: "no JSON object found (tried " + strings.Join(tried, ", ") + ")"}
	}

	fields := make(map[string]any)
	if err := json.Unmarshal([]byte(span.text), &fields); err != nil {
		return types.PostRecord{}, &ParseError{Msg: "decoding metadata JSON", Err: err}
	}

	if article, ok := locateArticle(text, span); ok {
		fields["article_markdown"] = article
	}

	return Validate(fields)
}

// locateArticle finds the article text. The delimited block wins; otherwise
// everything after the JSON line is taken so no content is dropped.
func locateArticle(text string, span jsonSpan) (string, bool) {
	if m := articleBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	rest := ""
	if span.rest < len(text) {
		rest = strings.TrimSpace(text[span.rest:])
	}
	// A response cut off before the end marker still carries the start one.
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ArticleStart))
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Validate checks decoded response fields and builds the record. Every
// problem is reported in a single *ValidationError. An over-long meta
// description is truncated rather than rejected.
func Validate(fields map[string]any) (types.PostRecord, error) {
	var verr ValidationError
	var rec types.PostRecord

	rec.Title = requiredString(fields, "title", &verr)

	if desc := requiredString(fields, "meta_description", &verr); desc != "" {
		rec.MetaDescription = truncate(desc, MaxDescriptionLen)
	}

	rec.Keywords = keywords(fields, &verr)

	if article := requiredString(fields, "article_markdown", &verr); article != "" {
		if n := len(strings.Fields(article)); n < MinWords {
			verr.Add("article_markdown", "content too short (%d words, minimum %d)", n, MinWords)
		} else {
			rec.ArticleMarkdown = article
		}
	}

	if verr.HasAny() {
		return types.PostRecord{}, &verr
	}
	return rec, nil
}

// requiredString returns the trimmed string field name, recording a problem
// when it is absent, not a string, or blank.
func requiredString(fields map[string]any, name string, verr *ValidationError) string {
	v, ok := fields[name]
	if !ok || v == nil {
		verr.Add(name, "missing")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		verr.Add(name, "expected a string, got %T", v)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		verr.Add(name, "empty")
	}
	return s
}

func keywords(fields map[string]any, verr *ValidationError) []string {
	v, ok := fields["keywords"]
	if !ok || v == nil {
		verr.Add("keywords", "missing")
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		verr.Add("keywords", "expected a list, got %T", v)
		return nil
	}
	if len(list) != types.KeywordCount {
		verr.Add("keywords", "expected %d items, got %d", types.KeywordCount, len(list))
		return nil
	}

	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			verr.Add("keywords", "item %d: expected a string, got %T", i, item)
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			verr.Add("keywords", "item %d: empty", i)
			continue
		}
		out = append(out, s)
	}
	if len(out) != types.KeywordCount {
		return nil
	}
	return out
}

// truncate shortens s to at most n characters and drops trailing whitespace
// left by the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace)
}
