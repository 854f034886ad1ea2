// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KeywordCount is the exact number of keywords a post carries.
const KeywordCount = 5

// PostRecord is the validated content of one generated post. It lives for a
// single run: the post writer turns it into a file and it is discarded.
type PostRecord struct {
	// Title is the post title (non-empty).
	Title string `json:"title" yaml:"title"`

	// MetaDescription is the SEO description, at most 160 characters.
	MetaDescription string `json:"meta_description" yaml:"meta_description"`

	// Keywords holds exactly KeywordCount short phrases in model order.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ArticleMarkdown is the article body (at least 500 words).
	ArticleMarkdown string `json:"article_markdown" yaml:"article_markdown"`
}

// Selection is the topic chosen for a run together with its slug.
type Selection struct {
	Topic string `json:"topic" yaml:"topic"`
	Slug  string `json:"slug" yaml:"slug"`
}

// RunStatus is the outcome of one generate run.
type RunStatus string

const (
	RunCreated RunStatus = "created"
	RunSkipped RunStatus = "skipped"
	RunFailed  RunStatus = "failed"
)
