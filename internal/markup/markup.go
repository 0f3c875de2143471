// Package markup turns raw post/comment bodies into sanitized HTML.
//
// The pipeline is markdown render -> allow-list sanitize. Bare URLs are
// auto-linked during the markdown pass, and the sanitizer strips anything
// outside the allow-list, so user input can never inject script.
package markup

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// Tag sets mirror what the site has always allowed: posts get structural
// elements, comments only inline emphasis and code.
var (
	postTags = []string{
		"a", "abbr", "acronym", "b", "blockquote", "code", "em", "i",
		"li", "ol", "pre", "strong", "ul", "h1", "h2", "h3", "p",
	}
	commentTags = []string{
		"a", "abbr", "acronym", "b", "code", "em", "i", "strong",
	}
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newRenderer(tags []string) *Renderer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(tags...)
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowStandardURLs()
	policy.RequireNoFollowOnLinks(true)

	return &Renderer{
		// Raw HTML is let through the markdown pass on purpose: the
		// sanitizer is the single place where tags get stripped, exactly
		// like inline HTML typed into a markdown body.
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(ghtml.WithUnsafe()),
		),
		policy: policy,
	}
}

// NewPostRenderer allows the broader structural tag set.
func NewPostRenderer() *Renderer { return newRenderer(postTags) }

// NewCommentRenderer allows inline tags only.
func NewCommentRenderer() *Renderer { return newRenderer(commentTags) }

// Render converts raw markup to sanitized HTML.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String())), nil
}

// Shared renderers; goldmark and bluemonday are both safe for concurrent use.
var (
	postRenderer    = NewPostRenderer()
	commentRenderer = NewCommentRenderer()
)

// RenderPost derives post body_html from a raw body.
func RenderPost(body string) (string, error) { return postRenderer.Render(body) }

// RenderComment derives comment body_html from a raw body.
func RenderComment(body string) (string, error) { return commentRenderer.Render(body) }
