package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostSetBody_DerivesHTML(t *testing.T) {
	post, err := NewPost(uuid.New(), "first **draft**")
	require.NoError(t, err)
	assert.Contains(t, post.BodyHTML, "<strong>draft</strong>")

	// Rewriting the body re-derives the HTML; it can never go stale.
	require.NoError(t, post.SetBody("second *draft*"))
	assert.Equal(t, "second *draft*", post.Body)
	assert.Contains(t, post.BodyHTML, "<em>draft</em>")
	assert.NotContains(t, post.BodyHTML, "strong")
}

func TestPostSetBody_SanitizesScript(t *testing.T) {
	post, err := NewPost(uuid.New(), `hi <script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, post.BodyHTML, "<script")
}

func TestCommentSetBody_InlineTagSet(t *testing.T) {
	comment, err := NewComment(uuid.New(), 1, "# heading\n\nplus `code`")
	require.NoError(t, err)
	assert.NotContains(t, comment.BodyHTML, "<h1>")
	assert.Contains(t, comment.BodyHTML, "<code>code</code>")
}
