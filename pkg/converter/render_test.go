package converter

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemRendererRejectsNegativeCap(t *testing.T) {
	renderer, err := NewItemRenderer(-1)
	assert.Nil(t, renderer)
	assert.Error(t, err)
}

func TestRenderIncludesTitleDescriptionAndLink(t *testing.T) {
	renderer, err := NewItemRenderer(250)
	require.NoError(t, err)

	item := &gofeed.Item{
		Title:       "A big announcement",
		Description: `<p>Something <b>important</b> happened</p>`,
		Link:        "https://blog.example/announcement",
	}

	content := renderer.Render(item)

	assert.Contains(t, content, "**A big announcement**")
	assert.Contains(t, content, "Something **important** happened")
	assert.Contains(t, content, "https://blog.example/announcement")
}

func TestRenderTruncatesLongContent(t *testing.T) {
	renderer, err := NewItemRenderer(24)
	require.NoError(t, err)

	item := &gofeed.Item{
		Title:       "Short title",
		Description: "An extremely long description that keeps going and going",
		Link:        "https://blog.example/1",
	}

	content := renderer.Render(item)

	assert.Contains(t, content, "…")
	assert.Contains(t, content, "https://blog.example/1")
}

func TestRenderWithZeroCapUsesFullItemContent(t *testing.T) {
	renderer, err := NewItemRenderer(0)
	require.NoError(t, err)

	item := &gofeed.Item{
		Title:   "Article",
		Content: `<h2>Heading</h2><p>Full body of the article</p>`,
		Link:    "https://blog.example/article",
	}

	content := renderer.Render(item)

	assert.Contains(t, content, "Heading")
	assert.Contains(t, content, "Full body of the article")
	assert.NotContains(t, content, "<h2>")
}

func TestRenderAppendsCommentsLink(t *testing.T) {
	renderer, err := NewItemRenderer(250)
	require.NoError(t, err)

	item := &gofeed.Item{
		Title: "Discussed elsewhere",
		Link:  "https://news.example/item",
		Custom: map[string]string{
			"comments": "https://news.example/item/comments",
		},
	}

	content := renderer.Render(item)

	assert.Contains(t, content, "Comments: https://news.example/item/comments")
}

func TestRenderSkipsDescriptionEqualToTitle(t *testing.T) {
	renderer, err := NewItemRenderer(250)
	require.NoError(t, err)

	item := &gofeed.Item{
		Title:       "Same text",
		Description: "Same text",
		Link:        "https://blog.example/2",
	}

	content := renderer.Render(item)

	assert.Equal(t, "**Same text**\n\nhttps://blog.example/2", content)
}
