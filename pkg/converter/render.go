package converter

import (
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// ItemRenderer turns a feed item into a markdown snippet for preview
// responses.
type ItemRenderer struct {
	maxContentLength int
}

// NewItemRenderer caps rendered content at maxContentLength characters. A
// zero cap renders the full item content.
func NewItemRenderer(maxContentLength int) (*ItemRenderer, error) {
	if maxContentLength < 0 {
		return nil, errors.New("max content length must not be negative")
	}
	return &ItemRenderer{maxContentLength: maxContentLength}, nil
}

func (r *ItemRenderer) Render(item *gofeed.Item) string {
	rules := GetPreviewConverterRules()
	if r.maxContentLength == 0 {
		rules = GetArticleConverterRules()
	}

	content := ""
	if item.Title != "" {
		content = "**" + item.Title + "**"
	}

	itemDescription := htmlToMarkdown(item.Description, rules)
	itemContent := htmlToMarkdown(item.Content, rules)

	if r.maxContentLength == 0 && len(itemContent) != 0 {
		content += "\n\n" + itemContent
	} else if itemDescription != "" && !strings.EqualFold(item.Title, itemDescription) {
		content += "\n\n" + itemDescription
	}

	content = html.UnescapeString(content)
	if r.maxContentLength > 0 && len(content) > r.maxContentLength {
		content = content[0:(r.maxContentLength-1)] + "…"
	}

	if item.Custom != nil {
		if comments, ok := item.Custom["comments"]; ok {
			content += fmt.Sprintf("\n\nComments: %s", comments)
		}
	}

	content += "\n\n" + item.Link

	return strings.ToValidUTF8(content, "")
}

func htmlToMarkdown(s string, converterRules []md.Rule) string {
	mdConverter := md.NewConverter("", true, nil)
	mdConverter.AddRules(converterRules...)

	convertedS, err := mdConverter.ConvertString(s)
	if err != nil {
		log.Printf("[WARN] failure to convert to markdown (defaulting to plain text): %v", err)
		p := bluemonday.StripTagsPolicy()
		convertedS = p.Sanitize(s)
	}

	return convertedS
}
