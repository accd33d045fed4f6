package content

import "trmnl/internal/textutil"

// Item is one piece of displayable text. Title and Body are always in
// normalized form.
type Item struct {
	Title       string
	Body        string
	Attribution string
}

// NewItem normalizes title and body before building the item.
func NewItem(title, body, attribution string) Item {
	return Item{
		Title:       textutil.NormalizeTitle(title),
		Body:        textutil.NormalizeBody(body),
		Attribution: textutil.NormalizeTitle(attribution),
	}
}

// LogicalName is the cache key derived from the item title.
func (i Item) LogicalName() string {
	return textutil.LogicalName(i.Title)
}
