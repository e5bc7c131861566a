package news

import (
	"context"

	"github.com/mmcdole/gofeed"
)

// Item is one headline from the news feed.
type Item struct {
	Title string
	Link  string
}

// Client reads an RSS/Atom news feed.
type Client struct {
	FeedURL string
	parser  *gofeed.Parser
}

func NewClient(feedURL string) *Client {
	return &Client{FeedURL: feedURL, parser: gofeed.NewParser()}
}

// Latest returns up to limit of the newest feed items.
func (c *Client) Latest(ctx context.Context, limit int) ([]Item, error) {
	feed, err := c.parser.ParseURLWithContext(c.FeedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, limit)
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}
		items = append(items, Item{Title: entry.Title, Link: entry.Link})
	}
	return items, nil
}
