package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// fetchURL downloads a web page and strips it to readable article text.
func (l *Loader) fetchURL(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: not a file or URL: %s", ErrLoadFailed, rawURL)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.logger.Info("fetching URL", "url", rawURL)
	article, err := readability.FromURL(rawURL, l.fetchTimeout)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrLoadFailed, rawURL, err)
	}

	if strings.TrimSpace(article.TextContent) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, rawURL)
	}
	return article.TextContent, nil
}
