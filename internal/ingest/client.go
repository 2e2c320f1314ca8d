package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

// Client - клиент внешнего фида тендеров.
type Client struct {
	httpClient *http.Client
	feedURL    string
}

// NewClient создаёт новый экземпляр Client с ограниченным таймаутом запроса.
func NewClient(feedURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		feedURL:    feedURL,
	}
}

// FetchTenders запрашивает фид и возвращает сырые записи тендеров
// вместе с числом записей, отброшенных при разборе.
// Фид отдаёт либо вложенный объект со статусом и группами записей, либо плоский список;
// форма определяется по первому значащему байту ответа.
func (c *Client) FetchTenders(ctx context.Context) ([]models.FeedEntry, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrUpstreamFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, fmt.Errorf("%w: unexpected status %d", models.ErrUpstreamFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrUpstreamFetch, err)
	}

	return parseFeed(body)
}

func parseFeed(body []byte) ([]models.FeedEntry, int, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty response body", models.ErrUpstreamFetch)
	}

	switch trimmed[0] {
	case '{':
		var feed models.FeedResponse
		if err := json.Unmarshal(trimmed, &feed); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", models.ErrUpstreamFetch, err)
		}
		if feed.Status != 0 {
			return nil, 0, fmt.Errorf("%w: feed returned status %d", models.ErrUpstreamFetch, feed.Status)
		}
		var entries []models.FeedEntry
		dropped := 0
		for _, group := range feed.TenderDetails {
			groupEntries, groupDropped := decodeEntries(group.TenderLists)
			entries = append(entries, groupEntries...)
			dropped += groupDropped
		}
		return entries, dropped, nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", models.ErrUpstreamFetch, err)
		}
		entries, dropped := decodeEntries(raw)
		return entries, dropped, nil
	default:
		return nil, 0, fmt.Errorf("%w: unrecognized feed payload", models.ErrUpstreamFetch)
	}
}

// decodeEntries разбирает записи по одной. Запись, которую не удалось
// декодировать, пропускается и учитывается, остальная пачка разбирается дальше.
func decodeEntries(raw []json.RawMessage) ([]models.FeedEntry, int) {
	var entries []models.FeedEntry
	dropped := 0
	for _, item := range raw {
		var entry models.FeedEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, dropped
}
