package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

// QueryCache - кэш страниц выборки тендеров с ограниченным временем жизни.
// Кэш является производной репликой хранилища и никогда не авторитетен:
// при TTL <= 0 он полностью отключён, и корректность системы от него не зависит.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

type cacheEntry struct {
	page      models.TenderPage
	expiresAt time.Time
}

// NewQueryCache создаёт новый экземпляр QueryCache.
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Key строит детерминированный ключ из фильтра и параметров пагинации.
// Поля сериализуются в фиксированном порядке, списки сортируются, так что
// одинаковые фильтры дают одинаковый ключ независимо от порядка сборки.
func Key(filter models.TenderFilter, page, pageSize int) string {
	categories := make([]string, len(filter.Categories))
	copy(categories, filter.Categories)
	sort.Strings(categories)

	var start, end string
	if !filter.StartDate.IsZero() {
		start = filter.StartDate.UTC().Format(time.RFC3339)
	}
	if !filter.EndDate.IsZero() {
		end = filter.EndDate.UTC().Format(time.RFC3339)
	}

	return strings.Join([]string{
		strings.ToLower(filter.Title),
		strings.Join(categories, ","),
		filter.Method,
		filter.Country,
		start,
		end,
		fmt.Sprintf("%d:%d", page, pageSize),
	}, "|")
}

// Get возвращает закэшированную страницу, если она есть и не протухла.
func (c *QueryCache) Get(key string) (*models.TenderPage, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.nowFunc().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return &entry.page, true
}

// Set сохраняет страницу результатов вместе с общим счётчиком на время TTL.
func (c *QueryCache) Set(key string, page models.TenderPage) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{page: page, expiresAt: c.nowFunc().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate сбрасывает весь кэш. Вызывается после записей в хранилище.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len возвращает текущее число записей в кэше.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
