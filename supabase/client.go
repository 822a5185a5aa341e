package supabase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/creastat/espace-cours/session"
)

// DefaultTable is the roster table queried when Config.Table is empty
const DefaultTable = "eleves"

// Config holds Supabase connection configuration
type Config struct {
	URL      string
	APIKey   string
	Table    string        // Default: "eleves"
	CacheTTL time.Duration // Default: 5 minutes
}

// Client implements the Store interface using Supabase
type Client struct {
	client *supabase.Client
	table  string
	cache  *cache
	fetch  func(ctx context.Context) ([]studentRow, error)
}

// cache holds the last roster read for cacheTTL
type cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	entry *cacheEntry[[]session.Student]
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// New creates a new Supabase client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	c := &Client{
		client: client,
		table:  cfg.Table,
		cache:  &cache{ttl: cfg.CacheTTL},
	}
	c.fetch = c.selectStudents
	return c, nil
}

// Students retrieves the roster, sorted by family then given name
func (c *Client) Students(ctx context.Context) ([]session.Student, error) {
	// Check cache first
	if cached, ok := c.cache.get(); ok {
		return cached, nil
	}

	rows, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}

	students := make([]session.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, session.Student{
			ID:         r.ID,
			GivenName:  r.GivenName,
			FamilyName: r.FamilyName,
		})
	}
	slices.SortStableFunc(students, func(a, b session.Student) int {
		return cmp.Or(
			cmp.Compare(a.FamilyName, b.FamilyName),
			cmp.Compare(a.GivenName, b.GivenName),
		)
	})

	c.cache.put(students)
	return slices.Clone(students), nil
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// selectStudents queries the roster table
func (c *Client) selectStudents(ctx context.Context) ([]studentRow, error) {
	var rows []studentRow
	_, err := c.client.From(c.table).
		Select("id,prenom,nom", "", false).
		ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// get returns a copy of the cached roster if it has not expired
func (c *cache) get() ([]session.Student, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry != nil && time.Now().Before(c.entry.expiresAt) {
		return slices.Clone(c.entry.value), true
	}
	return nil, false
}

// put stores the roster in cache
func (c *cache) put(students []session.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &cacheEntry[[]session.Student]{
		value:     students,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Compile-time check that Client implements Store
var _ Store = (*Client)(nil)
