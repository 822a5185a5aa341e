package drivers

import "github.com/creastat/espace-cours/session"

// StoreType represents the type of record store.
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeRedis    StoreType = "redis"
	StoreTypePostgres StoreType = "postgres"
)

// NewStore creates a new session.Store based on the given type.
// Supports "memory", "redis" and "postgres" driver types.
// Redis requires WithRedisClient; Postgres requires WithDB.
func NewStore(storeType StoreType, opts ...StoreOption) (session.Store, error) {
	config := &storeConfig{}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewInMemoryStore(), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(config.redisClient, config.redisTTL, config.keyPrefix), nil

	case StoreTypePostgres:
		if config.db == nil {
			return nil, ErrInvalidConfig
		}
		return NewPostgresStore(config.db, config.table), nil

	default:
		return nil, ErrInvalidStoreType
	}
}
