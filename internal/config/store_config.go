package config

import "time"

type StoreConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetStoreTimeout() time.Duration
	GetSweepInterval() time.Duration
	GetSweepBatchSize() int64
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	return GetIntEnv("REDIS_DB", 0)
}

// GetStoreTimeout bounds every round-trip to the key-value store so a store
// outage degrades individual requests instead of hanging the service.
func (Store) GetStoreTimeout() time.Duration {
	return GetDurationEnv("STORE_TIMEOUT", 3*time.Second)
}

func (Store) GetSweepInterval() time.Duration {
	return GetDurationEnv("SWEEP_INTERVAL", 1*time.Hour)
}

func (Store) GetSweepBatchSize() int64 {
	return int64(GetIntEnv("SWEEP_BATCH_SIZE", 100))
}
