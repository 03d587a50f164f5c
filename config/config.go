package config

import "time"

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig    RedisStorageConfig
	HttpPort       int
	StorageType    StorageType
	DefinitionDir  string
	GatewayUrl     string
	GatewayTimeout time.Duration
	SessionTTL     time.Duration
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}
