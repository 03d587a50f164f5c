package redis

// Config selects the redis deployment holding wizard definitions and
// session contexts. Namespace prefixes every key so several stepflow
// installations can share one redis.
type Config struct {
	Addrs     []string
	Namespace string
	PoolSize  int
	Password  string
}
