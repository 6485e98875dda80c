package redis

const (
	// KeyPrefix namespaces every key the dashboard writes.
	KeyPrefix = "nexus:"
)

// Key returns the namespaced Redis key for a logical store key.
func Key(name string) string {
	return KeyPrefix + name
}
