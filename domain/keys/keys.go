package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxNonce is used for prefixing login nonce key
	PfxNonce = "nonce"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the prefix of a key for metric tags
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 1 {
		return s[0]
	}
	return ""
}
