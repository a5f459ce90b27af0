package rediskey

import "fmt"

// Key prefixes shared by every process talking to the same Redis.
const (
	LockPrefix     = "cashback:lock"
	CustomerPrefix = "customer"
	SequencePrefix = "seq"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildLockKey returns "cashback:lock:{key}"
func BuildLockKey(key string) string {
	return NamespaceKey(LockPrefix, key)
}

// BuildCustomerLockKey returns "customer:{customerID}", the lock name for a
// customer's balance.
func BuildCustomerLockKey(customerID string) string {
	return NamespaceKey(CustomerPrefix, customerID)
}

// BuildDailySequenceKey returns "seq:{prefix}:{yymmdd}"
func BuildDailySequenceKey(prefix, day string) string {
	return fmt.Sprintf("%s:%s:%s", SequencePrefix, prefix, day)
}
