package constants

import (
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis keys and TTL values for the hallbook API
// Pattern: hallbook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (changes occasionally)
const (
	TTL_SEMI_STATIC_QUICK = 10 * time.Minute // 10 minutes - for public catalog
)

// Dynamic Data (changes frequently)
const (
	TTL_DYNAMIC_QUICK = 1 * time.Minute // 1 minute - for unavailable dates
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "hallbook"
)

// ================== CATALOG MODULE ==================

const (
	CACHE_KEY_RESOURCES_PUBLIC = CACHE_PREFIX + ":resources:public:owner:" // + owner-id
	CACHE_KEY_PRICING_PUBLIC   = CACHE_PREFIX + ":pricing:public:owner:"   // + owner-id
)

const (
	TTL_RESOURCES_PUBLIC = TTL_SEMI_STATIC_QUICK // 10 minutes
	TTL_PRICING_PUBLIC   = TTL_SEMI_STATIC_QUICK // 10 minutes
)

// ================== BOOKINGS MODULE ==================

const (
	// + owner-id:resource:X:from:Y:to:Z
	CACHE_KEY_UNAVAILABLE_DATES = CACHE_PREFIX + ":bookings:unavailable:owner:"

	// Slot locks are not cache entries; they share the prefix for SCAN hygiene.
	LOCK_KEY_BOOKING_SLOT = CACHE_PREFIX + ":lock:slot:" // + owner:resource:date
)

const (
	TTL_UNAVAILABLE_DATES = TTL_DYNAMIC_QUICK // 1 minute
	TTL_BOOKING_SLOT_LOCK = 15 * time.Second
)

// ================== AUTH MODULE ==================

const (
	KEY_REVOKED_TOKEN = CACHE_PREFIX + ":auth:revoked:" // + token-id
)

// ================== NOTIFICATIONS MODULE ==================

const (
	CHANNEL_USER_NOTIFICATIONS = CACHE_PREFIX + ":notifications:user:" // + user-id
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_UNAVAILABLE_DATES = CACHE_KEY_UNAVAILABLE_DATES // + owner-id + *
)

// ================== HELPER FUNCTIONS ==================

// BuildUnavailableDatesKey -> "hallbook:bookings:unavailable:owner:<id>:resource:<r>:from:<d>:to:<d>"
func BuildUnavailableDatesKey(ownerID, resourceID, startDate, endDate string) string {
	return CACHE_KEY_UNAVAILABLE_DATES + ownerID +
		":resource:" + orAll(resourceID) +
		":from:" + orAll(startDate) +
		":to:" + orAll(endDate)
}

// BuildUnavailableDatesPattern matches every calendar entry of an owner.
func BuildUnavailableDatesPattern(ownerID string) string {
	return PATTERN_INVALIDATE_UNAVAILABLE_DATES + ownerID + ":*"
}

func BuildSlotLockKey(ownerID, resourceID, date string) string {
	return LOCK_KEY_BOOKING_SLOT + ownerID + ":" + resourceID + ":" + date
}

func BuildRevokedTokenKey(tokenID string) string {
	return KEY_REVOKED_TOKEN + tokenID
}

func BuildUserNotificationChannel(userID string) string {
	return CHANNEL_USER_NOTIFICATIONS + userID
}

func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
