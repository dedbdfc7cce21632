package domain

import "strings"

// StatusBucket is the coarse class a status name falls into for aggregate counts.
type StatusBucket string

const (
	BucketOpen       StatusBucket = "open"
	BucketInProgress StatusBucket = "in_progress"
	BucketClosed     StatusBucket = "closed"
	BucketUnknown    StatusBucket = "unknown"
)

// statusBuckets is keyed by upper-cased status name.
var statusBuckets = map[string]StatusBucket{
	"NEW":         BucketOpen,
	"OPEN":        BucketOpen,
	"IN PROGRESS": BucketInProgress,
	"RESOLVED":    BucketClosed,
	"CLOSED":      BucketClosed,
	"COMPLETED":   BucketClosed,
}

// BucketOf classifies a status name case-insensitively. Unrecognized names map to
// BucketUnknown and are left out of bucketed counts.
func BucketOf(statusName string) StatusBucket {
	if bucket, ok := statusBuckets[normalizeName(statusName)]; ok {
		return bucket
	}
	return BucketUnknown
}

// PriorityRank orders priority names. NORMAL and MEDIUM share a rank.
type PriorityRank int

const (
	RankUnknown PriorityRank = iota
	RankLow
	RankNormal
	RankHigh
	RankUrgent
)

var priorityRanks = map[string]PriorityRank{
	"LOW":    RankLow,
	"NORMAL": RankNormal,
	"MEDIUM": RankNormal,
	"HIGH":   RankHigh,
	"URGENT": RankUrgent,
}

// RankOf classifies a priority name case-insensitively.
func RankOf(priorityName string) PriorityRank {
	return priorityRanks[normalizeName(priorityName)]
}

// Badge is the visual class a presentation layer renders for a status or priority.
type Badge string

const (
	BadgeCritical Badge = "critical"
	BadgeDefault  Badge = "default"
	BadgeMuted    Badge = "muted"
	BadgeNeutral  Badge = "neutral"
	BadgeActive   Badge = "active"
	BadgePending  Badge = "pending"
	BadgeDone     Badge = "done"
)

// PriorityBadge maps a priority name to its visual class.
func PriorityBadge(priorityName string) Badge {
	switch RankOf(priorityName) {
	case RankHigh, RankUrgent:
		return BadgeCritical
	case RankNormal:
		return BadgeDefault
	case RankLow:
		return BadgeMuted
	default:
		return BadgeNeutral
	}
}

// StatusBadge maps a status name to its visual class. Unrecognized names render as
// done, the same as closed tickets.
func StatusBadge(statusName string) Badge {
	switch BucketOf(statusName) {
	case BucketOpen:
		return BadgeActive
	case BucketInProgress:
		return BadgePending
	default:
		return BadgeDone
	}
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
