package domain

import "strings"

// Canonical project statuses.
const (
	StatusLive               = "Live"
	StatusSentForApproval    = "Sent For Approval"
	StatusSentForFabrication = "Sent for Fabrication"
	StatusClosed             = "Closed"
	StatusOnHold             = "On-Hold"
	StatusCancelled          = "Cancelled"
	StatusSeeRemarks         = "See Remarks"

	// StatusUnknown labels rows without any status column.
	StatusUnknown = "Unknown"
)

// CanonicalStatuses lists the approved labels in display order.
var CanonicalStatuses = []string{
	StatusLive,
	StatusSentForApproval,
	StatusSentForFabrication,
	StatusClosed,
	StatusOnHold,
	StatusCancelled,
	StatusSeeRemarks,
}

// legacyStatuses maps old enum-like values (upper-cased) to canonical labels.
var legacyStatuses = map[string]string{
	"IN_PROGRESS": StatusLive,
	"PLANNING":    StatusLive,
	"COMPLETED":   StatusClosed,
	"ON_HOLD":     StatusOnHold,
	"CANCELLED":   StatusCancelled,
}

// activeStatuses holds lower-cased, underscore-joined forms counted as active.
var activeStatuses = map[string]struct{}{
	"live":        {},
	"in_progress": {},
	"active":      {},
}

// NormalizeStatus maps a raw status to its canonical label. Values with no
// legacy mapping are returned unchanged.
func NormalizeStatus(raw string) string {
	label, _ := ClassifyStatus(raw)
	return label
}

// ClassifyStatus is NormalizeStatus that also reports whether the result is
// one of the canonical labels.
func ClassifyStatus(raw string) (string, bool) {
	if mapped, ok := legacyStatuses[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return mapped, true
	}
	return raw, IsCanonicalStatus(raw)
}

// IsCanonicalStatus reports whether s is exactly one of the approved labels.
func IsCanonicalStatus(s string) bool {
	for _, c := range CanonicalStatuses {
		if s == c {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether a canonical or legacy status counts towards
// active-project counters. Case and whitespace are ignored.
func IsActiveStatus(raw string) bool {
	key := statusKey(NormalizeStatus(raw))
	_, ok := activeStatuses[key]
	return ok
}

// IsNearCompletion reports statuses the status breakdown leaves out.
func IsNearCompletion(raw string) bool {
	collapsed := strings.ReplaceAll(statusKey(raw), "_", "")
	return strings.Contains(collapsed, "nearcompletion") || strings.Contains(collapsed, "nearlycompletion")
}

func statusKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
