package aggregate

import (
	"math"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// Importance labels.
const (
	LabelStrategic = "Strategic"
	LabelKey       = "Key"
	LabelRegular   = "Regular"
	LabelDormant   = "Dormant"
)

const (
	inactiveAfterDays = 180
	noActivityDays    = 999
	activityPerProj   = 0.8
	activityCap       = 4.0
)

// ClientActivity is what the importance score looks at for one client.
type ClientActivity struct {
	ProjectCount int
	// LatestProject is the newest creation date among the client's projects.
	// Zero when none is dated.
	LatestProject time.Time
	Status        string
	ContactNo     string
}

// ScoreClient ranks a client relationship. Clients with no projects score 0.
func ScoreClient(a ClientActivity, now time.Time) float64 {
	if a.ProjectCount <= 0 {
		return 0
	}

	days := float64(noActivityDays)
	if !a.LatestProject.IsZero() {
		days = now.Sub(a.LatestProject).Hours() / 24
	}
	recency := 0.0
	switch {
	case days <= 30:
		recency = 2
	case days <= 90:
		recency = 1
	}

	activity := math.Min(float64(a.ProjectCount)*activityPerProj, activityCap)

	score := activity + recency
	if a.Status == domain.ClientActive {
		score++
	}
	if a.ContactNo != "" {
		score += 0.3
	}
	return math.Round(score*100) / 100
}

// LabelForScore buckets a score. Lower bounds are inclusive.
func LabelForScore(score float64) string {
	switch {
	case score >= 6:
		return LabelStrategic
	case score >= 4:
		return LabelKey
	case score >= 2:
		return LabelRegular
	default:
		return LabelDormant
	}
}

// DeriveClientStatus computes the synthetic client status from its counters.
// A zero lastActivity is treated as unknown and never makes a client inactive.
func DeriveClientStatus(total, active int, lastActivity, now time.Time) string {
	if total <= 0 {
		return domain.ClientProspect
	}
	if active > 0 {
		return domain.ClientActive
	}
	if !lastActivity.IsZero() && now.Sub(lastActivity).Hours()/24 > inactiveAfterDays {
		return domain.ClientInactive
	}
	return domain.ClientActive
}
