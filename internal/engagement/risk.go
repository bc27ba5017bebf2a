package engagement

// Risk is the discrete churn risk bucket of a member.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Classify maps a composite engagement score and visit recency to a
// churn risk bucket. The rules form an ordered cascade, first match
// wins, so a high scorer who has not shown up for a month still falls
// through to high risk.
func Classify(score float64, daysSinceVisit int) Risk {
	switch {
	case score >= 70 && daysSinceVisit <= 7:
		return RiskLow
	case score >= 50 && daysSinceVisit <= 14:
		return RiskMedium
	case score >= 30 || daysSinceVisit <= 21:
		return RiskHigh
	default:
		return RiskCritical
	}
}
