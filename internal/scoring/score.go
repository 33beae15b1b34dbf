// Package scoring implements the pure score primitives of the reputation
// pipeline. All functions are total over their numeric inputs: missing or
// zero signal lowers a score, it never produces an error.
package scoring

import "math"

// Sub-score weights for the combined service rating.
const (
	ProfileWeight     = 40
	ActivityWeight    = 40
	PerformanceWeight = 20
)

// Factor weights inside the activity and performance sub-scores.
const (
	activityVolumeWeight    = 20
	activityLatencyWeight   = 20
	performanceVolumeWeight = 15
	conversionWeight        = 5
)

// ProfileIndicators holds the boolean completeness signals of a tutor profile.
// Each indicator contributes its full weight when true and nothing when false.
type ProfileIndicators struct {
	HasBio              bool
	HasAvatar           bool
	HasExperience       bool
	HasEducation        bool
	HasDiploma          bool
	AllSubjectsGoals    bool // every declared subject has at least one goal
	AllSubjectsPrices   bool // every declared subject has at least one price
	AllSubjectsComments bool // every declared subject has a comment
	VerifiedEmail       bool
	LinkedChannel       bool // messaging channel (Telegram) linked to the account
	NotifyOrdersEmail   bool
	NotifyOrdersSMS     bool
	NotifyOrdersPush    bool
	NotifyChatEmail     bool
	NotifyDigestEmail   bool
}

// profileWeights pairs each indicator with its fixed weight. Trust-bearing
// indicators (verified contacts and notification opt-ins) weigh 3, cosmetic
// profile fields weigh 2.
func (p ProfileIndicators) weighted() []struct {
	set    bool
	weight int
} {
	return []struct {
		set    bool
		weight int
	}{
		{p.HasBio, 2},
		{p.HasAvatar, 2},
		{p.HasExperience, 2},
		{p.HasEducation, 2},
		{p.HasDiploma, 2},
		{p.AllSubjectsGoals, 2},
		{p.AllSubjectsPrices, 2},
		{p.AllSubjectsComments, 2},
		{p.VerifiedEmail, 3},
		{p.LinkedChannel, 3},
		{p.NotifyOrdersEmail, 3},
		{p.NotifyOrdersSMS, 3},
		{p.NotifyOrdersPush, 3},
		{p.NotifyChatEmail, 3},
		{p.NotifyDigestEmail, 3},
	}
}

// ProfileScore computes the profile completeness sub-score as the weighted
// sum of set indicators over the total weight. Result is in [0,1].
func ProfileScore(p ProfileIndicators) float64 {
	var sum, total int

	for _, ind := range p.weighted() {
		total += ind.weight
		if ind.set {
			sum += ind.weight
		}
	}

	return float64(sum) / float64(total)
}

// VolumeFactor normalizes a 30-day counter against the population median.
// Contribution is capped at twice the median; with no median to anchor on,
// any activity at all counts as full volume.
func VolumeFactor(count int, median float64) float64 {
	if median > 0 {
		return math.Min(float64(count)/median, 2) / 2
	}

	if count > 0 {
		return 1
	}

	return 0
}

// latencyBuckets maps a median first-response time in minutes to a factor.
// Ordered by ascending upper bound; the first bucket whose bound is not
// exceeded wins.
var latencyBuckets = []struct {
	maxMinutes float64
	factor     float64
}{
	{1, 1.0},
	{5, 0.6},
	{15, 0.4},
	{30, 0.3},
	{60, 0.2},
	{180, 0.15},
	{360, 0.125},
	{720, 0.1},
	{1440, 0.1},
}

// LatencyFactor maps a tutor's median first-response latency in minutes to
// a [0,1] factor. Slower than a day scores the floor value.
func LatencyFactor(minutes float64) float64 {
	for _, b := range latencyBuckets {
		if minutes <= b.maxMinutes {
			return b.factor
		}
	}

	return 0.05
}

// ActivityScore blends the response volume factor and the first-response
// latency factor with equal weights. latencyMinutes is nil when the window
// produced no valid first-response delta; a tutor without responses or
// without a latency signal scores 0 on the latency factor.
func ActivityScore(responses int, medianResponses float64, latencyMinutes *float64) float64 {
	volume := VolumeFactor(responses, medianResponses)

	var latency float64
	if responses > 0 && latencyMinutes != nil {
		latency = LatencyFactor(*latencyMinutes)
	}

	return (volume*activityVolumeWeight + latency*activityLatencyWeight) /
		(activityVolumeWeight + activityLatencyWeight)
}

// conversionLadder maps a contracts-to-responses ratio to a factor. Ordered
// by descending threshold; the first threshold the ratio reaches wins. Any
// conversion at all floors at 0.5.
var conversionLadder = []struct {
	minRatio float64
	factor   float64
}{
	{0.20, 1.0},
	{0.10, 0.9},
	{0.05, 0.8},
	{0.025, 0.7},
}

// ConversionFactor maps the 30-day contracts/responses ratio to a [0,1]
// factor. No responses means no signal and scores 0.
func ConversionFactor(contracts, responses int) float64 {
	if responses <= 0 || contracts <= 0 {
		return 0
	}

	ratio := float64(contracts) / float64(responses)
	for _, step := range conversionLadder {
		if ratio >= step.minRatio {
			return step.factor
		}
	}

	return 0.5
}

// PerformanceScore blends the confirmed-contract volume factor and the
// conversion factor with weights 15 and 5.
func PerformanceScore(contracts int, medianContracts float64, responses int) float64 {
	volume := VolumeFactor(contracts, medianContracts)
	conversion := ConversionFactor(contracts, responses)

	return (volume*performanceVolumeWeight + conversion*conversionWeight) /
		(performanceVolumeWeight + conversionWeight)
}

// ServiceRating combines the three sub-scores into the internally computed
// [0,1] reputation with fixed weights 40/40/20.
func ServiceRating(profile, activity, performance float64) float64 {
	return (profile*ProfileWeight + activity*ActivityWeight + performance*PerformanceWeight) /
		(ProfileWeight + ActivityWeight + PerformanceWeight)
}

// TotalRating blends the externally supplied review rating (1-5 scale) with
// the service rating, both normalized to [0,1] and weighted equally.
func TotalRating(userRating, serviceRating float64) float64 {
	return 0.5*(userRating/5) + 0.5*serviceRating
}

// Round6 rounds a rating to six decimal places for persistence.
func Round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
