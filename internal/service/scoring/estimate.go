package scoring

import "strings"

// FormInput carries the reduced signal set a partially-filled form can know
// about. Server-only signals (conversation history, proposal status) are not
// represented; the estimate is advisory and never persisted.
type FormInput struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	BusinessName    string `json:"business_name"`
	Website         string `json:"website"`
	BudgetRange     string `json:"budget_range"`
	Timeline        string `json:"timeline"`
	VideoGoals      string `json:"video_goals"`
	PackageInterest string `json:"package_interest"`

	// Signals the embedding UI can track locally.
	VisitedPricingPage bool `json:"visited_pricing_page"`
	StartedCheckout    bool `json:"started_checkout"`
	BookedCall         bool `json:"booked_call"`
}

// EstimateResult is the advisory score shown during form filling.
type EstimateResult struct {
	Total               int   `json:"total"`
	ProfileCompleteness int   `json:"profileCompleteness"`
	EngagementSignals   int   `json:"engagementSignals"`
	BusinessFit         int   `json:"businessFit"`
	IntentSignals       int   `json:"intentSignals"`
	Grade               Grade `json:"grade"`
}

// Estimate computes a live advisory score from form state using the same
// weight table as Calculate. It uses a reduced signal set and must never be
// treated as the authoritative score.
func Estimate(input FormInput, cfg Configuration) EstimateResult {
	profile := 0
	if filled(input.Email) {
		profile += cfg.ProfileCompleteness.Email
	}
	if filled(input.Phone) {
		profile += cfg.ProfileCompleteness.Phone
	}
	if filled(input.BusinessName) {
		profile += cfg.ProfileCompleteness.BusinessName
	}
	if filled(input.Website) {
		profile += cfg.ProfileCompleteness.Website
	}
	if filled(input.BudgetRange) {
		profile += cfg.ProfileCompleteness.BudgetInfo
	}
	profile = clamp(profile, maxProfileScore)

	engagement := 0
	if input.VisitedPricingPage || filled(input.PackageInterest) {
		engagement += cfg.EngagementSignals.VisitedPricingPage
	}
	if input.StartedCheckout || (filled(input.PackageInterest) && filled(input.BudgetRange)) {
		engagement += cfg.EngagementSignals.StartedCheckout
	}
	engagement = clamp(engagement, maxEngagementScore)

	fit := 0
	if budgetMatchesPackages(input.BudgetRange) {
		fit += cfg.BusinessFit.BudgetMatchesPackages
	}
	if timelineIsImmediate(input.Timeline) {
		fit += cfg.BusinessFit.TimelineIsImmediate
	}
	if len(strings.TrimSpace(input.VideoGoals)) > 10 {
		fit += cfg.BusinessFit.HasVideoMarketingGoals
	}
	fit = clamp(fit, maxBusinessFitScore)

	intent := 0
	if input.BookedCall {
		intent += cfg.IntentSignals.BookedCall
	}
	intent = clamp(intent, maxIntentScore)

	total := profile + engagement + fit + intent

	return EstimateResult{
		Total:               total,
		ProfileCompleteness: profile,
		EngagementSignals:   engagement,
		BusinessFit:         fit,
		IntentSignals:       intent,
		Grade:               GradeFor(total),
	}
}

func filled(value string) bool {
	return strings.TrimSpace(value) != ""
}
