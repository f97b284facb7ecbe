// Package scoring implements the lead scoring engine: a deterministic,
// additive model that converts lead attributes and conversation history into
// a 0-100 score across four categories, a letter grade and an auto-qualify
// decision. Everything in this package is pure; persistence lives in the
// service layer.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/brightreel/video-crm/api/internal/entity"
)

// Grade buckets a total score into a letter.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Breakdown is the structured snapshot of one score computation.
type Breakdown struct {
	Total               int                 `json:"total"`
	ProfileCompleteness ProfileCompleteness `json:"profileCompleteness"`
	EngagementSignals   EngagementSignals   `json:"engagementSignals"`
	BusinessFit         BusinessFit         `json:"businessFit"`
	IntentSignals       IntentSignals       `json:"intentSignals"`
	Grade               Grade               `json:"grade"`
	ShouldAutoQualify   bool                `json:"shouldAutoQualify"`
	CalculatedAt        time.Time           `json:"calculatedAt"`
}

// ProfileCompleteness scores the presence of core profile fields.
type ProfileCompleteness struct {
	Score    int            `json:"score"`
	MaxScore int            `json:"maxScore"`
	Details  ProfileDetails `json:"details"`
}

type ProfileDetails struct {
	HasEmail        bool `json:"hasEmail"`
	HasPhone        bool `json:"hasPhone"`
	HasBusinessName bool `json:"hasBusinessName"`
	HasWebsite      bool `json:"hasWebsite"`
	HasBudgetInfo   bool `json:"hasBudgetInfo"`
}

// EngagementSignals scores how actively the lead has interacted.
type EngagementSignals struct {
	Score    int               `json:"score"`
	MaxScore int               `json:"maxScore"`
	Details  EngagementDetails `json:"details"`
}

type EngagementDetails struct {
	VisitedPricingPage    bool `json:"visitedPricingPage"`
	StartedCheckout       bool `json:"startedCheckout"`
	HadVoiceConversation  bool `json:"hadVoiceConversation"`
	MultipleConversations bool `json:"multipleConversations"`
	ConversationCount     int  `json:"conversationCount"`
}

// BusinessFit scores how well the lead matches the offered packages.
type BusinessFit struct {
	Score    int                `json:"score"`
	MaxScore int                `json:"maxScore"`
	Details  BusinessFitDetails `json:"details"`
}

type BusinessFitDetails struct {
	BudgetMatchesPackages  bool `json:"budgetMatchesPackages"`
	TimelineIsImmediate    bool `json:"timelineIsImmediate"`
	HasVideoMarketingGoals bool `json:"hasVideoMarketingGoals"`
}

// IntentSignals scores explicit buying signals from conversations.
type IntentSignals struct {
	Score    int           `json:"score"`
	MaxScore int           `json:"maxScore"`
	Details  IntentDetails `json:"details"`
}

type IntentDetails struct {
	ExpressedPurchaseIntent bool `json:"expressedPurchaseIntent"`
	BookedCall              bool `json:"bookedCall"`
	RequestedProposal       bool `json:"requestedProposal"`
}

// Calculate computes the full score breakdown for a lead and its
// conversations. It is deterministic for identical inputs, modulo the
// CalculatedAt timestamp. Missing or malformed signals contribute zero.
func Calculate(lead *entity.Lead, conversations []entity.VoiceConversation, cfg Configuration) Breakdown {
	profile := scoreProfileCompleteness(lead, cfg.ProfileCompleteness)
	engagement := scoreEngagementSignals(lead, conversations, cfg.EngagementSignals)
	fit := scoreBusinessFit(lead, cfg.BusinessFit)
	intent := scoreIntentSignals(lead, conversations, cfg.IntentSignals)

	total := profile.Score + engagement.Score + fit.Score + intent.Score

	return Breakdown{
		Total:               total,
		ProfileCompleteness: profile,
		EngagementSignals:   engagement,
		BusinessFit:         fit,
		IntentSignals:       intent,
		Grade:               GradeFor(total),
		ShouldAutoQualify:   total >= cfg.AutoQualifyThreshold,
		CalculatedAt:        time.Now().UTC(),
	}
}

// GradeFor maps a total score onto a letter grade.
// A = 80-100, B = 60-79, C = 40-59, D = 0-39.
func GradeFor(total int) Grade {
	switch {
	case total >= gradeAThreshold:
		return GradeA
	case total >= gradeBThreshold:
		return GradeB
	case total >= gradeCThreshold:
		return GradeC
	default:
		return GradeD
	}
}

func scoreProfileCompleteness(lead *entity.Lead, w ProfileWeights) ProfileCompleteness {
	details := ProfileDetails{
		HasEmail:        present(lead.Email),
		HasPhone:        present(lead.Phone),
		HasBusinessName: present(lead.BusinessName),
		HasWebsite:      present(lead.Website),
		HasBudgetInfo:   present(lead.BudgetRange) || present(lead.BudgetAllocated),
	}

	score := 0
	if details.HasEmail {
		score += w.Email
	}
	if details.HasPhone {
		score += w.Phone
	}
	if details.HasBusinessName {
		score += w.BusinessName
	}
	if details.HasWebsite {
		score += w.Website
	}
	if details.HasBudgetInfo {
		score += w.BudgetInfo
	}

	return ProfileCompleteness{
		Score:    clamp(score, maxProfileScore),
		MaxScore: maxProfileScore,
		Details:  details,
	}
}

func scoreEngagementSignals(lead *entity.Lead, conversations []entity.VoiceConversation, w EngagementWeights) EngagementSignals {
	count := len(conversations)

	// Pricing-page visits and checkout starts are not tracked directly yet;
	// they are inferred from package interest and budget, matching the
	// behaviour the admin dashboards were built against.
	details := EngagementDetails{
		VisitedPricingPage:    present(lead.PackageInterest),
		StartedCheckout:       present(lead.PackageInterest) && present(lead.BudgetRange),
		HadVoiceConversation:  count > 0,
		MultipleConversations: count > 1,
		ConversationCount:     count,
	}

	score := 0
	if details.VisitedPricingPage {
		score += w.VisitedPricingPage
	}
	if details.StartedCheckout {
		score += w.StartedCheckout
	}
	if details.HadVoiceConversation {
		score += w.HadVoiceConversation
	}
	if details.MultipleConversations {
		score += w.MultipleConversations
	}

	return EngagementSignals{
		Score:    clamp(score, maxEngagementScore),
		MaxScore: maxEngagementScore,
		Details:  details,
	}
}

func scoreBusinessFit(lead *entity.Lead, w BusinessFitWeights) BusinessFit {
	details := BusinessFitDetails{
		BudgetMatchesPackages:  budgetMatchesPackages(deref(lead.BudgetRange)),
		TimelineIsImmediate:    timelineIsImmediate(deref(lead.Timeline)),
		HasVideoMarketingGoals: len(strings.TrimSpace(deref(lead.VideoGoals))) > 10,
	}

	score := 0
	if details.BudgetMatchesPackages {
		score += w.BudgetMatchesPackages
	}
	if details.TimelineIsImmediate {
		score += w.TimelineIsImmediate
	}
	if details.HasVideoMarketingGoals {
		score += w.HasVideoMarketingGoals
	}

	return BusinessFit{
		Score:    clamp(score, maxBusinessFitScore),
		MaxScore: maxBusinessFitScore,
		Details:  details,
	}
}

func scoreIntentSignals(lead *entity.Lead, conversations []entity.VoiceConversation, w IntentWeights) IntentSignals {
	details := IntentDetails{
		ExpressedPurchaseIntent: expressedPurchaseIntent(conversations),
		BookedCall:              bookedCall(conversations),
		RequestedProposal:       requestedProposal(lead, conversations),
	}

	score := 0
	if details.ExpressedPurchaseIntent {
		score += w.ExpressedPurchaseIntent
	}
	if details.BookedCall {
		score += w.BookedCall
	}
	if details.RequestedProposal {
		score += w.RequestedProposal
	}

	return IntentSignals{
		Score:    clamp(score, maxIntentScore),
		MaxScore: maxIntentScore,
		Details:  details,
	}
}

var digitsPattern = regexp.MustCompile(`\d+`)

// budgetMatchesPackages reports whether the stated budget range falls inside
// one of the offered package price bands, or mentions a package by name.
func budgetMatchesPackages(budgetRange string) bool {
	budget := strings.ToLower(strings.TrimSpace(budgetRange))
	if budget == "" {
		return false
	}

	if numbers := digitsPattern.FindAllString(budget, -1); len(numbers) > 0 {
		if minBudget, err := strconv.Atoi(numbers[0]); err == nil {
			for _, band := range packageBudgets {
				if minBudget >= band.min && minBudget <= band.max {
					return true
				}
			}
		}
	}

	for _, keyword := range budgetKeywords {
		if strings.Contains(budget, keyword) {
			return true
		}
	}
	return false
}

func timelineIsImmediate(timeline string) bool {
	t := strings.ToLower(strings.TrimSpace(timeline))
	if t == "" {
		return false
	}
	for _, keyword := range immediateTimelineKeywords {
		if strings.Contains(t, keyword) {
			return true
		}
	}
	return false
}

func expressedPurchaseIntent(conversations []entity.VoiceConversation) bool {
	for _, conv := range conversations {
		intent := strings.ToLower(deref(conv.IntentDetected))
		for _, keyword := range purchaseIntentKeywords {
			if intent != "" && strings.Contains(intent, keyword) {
				return true
			}
		}
		transcript := strings.ToLower(deref(conv.Transcript))
		for _, phrase := range purchaseIntentPhrases {
			if transcript != "" && strings.Contains(transcript, phrase) {
				return true
			}
		}
	}
	return false
}

func bookedCall(conversations []entity.VoiceConversation) bool {
	for _, conv := range conversations {
		if conv.CallBooked || deref(conv.Outcome) == "booked_call" {
			return true
		}
	}
	return false
}

func requestedProposal(lead *entity.Lead, conversations []entity.VoiceConversation) bool {
	if lead.Status == entity.StatusProposalSent {
		return true
	}
	for _, conv := range conversations {
		transcript := strings.ToLower(deref(conv.Transcript))
		for _, phrase := range proposalPhrases {
			if transcript != "" && strings.Contains(transcript, phrase) {
				return true
			}
		}
	}
	return false
}

func clamp(score, max int) int {
	if score > max {
		return max
	}
	return score
}

func present(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
