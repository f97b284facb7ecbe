package scoring

// Configuration carries the per-signal point values and the auto-qualify
// threshold. It is treated as an immutable value: callers pass it into
// Calculate and Estimate rather than mutating shared state.
type Configuration struct {
	ProfileCompleteness  ProfileWeights
	EngagementSignals    EngagementWeights
	BusinessFit          BusinessFitWeights
	IntentSignals        IntentWeights
	AutoQualifyThreshold int
}

// ProfileWeights holds the points awarded per profile field.
type ProfileWeights struct {
	Email        int
	Phone        int
	BusinessName int
	Website      int
	BudgetInfo   int
}

// EngagementWeights holds the points awarded per engagement signal.
type EngagementWeights struct {
	VisitedPricingPage    int
	StartedCheckout       int
	HadVoiceConversation  int
	MultipleConversations int
}

// BusinessFitWeights holds the points awarded per business-fit signal.
type BusinessFitWeights struct {
	BudgetMatchesPackages  int
	TimelineIsImmediate    int
	HasVideoMarketingGoals int
}

// IntentWeights holds the points awarded per intent signal.
type IntentWeights struct {
	ExpressedPurchaseIntent int
	BookedCall              int
	RequestedProposal       int
}

// Category maxima. The raw weight sums deliberately exceed some of these;
// category scores are clamped at the maximum rather than the weights rescaled.
const (
	maxProfileScore     = 25
	maxEngagementScore  = 25
	maxBusinessFitScore = 25
	maxIntentScore      = 25
)

// Grade thresholds over the 0-100 total, inclusive lower bounds.
const (
	gradeAThreshold = 80
	gradeBThreshold = 60
	gradeCThreshold = 40
)

// DefaultConfiguration returns the production weight set.
func DefaultConfiguration() Configuration {
	return Configuration{
		ProfileCompleteness: ProfileWeights{
			Email:        5,
			Phone:        5,
			BusinessName: 5,
			Website:      5,
			BudgetInfo:   5,
		},
		EngagementSignals: EngagementWeights{
			VisitedPricingPage:    10,
			StartedCheckout:       15,
			HadVoiceConversation:  10,
			MultipleConversations: 5,
		},
		BusinessFit: BusinessFitWeights{
			BudgetMatchesPackages:  15,
			TimelineIsImmediate:    10,
			HasVideoMarketingGoals: 5,
		},
		IntentSignals: IntentWeights{
			ExpressedPurchaseIntent: 15,
			BookedCall:              20,
			RequestedProposal:       10,
		},
		AutoQualifyThreshold: 70,
	}
}

// packageBudget describes the price band of one offered package.
type packageBudget struct {
	min int
	max int
}

// Price bands of the offered production packages, in the order they are sold.
var packageBudgets = []packageBudget{
	{min: 497, max: 997},    // launch-kit
	{min: 997, max: 2497},   // content-engine
	{min: 2497, max: 4997},  // content-engine-pro
	{min: 4997, max: 10000}, // authority-engine
}

var budgetKeywords = []string{"launch", "content", "authority", "500", "1000", "2500"}

var immediateTimelineKeywords = []string{"immediate", "asap", "now", "this week", "this month", "urgent"}

var purchaseIntentKeywords = []string{"purchase", "buy", "ready"}

var purchaseIntentPhrases = []string{
	"i want to buy",
	"ready to purchase",
	"let's move forward",
	"sign up",
	"get started",
}

var proposalPhrases = []string{"send proposal", "quote", "pricing details"}
