package core

// Group is one of the 50/30/20 buckets.
type Group string

const (
	GroupNeeds   Group = "needs"
	GroupWants   Group = "wants"
	GroupSavings Group = "savings"
)

var (
	// DefaultNeedsCategories are the categories charged to needs out of the box.
	DefaultNeedsCategories = []string{"food", "utilities", "health", "transportation", "education", "fitness"}
	// DefaultWantsCategories are the categories charged to wants out of the box.
	DefaultWantsCategories = []string{"entertainment"}
)

// GroupPolicy partitions category names into needs and wants.
//
// Classification is total: anything not enumerated as a want is a need,
// including categories a caller may think of as savings. Savings is only
// ever fed by goals, never by transactions.
type GroupPolicy struct {
	needs map[string]struct{}
	wants map[string]struct{}
}

// NewGroupPolicy builds a policy from the two category lists.
func NewGroupPolicy(needs, wants []string) GroupPolicy {
	p := GroupPolicy{
		needs: make(map[string]struct{}, len(needs)),
		wants: make(map[string]struct{}, len(wants)),
	}
	for _, c := range needs {
		p.needs[c] = struct{}{}
	}
	for _, c := range wants {
		p.wants[c] = struct{}{}
	}
	return p
}

// DefaultGroupPolicy uses DefaultNeedsCategories and DefaultWantsCategories.
func DefaultGroupPolicy() GroupPolicy {
	return NewGroupPolicy(DefaultNeedsCategories, DefaultWantsCategories)
}

// Classify returns GroupNeeds or GroupWants for category. A category listed
// in both sets is a need.
func (p GroupPolicy) Classify(category string) Group {
	if _, ok := p.needs[category]; ok {
		return GroupNeeds
	}
	if _, ok := p.wants[category]; ok {
		return GroupWants
	}
	return GroupNeeds
}

// IsWant reports whether category is charged to wants.
func (p GroupPolicy) IsWant(category string) bool {
	return p.Classify(category) == GroupWants
}

// GroupTotals holds one amount per bucket.
type GroupTotals struct {
	Needs   Money
	Wants   Money
	Savings Money
}

// Total sums the three buckets.
func (g GroupTotals) Total() Money {
	return g.Needs.Add(g.Wants).Add(g.Savings)
}

// Get returns the amount for a single bucket.
func (g GroupTotals) Get(group Group) Money {
	switch group {
	case GroupNeeds:
		return g.Needs
	case GroupWants:
		return g.Wants
	case GroupSavings:
		return g.Savings
	}
	return Money{}
}

// GroupSpent charges each category total to its bucket. Savings stays zero.
func GroupSpent(totals CategoryTotals, policy GroupPolicy) GroupTotals {
	var g GroupTotals
	for cat, amount := range totals {
		switch policy.Classify(cat) {
		case GroupWants:
			g.Wants = g.Wants.Add(amount)
		default:
			g.Needs = g.Needs.Add(amount)
		}
	}
	return g
}
