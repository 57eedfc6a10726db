package config

import (
	"encoding/json"
	"fmt"
	"os"

	"finmate/internal/core"
)

// DefaultMerchants is the built-in merchant to category map.
var DefaultMerchants = core.CategoryMap{
	"Whole Foods":    "food",
	"Trader Joe's":   "food",
	"Chipotle":       "food",
	"ConEd":          "utilities",
	"Verizon":        "utilities",
	"CVS Pharmacy":   "health",
	"Uber":           "transportation",
	"MTA":            "transportation",
	"Coursera":       "education",
	"Planet Fitness": "fitness",
	"Netflix":        "entertainment",
	"AMC Theatres":   "entertainment",
	"Steam":          "entertainment",
}

// Categories is the categorization setup: how merchants map to categories and
// how categories map to the needs and wants groups.
type Categories struct {
	Merchants core.CategoryMap
	Policy    core.GroupPolicy
}

type categoryFile struct {
	Merchants map[string]string `json:"merchants"`
	Needs     []string          `json:"needs"`
	Wants     []string          `json:"wants"`
}

// LoadCategories builds the categorization setup. The map file, when set,
// replaces the built-in merchants; NEEDS_CATEGORIES and WANTS_CATEGORIES
// override the group lists from either source.
func (c *Config) LoadCategories() (Categories, error) {
	merchants := DefaultMerchants
	needs := core.DefaultNeedsCategories
	wants := core.DefaultWantsCategories

	if c.CategoryMapFile != "" {
		f, err := readCategoryFile(c.CategoryMapFile)
		if err != nil {
			return Categories{}, err
		}
		if len(f.Merchants) > 0 {
			merchants = core.CategoryMap(f.Merchants)
		}
		if len(f.Needs) > 0 {
			needs = f.Needs
		}
		if len(f.Wants) > 0 {
			wants = f.Wants
		}
	}

	if len(c.NeedsCategories) > 0 {
		needs = c.NeedsCategories
	}
	if len(c.WantsCategories) > 0 {
		wants = c.WantsCategories
	}

	return Categories{
		Merchants: merchants,
		Policy:    core.NewGroupPolicy(needs, wants),
	}, nil
}

func readCategoryFile(path string) (categoryFile, error) {
	var f categoryFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read category map: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse category map %s: %w", path, err)
	}
	return f, nil
}

// DefaultBudgets parses the DEFAULT_*_BUDGET dollar strings.
func (c *Config) DefaultBudgets() (core.BudgetConfig, error) {
	needs, err := parseBudget(c.DefaultNeedsBudget)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("needs budget: %w", err)
	}
	wants, err := parseBudget(c.DefaultWantsBudget)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("wants budget: %w", err)
	}
	savings, err := parseBudget(c.DefaultSavingsBudget)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("savings budget: %w", err)
	}
	return core.BudgetConfig{Needs: needs, Wants: wants, Savings: savings}, nil
}

func parseBudget(s string) (core.Money, error) {
	cents, err := core.ParseDollarsToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}
