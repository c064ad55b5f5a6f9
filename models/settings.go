package models

import (
	"strings"

	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

// RecipeLine is one raw material of a colour's reference batch.
type RecipeLine struct {
	RawMaterial string          `json:"rawMaterial"`
	Weight      decimal.Decimal `json:"weight"`
}

// RecipeBook maps a colour to its ordered recipe lines.
type RecipeBook map[string][]RecipeLine

type MaterialConfig struct {
	Vendor           string          `json:"vendor"`
	MinQuantity      decimal.Decimal `json:"minQuantity"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit"`
	UsagePerBatch    decimal.Decimal `json:"usagePerBatch"`
	AvgBatchesPerDay decimal.Decimal `json:"avgBatchesPerDay"`
}

type Settings struct {
	LowStockAlertLevel decimal.Decimal           `json:"lowStockAlertLevel"`
	RawMaterials       []string                  `json:"rawMaterials"`
	Vendors            []string                  `json:"vendors"`
	EmailAddresses     []string                  `json:"emailAddresses"`
	Colors             []string                  `json:"colors"`
	Recipes            RecipeBook                `json:"recipes"`
	MaterialValues     map[string]MaterialConfig `json:"materialValues"`
}

type NewSettings struct {
	LowStockAlertLevel decimal.Decimal           `json:"lowStockAlertLevel"`
	RawMaterials       []string                  `json:"rawMaterials" validate:"dive,required"`
	Vendors            []string                  `json:"vendors" validate:"dive,required"`
	EmailAddresses     []string                  `json:"emailAddresses" validate:"dive,email"`
	Colors             []string                  `json:"colors" validate:"dive,required"`
	Recipes            RecipeBook                `json:"recipes"`
	MaterialValues     map[string]MaterialConfig `json:"materialValues"`
}

func (input NewSettings) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.LowStockAlertLevel.IsNegative() || input.LowStockAlertLevel.GreaterThan(decimal.NewFromInt(1)) {
		return utils.Invalidf("lowStockAlertLevel must be between 0 and 1")
	}
	for colour, lines := range input.Recipes {
		for _, line := range lines {
			if strings.TrimSpace(line.RawMaterial) == "" {
				return utils.Invalidf("recipe %q: raw material is required", colour)
			}
			if line.Weight.IsNegative() {
				return utils.Invalidf("recipe %q: weight of %s must not be negative", colour, line.RawMaterial)
			}
		}
	}
	for name, mc := range input.MaterialValues {
		if mc.MinQuantity.IsNegative() || mc.PricePerUnit.IsNegative() || mc.UsagePerBatch.IsNegative() || mc.AvgBatchesPerDay.IsNegative() {
			return utils.Invalidf("material %q: values must not be negative", name)
		}
	}
	return nil
}

func (input NewSettings) toSettings() Settings {
	s := Settings{
		LowStockAlertLevel: input.LowStockAlertLevel,
		RawMaterials:       trimAll(input.RawMaterials),
		Vendors:            trimAll(input.Vendors),
		EmailAddresses:     trimAll(input.EmailAddresses),
		Colors:             trimAll(input.Colors),
		Recipes:            RecipeBook{},
		MaterialValues:     map[string]MaterialConfig{},
	}
	for colour, lines := range input.Recipes {
		s.Recipes[colour] = append([]RecipeLine(nil), lines...)
	}
	for name, mc := range input.MaterialValues {
		s.MaterialValues[name] = mc
	}
	return s
}

// Copy returns a deep copy so callers cannot mutate coordinator state.
func (s Settings) Copy() Settings {
	return NewSettings{
		LowStockAlertLevel: s.LowStockAlertLevel,
		RawMaterials:       s.RawMaterials,
		Vendors:            s.Vendors,
		EmailAddresses:     s.EmailAddresses,
		Colors:             s.Colors,
		Recipes:            s.Recipes,
		MaterialValues:     s.MaterialValues,
	}.toSettings()
}

func (s Settings) HasRawMaterial(name string) bool {
	return len(s.RawMaterials) == 0 || utils.Contains(s.RawMaterials, name)
}

func (s Settings) HasColour(colour string) bool {
	return len(s.Colors) == 0 || utils.Contains(s.Colors, colour)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func DefaultSettings() Settings {
	return Settings{
		LowStockAlertLevel: decimal.NewFromFloat(0.2),
		RawMaterials: []string{
			"PP EFS", "PP Clear Co-Polymer", "PP White", "PE EFS", "PE Clear", "PE White",
			"LXR", "Rubber Crumb", "Colour Masterbatch", "PP EFS - HMF", "Microingredients",
			"Wax", "AC MB CR20050", "SC MB CR20060", "Carbon Black MB CB84002",
			"Cool Roof MB CSC 10030", "TSL/CR CSC 10050", "TSL MB CR20062",
			"Disney Brown MB CR20080", "FR78070PP", "PP Co-Polymer Virgin", "Wood Fiber",
		},
		Vendors:        []string{"EFS Plastics", "SM Polymers", "Kraton", "CRM Canada", "Polyten", "AWF"},
		EmailAddresses: []string{"jeddore.mcdonald@enviroshake.com"},
		Colors: []string{
			"Weathered Wood", "Cedar Blend", "Rustic Red", "Storm Grey", "Charcoal", "Midnight Blue",
			"Weathered Copper", "Driftwood", "Sage Green", "Coastal Blue", "Autumn Bronze",
		},
		Recipes:        RecipeBook{},
		MaterialValues: map[string]MaterialConfig{},
	}
}
