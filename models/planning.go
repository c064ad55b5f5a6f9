package models

import (
	"strings"

	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

var (
	enviroshakeBatchDivisor = decimal.NewFromInt(2)
	otherBatchDivisor       = decimal.NewFromFloat(2.1)
	bundleUnitsPerBatch     = decimal.NewFromInt(13)
	capUnitsPerBatch        = decimal.NewFromInt(10)
)

// ProductDivisor normalizes a reference-batch recipe weight to one batch of product.
func ProductDivisor(p Product) decimal.Decimal {
	if p == ProductEnviroshake {
		return enviroshakeBatchDivisor
	}
	return otherBatchDivisor
}

// UnitsPerBatch is the number of units of type t one batch yields. Every Cap band
// and the Cap family yield the same.
func UnitsPerBatch(t LotType) decimal.Decimal {
	if t == LotTypeBundle {
		return bundleUnitsPerBatch
	}
	return capUnitsPerBatch
}

type PlanRequest struct {
	Colour  string  `json:"colour" form:"colour" validate:"required"`
	Product Product `json:"product" form:"product" validate:"required"`
	Type    LotType `json:"type" form:"type" validate:"required"`
	Units   int     `json:"units" form:"units" validate:"gte=0"`
}

func (input *PlanRequest) validate() error {
	input.Colour = strings.TrimSpace(input.Colour)
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Product.IsValid() {
		return utils.Invalidf("invalid product %q", input.Product)
	}
	if !input.Type.IsPlannable() {
		return utils.Invalidf("invalid type %q", input.Type)
	}
	return nil
}

type PlanLine struct {
	RawMaterial     string          `json:"rawMaterial"`
	RecipeWeight    decimal.Decimal `json:"recipeWeight"`
	PerBatch        decimal.Decimal `json:"perBatch"`
	PerUnit         decimal.Decimal `json:"perUnit"`
	Available       decimal.Decimal `json:"available"`
	PossibleBatches decimal.Decimal `json:"possibleBatches"`
	Unbounded       bool            `json:"unbounded"`
	Leftover        decimal.Decimal `json:"leftover"`
	Needed          decimal.Decimal `json:"needed"`
	Shortfall       decimal.Decimal `json:"shortfall"`
}

type Shortfall struct {
	RawMaterial   string          `json:"rawMaterial"`
	Weight        decimal.Decimal `json:"weight"`
	Vendor        string          `json:"vendor"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
}

type PlanResult struct {
	Colour          string          `json:"colour"`
	Product         Product         `json:"product"`
	Type            LotType         `json:"type"`
	ProductDivisor  decimal.Decimal `json:"productDivisor"`
	UnitsPerBatch   decimal.Decimal `json:"unitsPerBatch"`
	Lines           []PlanLine      `json:"lines"`
	MaxBatches      int64           `json:"maxBatches"`
	MaxUnits        int64           `json:"maxUnits"`
	RequestedUnits  int             `json:"requestedUnits"`
	Shortfalls      []Shortfall     `json:"shortfalls"`
	TotalEstimated  decimal.Decimal `json:"totalEstimatedCost"`
	BindingMaterial string          `json:"bindingMaterial"`
}

// EvaluatePlan finds how many batches the current stock supports for the request's
// recipe and what must be bought to make RequestedUnits more on top of that.
// Each line's possible batches are computed as available*divisor/weight so exact
// results stay exact.
func EvaluatePlan(req PlanRequest, lots []RawMaterial, recipes RecipeBook, materials map[string]MaterialConfig) (PlanResult, error) {
	if err := req.validate(); err != nil {
		return PlanResult{}, err
	}
	recipe, ok := recipes[req.Colour]
	if !ok || len(recipe) == 0 {
		return PlanResult{}, utils.Misconfiguredf("no recipe for colour %q", req.Colour)
	}
	sum := decimal.Zero
	for _, line := range recipe {
		sum = sum.Add(line.Weight)
	}
	if !sum.IsPositive() {
		return PlanResult{}, utils.Misconfiguredf("recipe for colour %q has no weight", req.Colour)
	}

	pd := ProductDivisor(req.Product)
	td := UnitsPerBatch(req.Type)
	stock := StockByMaterial(lots)

	result := PlanResult{
		Colour:         req.Colour,
		Product:        req.Product,
		Type:           req.Type,
		ProductDivisor: pd,
		UnitsPerBatch:  td,
		Lines:          make([]PlanLine, 0, len(recipe)),
		RequestedUnits: req.Units,
		Shortfalls:     []Shortfall{},
		TotalEstimated: decimal.Zero,
	}

	var minPossible *decimal.Decimal
	for _, r := range recipe {
		line := PlanLine{
			RawMaterial:  r.RawMaterial,
			RecipeWeight: r.Weight,
			PerBatch:     r.Weight.Div(pd),
			PerUnit:      r.Weight.Div(pd.Mul(td)),
			Available:    stock[r.RawMaterial],
		}
		if r.Weight.IsZero() {
			line.Unbounded = true
		} else {
			line.PossibleBatches = line.Available.Mul(pd).Div(r.Weight)
			if minPossible == nil || line.PossibleBatches.LessThan(*minPossible) {
				p := line.PossibleBatches
				minPossible = &p
				result.BindingMaterial = r.RawMaterial
			}
		}
		result.Lines = append(result.Lines, line)
	}

	maxBatches := decimal.Zero
	if minPossible != nil && minPossible.IsPositive() {
		maxBatches = minPossible.Floor()
	}
	result.MaxBatches = maxBatches.IntPart()
	result.MaxUnits = maxBatches.Mul(td).IntPart()

	units := decimal.NewFromInt(int64(req.Units))
	for i := range result.Lines {
		line := &result.Lines[i]
		// leftover = available - maxBatches*weight/pd
		line.Leftover = line.Available.Mul(pd).Sub(maxBatches.Mul(line.RecipeWeight)).Div(pd)
		line.Needed = units.Mul(line.RecipeWeight).Div(pd.Mul(td))
		line.Shortfall = decimal.Max(decimal.Zero, line.Needed.Sub(line.Leftover))
		if !line.Shortfall.IsPositive() {
			continue
		}
		mc := materials[line.RawMaterial]
		cost := line.Shortfall.Mul(mc.PricePerUnit).Round(2)
		result.Shortfalls = append(result.Shortfalls, Shortfall{
			RawMaterial:   line.RawMaterial,
			Weight:        line.Shortfall,
			Vendor:        mc.Vendor,
			EstimatedCost: cost,
		})
		result.TotalEstimated = result.TotalEstimated.Add(cost)
	}
	return result, nil
}
