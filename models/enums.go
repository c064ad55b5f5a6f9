package models

import (
	"encoding/json"
	"errors"
	"strings"
)

type Product string

const (
	ProductEnviroshake   Product = "Enviroshake"
	ProductEnviroslate   Product = "Enviroslate"
	ProductEnviroshingle Product = "Enviroshingle"
)

var AllProducts = []Product{ProductEnviroshake, ProductEnviroslate, ProductEnviroshingle}

func (p Product) IsValid() bool {
	switch p {
	case ProductEnviroshake, ProductEnviroslate, ProductEnviroshingle:
		return true
	}
	return false
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("product must be string")
	}
	*p = Product(strings.TrimSpace(s))
	return nil
}

type Warehouse string

const (
	WarehouseDresden Warehouse = "Dresden"
	WarehouseBC      Warehouse = "BC"
	WarehouseBuffalo Warehouse = "Buffalo"
)

// ProductionWarehouse is where every produced lot starts.
const ProductionWarehouse = WarehouseDresden

var AllWarehouses = []Warehouse{WarehouseDresden, WarehouseBC, WarehouseBuffalo}

func (w Warehouse) IsValid() bool {
	switch w {
	case WarehouseDresden, WarehouseBC, WarehouseBuffalo:
		return true
	}
	return false
}

type LotType string

const (
	LotTypeBundle   LotType = "Bundle"
	LotTypeCap2_3   LotType = "Cap 2-3"
	LotTypeCap4_5   LotType = "Cap 4-5"
	LotTypeCap6_7   LotType = "Cap 6-7"
	LotTypeCap8_9   LotType = "Cap 8-9"
	LotTypeCap10_11 LotType = "Cap 10-11"
	LotTypeCap12_13 LotType = "Cap 12-13"
	LotTypeCap14_15 LotType = "Cap 14-15"
	LotTypeCap16_17 LotType = "Cap 16-17"
	LotTypeCap18_19 LotType = "Cap 18-19"
	LotTypeCap20_21 LotType = "Cap 20-21"
)

// LotTypeCapFamily stands for every Cap band when planning; lots never carry it.
const LotTypeCapFamily LotType = "Cap"

var AllLotTypes = []LotType{
	LotTypeBundle,
	LotTypeCap2_3, LotTypeCap4_5, LotTypeCap6_7, LotTypeCap8_9, LotTypeCap10_11,
	LotTypeCap12_13, LotTypeCap14_15, LotTypeCap16_17, LotTypeCap18_19, LotTypeCap20_21,
}

func (t LotType) IsValid() bool {
	for _, v := range AllLotTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsCap reports whether t is one of the Cap bands.
func (t LotType) IsCap() bool {
	return t != LotTypeBundle && t.IsValid()
}

// IsPlannable reports whether t can be planned: Bundle, a Cap band or the Cap family.
func (t LotType) IsPlannable() bool {
	return t == LotTypeCapFamily || t.IsValid()
}

type Stage string

const (
	StageAvailable Stage = "Available"
	StageAllocated Stage = "Allocated"
	StageOpen      Stage = "Open"
	StageReleased  Stage = "Released"
	StageStaged    Stage = "Staged"
	StageShipped   Stage = "Shipped"
	StageTransfer  Stage = "Transfer"

	StagePendingReview Stage = "Pending Review"
	StagePass          Stage = "Pass"
	StageQuarantine    Stage = "Quarantine"
	StageRegrindQueue  Stage = "Add to Regrind in Queue"
	StageDisposal      Stage = "Disposal"
)

// DefaultStage is the stage assigned on production.
const DefaultStage = StageAvailable

var WorkflowStages = []Stage{StageAvailable, StageAllocated, StageOpen, StageReleased, StageStaged, StageShipped, StageTransfer}

var QCStages = []Stage{StagePendingReview, StagePass, StageQuarantine, StageRegrindQueue, StageDisposal}

func (s Stage) IsQC() bool {
	for _, v := range QCStages {
		if v == s {
			return true
		}
	}
	return false
}

func (s Stage) IsValid() bool {
	if s.IsQC() {
		return true
	}
	for _, v := range WorkflowStages {
		if v == s {
			return true
		}
	}
	return false
}

type Shift string

const (
	ShiftFirst  Shift = "First"
	ShiftSecond Shift = "Second"
	ShiftThird  Shift = "Third"
)

// Audit actions.
const (
	ActionRawMaterialReceived = "Raw Material Received"
	ActionMaterialUsed        = "Material Used"
	ActionInitialWeight       = "Initial Weight"
	ActionRawMaterialUpdated  = "Raw Material Updated"
	ActionRawMaterialDeleted  = "Raw Material Deleted"
	ActionProductionAdded     = "Production Added"
	ActionLeadHandLog         = "Lead Hand Log"
	ActionWarehouseUpdated    = "Warehouse Item Updated"
	ActionWarehouseSplit      = "Warehouse Item Split"
	ActionWarehouseDeleted    = "Warehouse Item Deleted"
	ActionWarehouseTransfer   = "Warehouse Transfer"
	ActionSettingsUpdated     = "Settings Updated"
)

// Audit actors.
const (
	UserPurchasingManager = "Purchasing Manager"
	UserInventoryManager  = "Inventory Manager"
	UserWarehouseManager  = "Warehouse Manager"
	UserLeadHand          = "Lead Hand"
	UserAdministrator     = "Administrator"
	UserSystem            = "System"
)

func leadHandUser(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UserLeadHand
	}
	return UserLeadHand + " - " + name
}
