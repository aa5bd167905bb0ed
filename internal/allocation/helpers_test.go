package allocation

import (
	"github.com/avetra/workstation-allocation/internal/model"
)

// Shared fixture builders for the allocation tests.

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testLab(id uint64, total int, rangeText string) model.Lab {
	lab := model.Lab{ID: id, FloorID: 1, Name: "L1", TotalWorkstations: total}
	if rangeText != "" {
		lab.AssetIDRange = strPtr(rangeText)
	}
	return lab
}

func testHold(requestID, labID uint64, position int, status, division string, assetID int) model.SeatHold {
	h := model.SeatHold{
		RequestID: requestID,
		LabID:     labID,
		Position:  position,
		Status:    status,
		Division:  division,
		Requestor: "planner@example.com",
	}
	if assetID != 0 {
		h.AssetID = intPtr(assetID)
	}
	return h
}

func testAlloc(labID uint64, division string, inUse int, rangeText string) model.DivisionAllocation {
	a := model.DivisionAllocation{LabID: labID, Division: division, InUse: inUse}
	if rangeText != "" {
		a.AssetIDRange = strPtr(rangeText)
	}
	return a
}
