package labfees

import (
	"fmt"
	"sort"
)

// UnknownRoleError marks a staff role with no labor-rate entry.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("invalid role: %s, role not found in labor rates", e.Role)
}

// PriceLookup resolves a (test, turnaround) pair to a price. A missing rate
// is reported through the found flag, never as an error.
type PriceLookup interface {
	PriceFor(testID, turnTimeID string) (price float64, found bool, err error)
}

// LaborRateLookup resolves a labor role to its hourly rate.
type LaborRateLookup interface {
	Lookup(role string) (rate float64, found bool, err error)
}

// StaffAssignmentInput is one staff assignment of an order request.
type StaffAssignmentInput struct {
	Role           string  `json:"role"`
	Count          int     `json:"count"`
	HoursPerPerson float64 `json:"hours_per_person"`
}

// OrderRequest is the full input of one lab-fees order.
type OrderRequest struct {
	ProjectName      string                 `json:"project_name"`
	HRSEstimationID  string                 `json:"hrs_estimation_id"`
	OrderDetails     OrderDetails           `json:"order_details"`
	StaffAssignments []StaffAssignmentInput `json:"staff_assignments"`
}

// OrderResult is the computed output of one lab-fees order.
type OrderResult struct {
	TotalSamples        float64       `json:"total_samples"`
	TotalLabFeesCost    float64       `json:"total_lab_fees_cost"`
	TotalStaffLaborCost float64       `json:"total_staff_labor_cost"`
	TotalCost           float64       `json:"total_cost"`
	StaffBreakdown      StaffCostList `json:"staff_breakdown,omitempty"`
}

// Compute prices the order. Test/turnaround pairs with no lab rate are
// skipped: the lab simply does not offer that combination. Unknown staff
// roles are a validation failure.
func Compute(prices PriceLookup, laborRates LaborRateLookup, req *OrderRequest) (*OrderResult, error) {
	res := &OrderResult{}

	testIDs := make([]string, 0, len(req.OrderDetails))
	for testID := range req.OrderDetails {
		testIDs = append(testIDs, testID)
	}
	sort.Strings(testIDs)
	for _, testID := range testIDs {
		turnTimes := req.OrderDetails[testID]
		turnTimeIDs := make([]string, 0, len(turnTimes))
		for id := range turnTimes {
			turnTimeIDs = append(turnTimeIDs, id)
		}
		sort.Strings(turnTimeIDs)
		for _, turnTimeID := range turnTimeIDs {
			quantity := turnTimes[turnTimeID]
			price, found, err := prices.PriceFor(testID, turnTimeID)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			res.TotalSamples += quantity
			res.TotalLabFeesCost += price * quantity
		}
	}

	for _, assignment := range req.StaffAssignments {
		rate, found, err := laborRates.Lookup(assignment.Role)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &UnknownRoleError{Role: assignment.Role}
		}
		totalHours := float64(assignment.Count) * assignment.HoursPerPerson
		totalCost := totalHours * rate
		res.StaffBreakdown = append(res.StaffBreakdown, StaffCost{
			Role:           assignment.Role,
			Count:          assignment.Count,
			HoursPerPerson: assignment.HoursPerPerson,
			TotalHours:     totalHours,
			HourlyRate:     rate,
			TotalCost:      totalCost,
		})
		res.TotalStaffLaborCost += totalCost
	}

	res.TotalCost = res.TotalLabFeesCost + res.TotalStaffLaborCost
	return res, nil
}
