package hrs

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// SamplingMinutes holds minutes-per-sample constants for each hazard
// category. The zero value is not usable; start from DefaultSamplingMinutes.
type SamplingMinutes struct {
	Asbestos float64
	XRF      float64
	Lead     float64
	Mold     float64
}

// DefaultSamplingMinutes are the firm's standard minutes-per-sample figures.
func DefaultSamplingMinutes() SamplingMinutes {
	return SamplingMinutes{Asbestos: 15, XRF: 3, Lead: 10, Mold: 20}
}

// DeriveEfficiencyFactor maps field staff count to the parallel-sampling
// efficiency factor: additional samplers overlap, so per-category hours
// shrink with diminishing returns.
func DeriveEfficiencyFactor(staffCount int) float64 {
	if staffCount <= 1 {
		return 1.0
	}
	if staffCount == 2 {
		return 0.7
	}
	return 0.6
}

// ErrNoRoleSelected is returned when an estimate produces billable hours but
// names neither a staff list nor a selected role.
var ErrNoRoleSelected = errors.New("at least one labor role must be selected to calculate labor cost")

// UnknownRoleError marks a role with no labor-rate entry.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("invalid role: %s", e.Role)
}

// RateLookup resolves a labor role to its hourly rate. A nil record with a
// nil error means the role has no rate entry.
type RateLookup interface {
	Lookup(role string) (rate float64, found bool, err error)
}

// AsbestosLineInput is one asbestos component line of a request.
type AsbestosLineInput struct {
	ComponentName string  `json:"component_name"`
	UnitLabel     string  `json:"unit_label"`
	Actuals       float64 `json:"actuals"`
	BulksPerUnit  float64 `json:"bulks_per_unit"`
}

// LeadLineInput is one lead component line of a request.
type LeadLineInput struct {
	ComponentName string  `json:"component_name"`
	XRFShots      float64 `json:"xrf_shots"`
	ChipsWipes    float64 `json:"chips_wipes"`
}

// MoldLineInput is one mold component line of a request.
type MoldLineInput struct {
	ComponentName string  `json:"component_name"`
	TapeLift      float64 `json:"tape_lift"`
	SporeTrap     float64 `json:"spore_trap"`
	Culturable    float64 `json:"culturable"`
}

// ORMInput is the other-regulated-materials block, supplied directly in
// hours.
type ORMInput struct {
	BuildingTotalSF *float64 `json:"building_total_sf"`
	Hours           float64  `json:"hours"`
}

// StaffInput is one role/count pair for multi-role costing.
type StaffInput struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// EstimateRequest is the full input of one sampling-hours estimate.
type EstimateRequest struct {
	ProjectName string `json:"project_name"`

	OverrideMinutesAsbestos *float64 `json:"override_minutes_asbestos"`
	OverrideMinutesXRF      *float64 `json:"override_minutes_xrf"`
	OverrideMinutesLead     *float64 `json:"override_minutes_lead"`
	OverrideMinutesMold     *float64 `json:"override_minutes_mold"`

	FieldStaffCount  int      `json:"field_staff_count"`
	EfficiencyFactor *float64 `json:"efficiency_factor"`

	AsbestosLines []AsbestosLineInput `json:"asbestos_lines"`
	LeadLines     []LeadLineInput     `json:"lead_lines"`
	MoldLines     []MoldLineInput     `json:"mold_lines"`
	ORM           *ORMInput           `json:"orm"`

	SelectedRole     string             `json:"selected_role"`
	Staff            []StaffInput       `json:"staff"`
	ManualLaborHours map[string]float64 `json:"manual_labor_hours"`
}

// Result is the computed output of one sampling-hours estimate.
type Result struct {
	Minutes          SamplingMinutes `json:"-"`
	FieldStaffCount  int             `json:"field_staff_count"`
	EfficiencyFactor float64         `json:"efficiency_factor"`

	TotalPLM        float64 `json:"total_plm"`
	TotalXRFShots   float64 `json:"total_xrf_shots"`
	TotalChipsWipes float64 `json:"total_chips_wipes"`
	TotalTapeLift   float64 `json:"total_tape_lift"`
	TotalSporeTrap  float64 `json:"total_spore_trap"`
	TotalCulturable float64 `json:"total_culturable"`
	ORMHours        float64 `json:"orm_hours"`

	SuggestedHoursBase  float64 `json:"suggested_hours_base"`
	SuggestedHoursFinal float64 `json:"suggested_hours_final"`

	SelectedRole     string       `json:"selected_role,omitempty"`
	CalculatedCost   *float64     `json:"calculated_cost"`
	StaffBreakdown   RoleCostList `json:"staff_breakdown,omitempty"`
	ManualLaborCosts RoleCostList `json:"manual_labor_costs,omitempty"`
	TotalCost        float64      `json:"total_cost"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func effectiveMinutes(defaults SamplingMinutes, req *EstimateRequest) SamplingMinutes {
	m := defaults
	if req.OverrideMinutesAsbestos != nil {
		m.Asbestos = *req.OverrideMinutesAsbestos
	}
	if req.OverrideMinutesXRF != nil {
		m.XRF = *req.OverrideMinutesXRF
	}
	if req.OverrideMinutesLead != nil {
		m.Lead = *req.OverrideMinutesLead
	}
	if req.OverrideMinutesMold != nil {
		m.Mold = *req.OverrideMinutesMold
	}
	return m
}

// Compute runs the sampling-hours calculation. It touches no storage beyond
// labor-rate lookups and has no side effects.
func Compute(defaults SamplingMinutes, rates RateLookup, req *EstimateRequest) (*Result, error) {
	staffCount := req.FieldStaffCount
	if staffCount < 1 {
		staffCount = 1
	}
	eff := DeriveEfficiencyFactor(staffCount)
	if req.EfficiencyFactor != nil {
		eff = *req.EfficiencyFactor
	}

	res := &Result{
		Minutes:          effectiveMinutes(defaults, req),
		FieldStaffCount:  staffCount,
		EfficiencyFactor: eff,
	}

	for _, l := range req.AsbestosLines {
		res.TotalPLM += l.Actuals * l.BulksPerUnit
	}
	for _, l := range req.LeadLines {
		res.TotalXRFShots += l.XRFShots
		res.TotalChipsWipes += l.ChipsWipes
	}
	for _, l := range req.MoldLines {
		res.TotalTapeLift += l.TapeLift
		res.TotalSporeTrap += l.SporeTrap
		res.TotalCulturable += l.Culturable
	}
	if req.ORM != nil {
		res.ORMHours = req.ORM.Hours
	}

	hAsbestos := res.Minutes.Asbestos * res.TotalPLM / 60
	hXRF := res.Minutes.XRF * res.TotalXRFShots / 60
	hLead := res.Minutes.Lead * res.TotalChipsWipes / 60
	hMold := res.Minutes.Mold * (res.TotalTapeLift + res.TotalSporeTrap + res.TotalCulturable) / 60

	// ORM hours are supplied directly and are exempt from efficiency scaling.
	fieldHours := hAsbestos + hXRF + hLead + hMold
	res.SuggestedHoursBase = round2(fieldHours + res.ORMHours)
	res.SuggestedHoursFinal = round2(fieldHours*eff + res.ORMHours)

	hasStaff := len(req.Staff) > 0
	if res.SuggestedHoursFinal > 0 && !hasStaff && req.SelectedRole == "" {
		return nil, ErrNoRoleSelected
	}

	if hasStaff {
		totalStaffCost := 0.0
		for _, s := range req.Staff {
			if s.Role == "" || s.Count <= 0 {
				continue
			}
			rate, found, err := rates.Lookup(s.Role)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, &UnknownRoleError{Role: s.Role}
			}
			hours := round2(res.SuggestedHoursFinal)
			cost := round2(hours * rate * float64(s.Count))
			res.StaffBreakdown = append(res.StaffBreakdown, RoleCost{
				Role: s.Role, Count: s.Count, Hours: hours, Cost: cost,
			})
			totalStaffCost += cost
		}
		res.CalculatedCost = &totalStaffCost
	} else if req.SelectedRole != "" {
		rate, found, err := rates.Lookup(req.SelectedRole)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &UnknownRoleError{Role: req.SelectedRole}
		}
		cost := round2(res.SuggestedHoursFinal * rate)
		res.SelectedRole = req.SelectedRole
		res.CalculatedCost = &cost
	}

	// Manual entries price extra office roles; unrecognized roles are
	// skipped rather than rejected.
	if len(req.ManualLaborHours) > 0 {
		roles := make([]string, 0, len(req.ManualLaborHours))
		for role := range req.ManualLaborHours {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			hours := req.ManualLaborHours[role]
			if hours <= 0 {
				continue
			}
			rate, found, err := rates.Lookup(role)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			res.ManualLaborCosts = append(res.ManualLaborCosts, RoleCost{
				Role: role, Hours: hours, Cost: round2(hours * rate),
			})
		}
	}

	if res.CalculatedCost != nil {
		res.TotalCost = *res.CalculatedCost
	}
	for _, m := range res.ManualLaborCosts {
		res.TotalCost += m.Cost
	}
	res.TotalCost = round2(res.TotalCost)

	return res, nil
}
