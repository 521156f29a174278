package logistics

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// averageDrivingSpeedMPH is used to derive one-way drive time when the
// caller does not supply it.
const averageDrivingSpeedMPH = 55.0

// flightBufferHours is the fixed ground-transit and airport allowance added
// to each traveler's round-trip flight time.
const flightBufferHours = 1.5

// ErrInvalidRentalPeriod is returned when a charged rental block names a
// period type other than daily, weekly, or monthly.
var ErrInvalidRentalPeriod = errors.New("rental_period_type must be one of daily, weekly, or monthly")

// UnknownRoleError marks a staff role with no labor-rate entry.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("invalid role: %s", e.Role)
}

// RateLookup resolves a labor role to its hourly rate.
type RateLookup interface {
	Lookup(role string) (rate float64, found bool, err error)
}

// DrivingInput covers both the roundtrip block (office to site and back per
// day) and the daily block (lodging to site commute); the arithmetic is
// identical.
type DrivingInput struct {
	ProjectLocation     string   `json:"project_location"`
	NumVehicles         int      `json:"num_vehicles"`
	OneWayMiles         float64  `json:"one_way_miles"`
	DriveTimeHours      float64  `json:"drive_time_hours"`
	ProjectDurationDays int      `json:"project_duration_days"`
	MPG                 *float64 `json:"mpg"`
	CostPerGallon       *float64 `json:"cost_per_gallon"`
	CostPerMile         *float64 `json:"cost_per_mile"`
	AnchorageFlatFee    *float64 `json:"anchorage_flat_fee"`
}

// FlightsInput is the flight block of a logistics estimate.
type FlightsInput struct {
	ProjectLocation        string   `json:"project_location"`
	NumTickets             int      `json:"num_tickets"`
	RoundtripCostPerTicket float64  `json:"roundtrip_cost_per_ticket"`
	FlightTimeHoursOneWay  float64  `json:"flight_time_hours_one_way"`
	LayoverCity            string   `json:"layover_city"`
	HasOvernight           bool     `json:"has_overnight"`
	LayoverHotelName       string   `json:"layover_hotel_name"`
	LayoverCostPerNight    *float64 `json:"layover_cost_per_night"`
	LayoverRooms           *int     `json:"layover_rooms"`
}

// RentalInput is the rental-vehicle block of a logistics estimate.
type RentalInput struct {
	ProjectLocation  string   `json:"project_location"`
	NumVehicles      int      `json:"num_vehicles"`
	VehicleCategory  string   `json:"vehicle_category"`
	DailyRate        *float64 `json:"daily_rate"`
	WeeklyRate       *float64 `json:"weekly_rate"`
	MonthlyRate      *float64 `json:"monthly_rate"`
	RentalPeriodType string   `json:"rental_period_type"`
	RentalDays       int      `json:"rental_days"`
	FuelCostEstimate *float64 `json:"fuel_cost_estimate"`
}

// LodgingInput is the lodging block of a logistics estimate. Rooms are
// single occupancy, one per staff member.
type LodgingInput struct {
	ProjectLocation    string  `json:"project_location"`
	HotelName          string  `json:"hotel_name"`
	NightCostWithTaxes float64 `json:"night_cost_with_taxes"`
	ProjectDurationDays int    `json:"project_duration_days"`
	NumStaff           int     `json:"num_staff"`
}

// EstimateRequest is the full input of one logistics estimate. Staff may be
// given as a role/count list or through the legacy single-role fields.
type EstimateRequest struct {
	ProjectName string `json:"project_name"`

	SiteAccessMode   string `json:"site_access_mode"`
	IsLocalProject   bool   `json:"is_local_project"`
	UseClientVehicle bool   `json:"use_client_vehicle"`

	ProfessionalRole string       `json:"professional_role"`
	NumStaff         int          `json:"num_staff"`
	Staff            []StaffEntry `json:"staff"`

	RateMultiplier *float64 `json:"rate_multiplier"`
	PerDiemRate    float64  `json:"per_diem_rate"`

	RoundtripDriving *DrivingInput `json:"roundtrip_driving"`
	DailyDriving     *DrivingInput `json:"daily_driving"`
	Flights          *FlightsInput `json:"flights"`
	Rental           *RentalInput  `json:"rental"`
	Lodging          *LodgingInput `json:"lodging"`
}

// Result is the computed output of one logistics estimate.
type Result struct {
	SiteAccessMode   string `json:"site_access_mode"`
	IsLocalProject   bool   `json:"is_local_project"`
	UseClientVehicle bool   `json:"use_client_vehicle"`

	RateMultiplier  float64       `json:"rate_multiplier"`
	PerDiemRate     float64       `json:"per_diem_rate"`
	TotalStaffCount int           `json:"total_staff_count"`
	StaffBreakdown  StaffList     `json:"staff_breakdown"`
	StaffLaborCosts LaborCostList `json:"staff_labor_costs"`

	RoundtripDrivingMiles      float64 `json:"roundtrip_driving_miles"`
	DailyDrivingMiles          float64 `json:"daily_driving_miles"`
	TotalDrivingMiles          float64 `json:"total_driving_miles"`
	RoundtripDrivingLaborHours float64 `json:"roundtrip_driving_labor_hours"`
	DailyDrivingLaborHours     float64 `json:"daily_driving_labor_hours"`
	TotalDrivingLaborHours     float64 `json:"total_driving_labor_hours"`
	TotalDrivingFuelCost       float64 `json:"total_driving_fuel_cost"`
	TotalDrivingLaborCost      float64 `json:"total_driving_labor_cost"`
	TotalDrivingCost           float64 `json:"total_driving_cost"`

	TotalFlightTicketCost float64 `json:"total_flight_ticket_cost"`
	TotalFlightLaborHours float64 `json:"total_flight_labor_hours"`
	TotalFlightLaborCost  float64 `json:"total_flight_labor_cost"`
	TotalLayoverRoomCost  float64 `json:"total_layover_room_cost"`
	TotalFlightCost       float64 `json:"total_flight_cost"`

	TotalRentalBaseCost float64 `json:"total_rental_base_cost"`
	TotalRentalFuelCost float64 `json:"total_rental_fuel_cost"`
	TotalRentalCost     float64 `json:"total_rental_cost"`

	TotalLodgingRoomCost float64 `json:"total_lodging_room_cost"`
	TotalPerDiemCost     float64 `json:"total_per_diem_cost"`

	TotalLogisticsCost float64 `json:"total_logistics_cost"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeStaff folds the legacy single-role fields into the staff list and
// drops empty entries.
func normalizeStaff(req *EstimateRequest) StaffList {
	var staff StaffList
	for _, s := range req.Staff {
		if s.Role == "" || s.Count <= 0 {
			continue
		}
		staff = append(staff, s)
	}
	if len(staff) == 0 && req.ProfessionalRole != "" && req.NumStaff > 0 {
		staff = StaffList{{Role: req.ProfessionalRole, Count: req.NumStaff}}
	}
	return staff
}

// laborTally accumulates hours and cost per role across the labor-bearing
// blocks.
type laborTally struct {
	staff      StaffList
	rates      map[string]float64
	multiplier float64

	order []string
	hours map[string]float64
	costs map[string]float64
}

func newLaborTally(staff StaffList, rates map[string]float64, multiplier float64) *laborTally {
	return &laborTally{
		staff:      staff,
		rates:      rates,
		multiplier: multiplier,
		hours:      map[string]float64{},
		costs:      map[string]float64{},
	}
}

// add charges hoursPerPerson to every staff member and returns the block's
// total hours and cost.
func (t *laborTally) add(hoursPerPerson float64) (blockHours, blockCost float64) {
	if hoursPerPerson <= 0 {
		return 0, 0
	}
	for _, s := range t.staff {
		roleHours := hoursPerPerson * float64(s.Count)
		roleCost := roleHours * t.rates[s.Role] * t.multiplier
		if _, seen := t.hours[s.Role]; !seen {
			t.order = append(t.order, s.Role)
		}
		t.hours[s.Role] += roleHours
		t.costs[s.Role] += roleCost
		blockHours += roleHours
		blockCost += roleCost
	}
	return blockHours, blockCost
}

func (t *laborTally) summary() LaborCostList {
	var out LaborCostList
	for _, role := range t.order {
		out = append(out, LaborCost{
			Role:  role,
			Hours: round2(t.hours[role]),
			Cost:  round2(t.costs[role]),
		})
	}
	return out
}

// drivingBlock holds one driving block's computed components before
// rounding.
type drivingBlock struct {
	miles      float64
	laborHours float64
	fuelCost   float64
	laborCost  float64
}

// computeDriving prices one driving block. An Anchorage destination with a
// flat daily fee supplied bypasses per-mile and MPG fuel costing entirely.
func computeDriving(d *DrivingInput, tally *laborTally) drivingBlock {
	var block drivingBlock
	if d == nil {
		return block
	}

	days := d.ProjectDurationDays
	if days < 0 {
		days = 0
	}
	oneWayMiles := math.Max(d.OneWayMiles, 0)
	block.miles = oneWayMiles * 2 * float64(days)

	if strings.EqualFold(strings.TrimSpace(d.ProjectLocation), "anchorage") && d.AnchorageFlatFee != nil {
		block.fuelCost = math.Max(*d.AnchorageFlatFee, 0) * float64(days)
	} else if d.CostPerMile != nil {
		block.fuelCost = block.miles * math.Max(*d.CostPerMile, 0)
	} else if d.MPG != nil && *d.MPG > 0 && d.CostPerGallon != nil {
		block.fuelCost = block.miles / *d.MPG * math.Max(*d.CostPerGallon, 0)
	}

	oneWayHours := math.Max(d.DriveTimeHours, 0)
	if oneWayHours == 0 && oneWayMiles > 0 {
		milesPerDay := oneWayMiles * 2
		oneWayHours = (milesPerDay / averageDrivingSpeedMPH) / 2
	}

	hoursPerPerson := oneWayHours * 2 * float64(days)
	block.laborHours, block.laborCost = tally.add(hoursPerPerson)
	return block
}

// Compute prices a logistics estimate without touching storage. Every staff
// role must have a labor-rate entry.
func Compute(rates RateLookup, req *EstimateRequest) (*Result, error) {
	mode := req.SiteAccessMode
	if mode == "" {
		mode = "driving"
	}

	multiplier := 1.0
	if req.RateMultiplier != nil && *req.RateMultiplier > 0 {
		multiplier = *req.RateMultiplier
	}

	staff := normalizeStaff(req)
	totalStaff := 0
	roleRates := map[string]float64{}
	for _, s := range staff {
		totalStaff += s.Count
		if _, ok := roleRates[s.Role]; ok {
			continue
		}
		rate, found, err := rates.Lookup(s.Role)
		if err != nil {
			return nil, fmt.Errorf("lookup labor rate: %w", err)
		}
		if !found {
			return nil, &UnknownRoleError{Role: s.Role}
		}
		roleRates[s.Role] = rate
	}

	res := &Result{
		SiteAccessMode:   mode,
		IsLocalProject:   req.IsLocalProject,
		UseClientVehicle: req.UseClientVehicle,
		RateMultiplier:   multiplier,
		PerDiemRate:      req.PerDiemRate,
		TotalStaffCount:  totalStaff,
		StaffBreakdown:   staff,
	}

	tally := newLaborTally(staff, roleRates, multiplier)

	// Driving. The roundtrip block only applies in driving mode; the daily
	// commute from lodging to site applies in either mode.
	var roundtrip, daily drivingBlock
	if mode == "driving" {
		roundtrip = computeDriving(req.RoundtripDriving, tally)
	}
	daily = computeDriving(req.DailyDriving, tally)

	res.RoundtripDrivingMiles = roundtrip.miles
	res.DailyDrivingMiles = daily.miles
	res.TotalDrivingMiles = roundtrip.miles + daily.miles
	res.RoundtripDrivingLaborHours = round2(roundtrip.laborHours)
	res.DailyDrivingLaborHours = round2(daily.laborHours)
	res.TotalDrivingLaborHours = round2(roundtrip.laborHours + daily.laborHours)
	res.TotalDrivingFuelCost = round2(roundtrip.fuelCost + daily.fuelCost)
	res.TotalDrivingLaborCost = round2(roundtrip.laborCost + daily.laborCost)
	res.TotalDrivingCost = round2(roundtrip.fuelCost + daily.fuelCost + roundtrip.laborCost + daily.laborCost)

	// Flights.
	if mode == "flight" && !req.IsLocalProject && req.Flights != nil {
		f := req.Flights
		tickets := f.NumTickets
		if tickets < 0 {
			tickets = 0
		}
		ticketCost := float64(tickets) * math.Max(f.RoundtripCostPerTicket, 0)
		res.TotalFlightTicketCost = round2(ticketCost)

		hoursPerPerson := math.Max(f.FlightTimeHoursOneWay, 0)*2 + flightBufferHours
		travelHours, travelCost := tally.add(hoursPerPerson)
		res.TotalFlightLaborHours = round2(travelHours)
		res.TotalFlightLaborCost = round2(travelCost)

		layoverCost := 0.0
		if f.HasOvernight && f.LayoverCostPerNight != nil && f.LayoverRooms != nil {
			rooms := *f.LayoverRooms
			if rooms < 0 {
				rooms = 0
			}
			layoverCost = math.Max(*f.LayoverCostPerNight, 0) * float64(rooms)
		}
		res.TotalLayoverRoomCost = round2(layoverCost)
		res.TotalFlightCost = round2(ticketCost + travelCost + layoverCost)
	}

	// Rental. Only charged for fly-in projects where the client does not
	// provide a vehicle.
	if mode == "flight" && !req.IsLocalProject && !req.UseClientVehicle && req.Rental != nil {
		r := req.Rental
		days := r.RentalDays
		if days < 0 {
			days = 0
		}
		baseCost := 0.0
		switch r.RentalPeriodType {
		case "daily":
			if r.DailyRate != nil {
				baseCost = float64(days) * math.Max(*r.DailyRate, 0)
			}
		case "weekly":
			if r.WeeklyRate != nil && days > 0 {
				baseCost = math.Ceil(float64(days)/7) * math.Max(*r.WeeklyRate, 0)
			}
		case "monthly":
			if r.MonthlyRate != nil && days > 0 {
				baseCost = math.Ceil(float64(days)/30) * math.Max(*r.MonthlyRate, 0)
			}
		default:
			return nil, ErrInvalidRentalPeriod
		}

		fuelCost := 0.0
		if r.FuelCostEstimate != nil {
			fuelCost = math.Max(*r.FuelCostEstimate, 0)
		}
		res.TotalRentalBaseCost = round2(baseCost)
		res.TotalRentalFuelCost = round2(fuelCost)
		res.TotalRentalCost = round2(baseCost + fuelCost)
	}

	// Lodging and per diem. Per diem never accrues without a lodging block.
	if !req.IsLocalProject && req.Lodging != nil {
		l := req.Lodging
		days := l.ProjectDurationDays
		if days < 0 {
			days = 0
		}
		lodgingStaff := l.NumStaff
		if lodgingStaff <= 0 {
			lodgingStaff = totalStaff
		}
		if lodgingStaff < 0 {
			lodgingStaff = 0
		}
		nightCost := math.Max(l.NightCostWithTaxes, 0)
		res.TotalLodgingRoomCost = round2(float64(lodgingStaff) * nightCost * float64(days))

		if lodgingStaff > 0 && days > 0 {
			perDiem := math.Max(req.PerDiemRate, 0) * float64(lodgingStaff) * float64(days)
			res.TotalPerDiemCost = round2(perDiem)
		}
	}

	res.StaffLaborCosts = tally.summary()
	res.TotalLogisticsCost = round2(res.TotalDrivingCost +
		res.TotalFlightCost +
		res.TotalRentalCost +
		res.TotalLodgingRoomCost +
		res.TotalPerDiemCost)
	return res, nil
}
