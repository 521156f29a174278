package logistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLookup is a RateLookup backed by a plain map.
type mapLookup map[string]float64

func (m mapLookup) Lookup(role string) (float64, bool, error) {
	rate, ok := m[role]
	return rate, ok, nil
}

var testRates = mapLookup{
	"Env Technician": 72.40,
	"Env Scientist":  93.17,
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCompute_DrivingWithLodgingAndPerDiem(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "driving",
		Staff:          []StaffEntry{{Role: "Env Technician", Count: 2}},
		PerDiemRate:    60,
		RoundtripDriving: &DrivingInput{
			OneWayMiles:         30,
			DriveTimeHours:      0.5,
			ProjectDurationDays: 5,
			CostPerMile:         floatPtr(0.67),
		},
		Lodging: &LodgingInput{
			NightCostWithTaxes:  150,
			ProjectDurationDays: 5,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 300.0, res.RoundtripDrivingMiles)
	assert.Equal(t, 201.00, res.TotalDrivingFuelCost)
	assert.Equal(t, 10.0, res.TotalDrivingLaborHours)
	assert.Equal(t, 724.00, res.TotalDrivingLaborCost)
	assert.Equal(t, 925.00, res.TotalDrivingCost)

	// Lodging staff falls back to total staff when the block omits it.
	assert.Equal(t, 1500.00, res.TotalLodgingRoomCost)
	assert.Equal(t, 600.00, res.TotalPerDiemCost)

	assert.Equal(t, 0.0, res.TotalFlightCost)
	assert.Equal(t, 0.0, res.TotalRentalCost)
	assert.Equal(t, 3025.00, res.TotalLogisticsCost)

	require.Len(t, res.StaffLaborCosts, 1)
	assert.Equal(t, "Env Technician", res.StaffLaborCosts[0].Role)
	assert.Equal(t, 10.0, res.StaffLaborCosts[0].Hours)
	assert.Equal(t, 724.00, res.StaffLaborCosts[0].Cost)
}

func TestCompute_FlightModeChargesFlightsAndRental(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "flight",
		Staff:          []StaffEntry{{Role: "Env Technician", Count: 2}},
		PerDiemRate:    75,
		Flights: &FlightsInput{
			NumTickets:             2,
			RoundtripCostPerTicket: 450,
			FlightTimeHoursOneWay:  3,
			HasOvernight:           true,
			LayoverCostPerNight:    floatPtr(180),
			LayoverRooms:           intPtr(2),
		},
		Rental: &RentalInput{
			RentalPeriodType: "daily",
			RentalDays:       5,
			DailyRate:        floatPtr(89),
			FuelCostEstimate: floatPtr(120),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 900.00, res.TotalFlightTicketCost)
	// (3h one way × 2) + 1.5h buffer, per traveler.
	assert.Equal(t, 15.0, res.TotalFlightLaborHours)
	assert.Equal(t, 1086.00, res.TotalFlightLaborCost)
	assert.Equal(t, 360.00, res.TotalLayoverRoomCost)
	assert.Equal(t, 2346.00, res.TotalFlightCost)

	assert.Equal(t, 445.00, res.TotalRentalBaseCost)
	assert.Equal(t, 120.00, res.TotalRentalFuelCost)
	assert.Equal(t, 565.00, res.TotalRentalCost)

	// Per diem never accrues without a lodging block.
	assert.Equal(t, 0.0, res.TotalLodgingRoomCost)
	assert.Equal(t, 0.0, res.TotalPerDiemCost)

	assert.Equal(t, 2911.00, res.TotalLogisticsCost)
}

func TestCompute_GatingTable(t *testing.T) {
	flights := &FlightsInput{NumTickets: 1, RoundtripCostPerTicket: 400}
	rental := &RentalInput{RentalPeriodType: "daily", RentalDays: 3, DailyRate: floatPtr(80)}
	lodging := &LodgingInput{NightCostWithTaxes: 100, ProjectDurationDays: 3, NumStaff: 1}

	cases := []struct {
		name        string
		mode        string
		local       bool
		client      bool
		wantFlight  bool
		wantRental  bool
		wantLodging bool
	}{
		{name: "driving non-local", mode: "driving", wantLodging: true},
		{name: "driving local", mode: "driving", local: true},
		{name: "flight non-local", mode: "flight", wantFlight: true, wantRental: true, wantLodging: true},
		{name: "flight local", mode: "flight", local: true},
		{name: "flight client vehicle", mode: "flight", client: true, wantFlight: true, wantLodging: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Compute(testRates, &EstimateRequest{
				SiteAccessMode:   tc.mode,
				IsLocalProject:   tc.local,
				UseClientVehicle: tc.client,
				Staff:            []StaffEntry{{Role: "Env Technician", Count: 1}},
				PerDiemRate:      50,
				Flights:          flights,
				Rental:           rental,
				Lodging:          lodging,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantFlight, res.TotalFlightCost > 0)
			assert.Equal(t, tc.wantRental, res.TotalRentalCost > 0)
			assert.Equal(t, tc.wantLodging, res.TotalLodgingRoomCost > 0)
			assert.Equal(t, tc.wantLodging, res.TotalPerDiemCost > 0)
		})
	}
}

func TestCompute_AnchorageFlatFeeOverridesPerMile(t *testing.T) {
	for _, location := range []string{"Anchorage", "ANCHORAGE", "anchorage"} {
		res, err := Compute(testRates, &EstimateRequest{
			SiteAccessMode: "driving",
			Staff:          []StaffEntry{{Role: "Env Technician", Count: 1}},
			RoundtripDriving: &DrivingInput{
				ProjectLocation:     location,
				OneWayMiles:         10,
				DriveTimeHours:      0.25,
				ProjectDurationDays: 4,
				CostPerMile:         floatPtr(0.67),
				AnchorageFlatFee:    floatPtr(75),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 80.0, res.RoundtripDrivingMiles)
		assert.Equal(t, 300.00, res.TotalDrivingFuelCost, "location %q", location)
	}

	// Elsewhere the flat fee is ignored and per-mile costing applies.
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "driving",
		Staff:          []StaffEntry{{Role: "Env Technician", Count: 1}},
		RoundtripDriving: &DrivingInput{
			ProjectLocation:     "Fairbanks",
			OneWayMiles:         10,
			DriveTimeHours:      0.25,
			ProjectDurationDays: 4,
			CostPerMile:         floatPtr(0.67),
			AnchorageFlatFee:    floatPtr(75),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 53.60, res.TotalDrivingFuelCost)
}

func TestCompute_DriveTimeDerivedFromMileage(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "driving",
		Staff:          []StaffEntry{{Role: "Env Technician", Count: 1}},
		RoundtripDriving: &DrivingInput{
			OneWayMiles:         55,
			ProjectDurationDays: 3,
			CostPerMile:         floatPtr(0.5),
		},
	})
	require.NoError(t, err)

	// 110 miles/day at 55 mph is 2h of round-trip driving, 1h each way.
	assert.Equal(t, 6.0, res.TotalDrivingLaborHours)
	assert.Equal(t, 434.40, res.TotalDrivingLaborCost)
}

func TestCompute_MPGFallbackWhenNoPerMileCost(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "driving",
		RoundtripDriving: &DrivingInput{
			OneWayMiles:         20,
			DriveTimeHours:      0.5,
			ProjectDurationDays: 5,
			MPG:                 floatPtr(20),
			CostPerGallon:       floatPtr(4),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.RoundtripDrivingMiles)
	assert.Equal(t, 40.00, res.TotalDrivingFuelCost)
	// No staff: miles and fuel accrue but labor stays zero.
	assert.Equal(t, 0.0, res.TotalDrivingLaborCost)
}

func TestCompute_RentalPeriodCeilings(t *testing.T) {
	base := func(r RentalInput) float64 {
		res, err := Compute(testRates, &EstimateRequest{
			SiteAccessMode: "flight",
			Rental:         &r,
		})
		require.NoError(t, err)
		return res.TotalRentalBaseCost
	}

	assert.Equal(t, 445.00, base(RentalInput{RentalPeriodType: "daily", RentalDays: 5, DailyRate: floatPtr(89)}))
	assert.Equal(t, 800.00, base(RentalInput{RentalPeriodType: "weekly", RentalDays: 10, WeeklyRate: floatPtr(400)}))
	assert.Equal(t, 400.00, base(RentalInput{RentalPeriodType: "weekly", RentalDays: 7, WeeklyRate: floatPtr(400)}))
	assert.Equal(t, 1800.00, base(RentalInput{RentalPeriodType: "monthly", RentalDays: 31, MonthlyRate: floatPtr(900)}))
	assert.Equal(t, 900.00, base(RentalInput{RentalPeriodType: "monthly", RentalDays: 30, MonthlyRate: floatPtr(900)}))
}

func TestCompute_InvalidRentalPeriodFails(t *testing.T) {
	_, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "flight",
		Rental:         &RentalInput{RentalPeriodType: "fortnightly", RentalDays: 14, DailyRate: floatPtr(89)},
	})
	require.ErrorIs(t, err, ErrInvalidRentalPeriod)

	// An ungated rental block is never validated.
	_, err = Compute(testRates, &EstimateRequest{
		SiteAccessMode: "driving",
		Rental:         &RentalInput{RentalPeriodType: "fortnightly", RentalDays: 14},
	})
	require.NoError(t, err)
}

func TestCompute_RateMultiplierScalesAllLabor(t *testing.T) {
	req := func(multiplier *float64) *EstimateRequest {
		return &EstimateRequest{
			SiteAccessMode: "flight",
			Staff:          []StaffEntry{{Role: "Env Technician", Count: 2}},
			RateMultiplier: multiplier,
			Flights: &FlightsInput{
				NumTickets:            2,
				FlightTimeHoursOneWay: 3,
			},
			DailyDriving: &DrivingInput{
				OneWayMiles:         11,
				DriveTimeHours:      0.2,
				ProjectDurationDays: 5,
			},
		}
	}

	full, err := Compute(testRates, req(nil))
	require.NoError(t, err)
	half, err := Compute(testRates, req(floatPtr(0.5)))
	require.NoError(t, err)

	assert.Equal(t, 1.0, full.RateMultiplier)
	assert.Equal(t, 0.5, half.RateMultiplier)
	assert.Equal(t, full.TotalFlightLaborHours, half.TotalFlightLaborHours)
	assert.InDelta(t, full.TotalFlightLaborCost/2, half.TotalFlightLaborCost, 0.001)
	assert.InDelta(t, full.TotalDrivingLaborCost/2, half.TotalDrivingLaborCost, 0.001)
}

func TestCompute_LegacySingleRoleFields(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode:   "driving",
		ProfessionalRole: "Env Scientist",
		NumStaff:         3,
		RoundtripDriving: &DrivingInput{
			OneWayMiles:         10,
			DriveTimeHours:      0.5,
			ProjectDurationDays: 2,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalStaffCount)
	require.Len(t, res.StaffBreakdown, 1)
	assert.Equal(t, StaffEntry{Role: "Env Scientist", Count: 3}, res.StaffBreakdown[0])
	// 0.5h each way × 2 × 2 days × 3 staff.
	assert.Equal(t, 6.0, res.TotalDrivingLaborHours)
	assert.InDelta(t, 559.02, res.TotalDrivingLaborCost, 0.001)
}

func TestCompute_UnknownRoleFails(t *testing.T) {
	_, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "driving",
		Staff:          []StaffEntry{{Role: "Crane Operator", Count: 1}},
	})
	var unknownRole *UnknownRoleError
	require.ErrorAs(t, err, &unknownRole)
	assert.Equal(t, "Crane Operator", unknownRole.Role)
}

func TestCompute_MultiRoleAggregationAcrossBlocks(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "flight",
		Staff: []StaffEntry{
			{Role: "Env Technician", Count: 2},
			{Role: "Env Scientist", Count: 1},
		},
		Flights: &FlightsInput{
			NumTickets:            3,
			FlightTimeHoursOneWay: 2,
		},
		DailyDriving: &DrivingInput{
			OneWayMiles:         15,
			DriveTimeHours:      0.5,
			ProjectDurationDays: 4,
		},
	})
	require.NoError(t, err)

	// Flight: (2×2)+1.5 = 5.5h per person. Daily driving: 0.5×2×4 = 4h per
	// person. 9.5h per person total.
	require.Len(t, res.StaffLaborCosts, 2)
	tech := res.StaffLaborCosts[0]
	sci := res.StaffLaborCosts[1]
	assert.Equal(t, "Env Technician", tech.Role)
	assert.Equal(t, 19.0, tech.Hours)
	assert.InDelta(t, round2(19.0*72.40), tech.Cost, 0.001)
	assert.Equal(t, "Env Scientist", sci.Role)
	assert.Equal(t, 9.5, sci.Hours)
	assert.InDelta(t, round2(9.5*93.17), sci.Cost, 0.001)
}

func TestCompute_GrandTotalSumsPreRoundedBlocks(t *testing.T) {
	res, err := Compute(testRates, &EstimateRequest{
		SiteAccessMode: "flight",
		Staff:          []StaffEntry{{Role: "Env Scientist", Count: 2}},
		PerDiemRate:    65,
		DailyDriving: &DrivingInput{
			OneWayMiles:         12,
			DriveTimeHours:      0.35,
			ProjectDurationDays: 6,
			CostPerMile:         floatPtr(0.655),
		},
		Flights: &FlightsInput{
			NumTickets:             2,
			RoundtripCostPerTicket: 437.49,
			FlightTimeHoursOneWay:  2.25,
		},
		Rental: &RentalInput{
			RentalPeriodType: "weekly",
			RentalDays:       6,
			WeeklyRate:       floatPtr(412.13),
			FuelCostEstimate: floatPtr(87.5),
		},
		Lodging: &LodgingInput{
			NightCostWithTaxes:  163.33,
			ProjectDurationDays: 6,
		},
	})
	require.NoError(t, err)

	sum := res.TotalDrivingCost + res.TotalFlightCost + res.TotalRentalCost +
		res.TotalLodgingRoomCost + res.TotalPerDiemCost
	assert.Equal(t, round2(sum), res.TotalLogisticsCost)
	assert.Greater(t, res.TotalDrivingCost, 0.0)
	assert.Greater(t, res.TotalFlightCost, 0.0)
	assert.Greater(t, res.TotalRentalCost, 0.0)
	assert.Greater(t, res.TotalLodgingRoomCost, 0.0)
	assert.Greater(t, res.TotalPerDiemCost, 0.0)
}
