package config

// Default returns the built-in reference dataset: the firm's labor rates,
// sampling-minute defaults, hazard component lists, and the Lab1 price book.
func Default() *ReferenceData {
	return &ReferenceData{
		LaborRates: map[string]float64{
			"Program Manager": 131.55,
			"Project Manager": 104.23,
			"Env Scientist":   93.17,
			"Env Technician":  72.40,
			"Accounting":      95.36,
			"Administrative":  54.80,
		},
		SamplingDefaults: map[string]float64{
			"asbestos": 15,
			"xrf":      3,
			"lead":     10,
			"mold":     20,
		},
		Components: map[string][]string{
			"asbestos": {"GWB/JC", "Flooring", "Ceilings", "Exterior Sides (CAB, etc.)", "Piping", "Tanks"},
			"lead":     {"Walls", "Windows", "Doors", "Exterior", "Other"},
			"mold":     {"Living Room", "Kitchen", "Bath", "Crawl Space", "Mech Room", "Bedroom"},
		},
		Laboratories: []LaboratoryConfig{defaultLab1()},
	}
}

func defaultLab1() LaboratoryConfig {
	return LaboratoryConfig{
		Name:        "Lab1",
		Address:     "123 Health Street, Cityville",
		ContactInfo: "(021) 12345678",
		TurnTimes: []TurnTimeConfig{
			{Label: "3 hr", Hours: 3},
			{Label: "6 hr", Hours: 6},
			{Label: "24 hr", Hours: 24},
			{Label: "30 hr", Hours: 30},
			{Label: "48 hr", Hours: 48},
			{Label: "72 hr", Hours: 72},
			{Label: "96 hr", Hours: 96},
			{Label: "1 Wk", Hours: 168},
			{Label: "2 Wk", Hours: 336},
			{Label: "Standard", Hours: 336},
			{Label: "Next Day", Hours: 24},
			{Label: "Same day", Hours: 8},
			{Label: "Holiday Wkd", Hours: 48},
			{Label: "1 Day", Hours: 24},
			{Label: "2 Day", Hours: 48},
			{Label: "3 Day", Hours: 72},
			{Label: "4 Day", Hours: 96},
		},
		Categories: []CategoryConfig{
			{
				Name:        "PCM Air Analysis Services",
				Description: "PCM Air category",
				Tests: []TestConfig{
					{Name: "NIOSH 7400", Rates: map[string]float64{
						"3 hr": 26.90, "6 hr": 18.55, "24 hr": 18.55, "48 hr": 15.50,
						"72 hr": 14.00, "96 hr": 12.55, "1 Wk": 11.20,
					}},
				},
			},
			{
				Name:        "TEM Air",
				Description: "TEM Air category",
				Tests: []TestConfig{
					{Name: "AHERA (40 CFR, Part 763)", Rates: map[string]float64{
						"3 hr": 396.00, "6 hr": 111.00, "24 hr": 79.00, "48 hr": 69.00,
						"72 hr": 63.00, "96 hr": 56.00, "1 Wk": 54.00,
					}},
					{Name: "EPA Level II", Rates: map[string]float64{
						"3 hr": 396.00, "6 hr": 111.00, "24 hr": 79.00, "48 hr": 69.00,
						"72 hr": 63.00, "96 hr": 56.00, "1 Wk": 54.00,
					}},
					{Name: "NIOSH 7402", Rates: map[string]float64{
						"3 hr": 0.00, "6 hr": 227.00, "24 hr": 192.00, "48 hr": 159.00,
						"72 hr": 145.00, "96 hr": 137.00, "1 Wk": 131.00,
					}},
				},
			},
			{
				Name:        "PLM - Bulk Building Materials",
				Description: "PLM Bulk category",
				Tests: []TestConfig{
					{Name: "EPA/600/R-93/116 (<1%)", Rates: map[string]float64{
						"3 hr": 38.00, "6 hr": 22.00, "24 hr": 9.20, "48 hr": 8.35,
						"72 hr": 8.35, "96 hr": 8.35, "1 Wk": 8.35,
					}},
					{Name: "EPA/600/R-93/116 (<0.25%) 400 PT", Rates: map[string]float64{
						"3 hr": 121.00, "6 hr": 66.00, "24 hr": 53.00, "48 hr": 49.00,
						"72 hr": 44.25, "96 hr": 39.50, "1 Wk": 36.75,
					}},
					{Name: "EPA/600/R-93/116 (<0.1%) 1000 PT", Rates: map[string]float64{
						"3 hr": 542.00, "6 hr": 170.00, "24 hr": 162.00, "48 hr": 140.00,
						"72 hr": 131.00, "96 hr": 124.00, "1 Wk": 114.00,
					}},
				},
			},
			{
				Name:        "PLM - Bulk for Problem Matrices such as NOB's",
				Description: "PLM NOB category",
				Tests: []TestConfig{
					{Name: "PLM EPA NOB-EPA/600/R-93/116 (<0.5%) W/ Grav Reduction Prep", Rates: map[string]float64{
						"24 hr": 21.45, "48 hr": 20.60, "72 hr": 20.60, "96 hr": 20.60,
						"1 Wk": 20.60, "2 Wk": 20.60,
					}},
					{Name: "PLM EPA NOB-EPA/600/R-93/116 (<.25%) 400 PT W/ Grav Reduction Prep", Rates: map[string]float64{
						"24 hr": 95.00, "48 hr": 78.00, "72 hr": 69.00, "96 hr": 66.00,
						"1 Wk": 61.00, "2 Wk": 61.00,
					}},
					{Name: "PLM EPA NOB-EPA/600/R-93/116 (<.1%) 1000 PT W/ Grav Reduction Prep", Rates: map[string]float64{
						"24 hr": 226.00, "48 hr": 200.00, "72 hr": 178.00, "96 hr": 163.00,
						"1 Wk": 153.00, "2 Wk": 146.00,
					}},
					{Name: "EPA NOB Prep Fee for samples prepped but not samples (positive stop)", Rates: map[string]float64{
						"24 hr": 11.95, "48 hr": 11.95, "72 hr": 11.95, "96 hr": 11.95,
						"1 Wk": 11.95, "2 Wk": 11.95,
					}},
				},
			},
			{
				Name:        "TEM Bulk Materials (Including NOB Samples)",
				Description: "TEM Bulk Materials category",
				Tests: []TestConfig{
					{Name: "TEM EPA NOB EPA 600/R-93/116 (Add Prep fee if not already prepped via PLM NOB)", Rates: map[string]float64{
						"24 hr": 156.00, "48 hr": 120.00, "72 hr": 95.00, "96 hr": 87.00,
						"1 Wk": 76.00, "2 Wk": 68.00,
					}},
					{Name: "TEM % by Mass - EPA 600/R-93/116", Rates: map[string]float64{
						"24 hr": 558.00, "48 hr": 489.00, "72 hr": 445.00, "96 hr": 400.00,
						"1 Wk": 359.00, "2 Wk": 323.00,
					}},
					{Name: "EPA NOB Prep Fee for samples prepped but not samples (positive stop) - TEM Bulk", Rates: map[string]float64{
						"24 hr": 11.95, "48 hr": 11.95, "72 hr": 11.95, "96 hr": 11.95,
						"1 Wk": 11.95, "2 Wk": 11.95,
					}},
				},
			},
			{
				Name:        "TEM - Settled dust",
				Description: "TEM Settled dust category",
				Tests: []TestConfig{
					{Name: "ASTM D-6480 Wipe", Rates: map[string]float64{
						"6 hr": 483.00, "24 hr": 207.00, "48 hr": 169.00, "72 hr": 157.00,
						"96 hr": 144.00, "1 Wk": 132.00,
					}},
					{Name: "ASTM D 5755 MicroVac", Rates: map[string]float64{
						"6 hr": 531.00, "24 hr": 227.00, "48 hr": 187.00, "72 hr": 172.00,
						"96 hr": 159.00, "1 Wk": 145.00,
					}},
					{Name: "TEM Qualitative Via Filtration Prep", Rates: map[string]float64{
						"24 hr": 170.00, "48 hr": 135.00, "72 hr": 110.00, "96 hr": 99.00,
						"1 Wk": 91.00,
					}},
				},
			},
			{
				Name:        "Soil / Rock / Vermiculite Methods",
				Description: "Soil Rock Vermiculite Methods category",
				Tests: []TestConfig{
					{Name: "PLM CARB 435 LVL A (0.25%)", Rates: map[string]float64{
						"3 hr": 506.00, "6 hr": 391.00, "24 hr": 277.00, "48 hr": 243.00,
						"72 hr": 202.00, "96 hr": 181.00, "1 Wk": 153.00,
					}},
					{Name: "PLM CARB 435 LVL B (0.1%)", Rates: map[string]float64{
						"3 hr": 703.00, "6 hr": 550.00, "24 hr": 359.00, "48 hr": 346.00,
						"72 hr": 261.00, "96 hr": 238.00, "1 Wk": 237.00,
					}},
					{Name: "PLM Qualitative", Rates: map[string]float64{
						"3 hr": 130.00, "6 hr": 87.00, "24 hr": 55.00, "48 hr": 42.50,
						"72 hr": 38.00, "96 hr": 35.25, "1 Wk": 33.50,
					}},
				},
			},
			{
				Name:        "Lead Laboratory Services",
				Description: "Lead Laboratory Services category",
				Tests: []TestConfig{
					{Name: "Paint Chips (SW-846-7000B)", Rates: map[string]float64{
						"3 hr": 43.25, "6 hr": 24.85, "24 hr": 14.45, "48 hr": 12.60,
						"72 hr": 12.00, "96 hr": 11.35, "1 Wk": 10.05,
					}},
					{Name: "Air (NIOSH 7082)", Rates: map[string]float64{
						"3 hr": 43.25, "6 hr": 24.85, "24 hr": 14.45, "48 hr": 12.60,
						"72 hr": 12.00, "96 hr": 11.35, "1 Wk": 10.05,
					}},
					{Name: "Wipes (SW-846-7000B)", Rates: map[string]float64{
						"3 hr": 43.25, "6 hr": 24.85, "24 hr": 14.45, "48 hr": 12.60,
						"72 hr": 12.00, "96 hr": 11.35, "1 Wk": 10.05,
					}},
					{Name: "Soil (SW-846-7000B)", Rates: map[string]float64{
						"6 hr": 38.00, "24 hr": 21.25, "48 hr": 17.95, "72 hr": 16.45,
						"96 hr": 15.00, "1 Wk": 14.25,
					}},
					{Name: "Wastewater (SW-846-7000B)", Rates: map[string]float64{
						"6 hr": 38.00, "24 hr": 21.25, "48 hr": 17.95, "72 hr": 16.45,
						"96 hr": 15.00, "1 Wk": 14.25,
					}},
				},
			},
			{
				Name:        "Lead Laboratory Services - TCLP (Flame AA)",
				Description: "Lead Laboratory Services TCLP category",
				Tests: []TestConfig{
					{Name: "Toxicity Characteristic Leaching Procedure", Rates: map[string]float64{
						"30 hr": 273.00, "48 hr": 117.00, "72 hr": 112.00, "96 hr": 105.00,
						"1 Wk": 97.00,
					}},
				},
			},
			{
				Name:        "Mold Related Services - EMLab P&K",
				Description: "Mold Related Services category",
				Tests: []TestConfig{
					{Name: "Spore Trap Analysis", Rates: map[string]float64{
						"Standard": 40.31, "Next Day": 51.61, "Same day": 73.12, "Holiday Wkd": 109.68,
					}},
					{Name: "Spore Trap Analysis (Clad & Pen/Asp. Differentiation)", Rates: map[string]float64{
						"Standard": 74.99, "Next Day": 112.48, "Same day": 149.98, "Holiday Wkd": 224.97,
					}},
					{Name: "Spore Trap analysis other particles - Supplement", Rates: map[string]float64{
						"Standard": 15.05, "Next Day": 22.57, "Same day": 30.10, "Holiday Wkd": 45.15,
					}},
					{Name: "Culturable air fungi speciation", Rates: map[string]float64{
						"Standard": 127.02,
					}},
					{Name: "Direct Microscopic Examination", Rates: map[string]float64{
						"Standard": 32.26, "Next Day": 45.16, "Same day": 64.52, "Holiday Wkd": 96.78,
					}},
					{Name: "Quantitative spore count direct exam", Rates: map[string]float64{
						"Standard": 36.56, "Next Day": 51.61, "Same day": 73.12, "Holiday Wkd": 96.78,
					}},
				},
			},
			{
				Name:        "Environmental Chemistry Laboratory Services",
				Description: "Environmental Chemistry Laboratory Services category",
				Tests: []TestConfig{
					{Name: "PCB Bulk Sample Caulking/Concrete/Paint Chips SW 846-3540C8082A", Rates: map[string]float64{
						"1 Day": 437.00, "2 Day": 325.00, "3 Day": 284.00, "4 Day": 240.00,
						"1 Wk": 201.00, "2 Wk": 140.00,
					}},
				},
			},
		},
	}
}
