package catalog

// Default returns the storefront's catalog.
func Default() *Catalog { return New(defaultProducts) }

func templates(n int) *int { return &n }

var defaultProducts = []Product{
	{
		ID:              "prod_001",
		Name:            "Generational Wealth Volume 3: The Purpose of Prosperity",
		Slug:            "generational-wealth-volume-3-purpose-of-prosperity",
		Price:           29.99,
		OriginalPrice:   39.99,
		Category:        CategoryWealthBuilding,
		Description:     "Downloadable workbook teaching you to build strategically, give intentionally, and leave a legacy",
		LongDescription: "This is the culminating volume of the Generational Wealth series, designed for those ready to transform their financial success into lasting impact. You will learn how to build wealth strategically, give back intentionally, and create a legacy that outlasts you. Packed with frameworks, templates, and exercises, this workbook turns prosperity into purpose.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-1.svg",
		Includes: []string{
			"Strategic wealth building frameworks",
			"Legacy planning templates",
			"Prosperity mindset worksheets",
			"Goal-setting exercises",
			"Financial vision board templates",
		},
		FileFormat:  []string{"PDF"},
		Featured:    true,
		Bestseller:  true,
		Tags:        []string{"wealth building", "legacy", "prosperity", "financial planning", "workbook"},
		Rating:      4.9,
		ReviewCount: 143,
	},
	{
		ID:              "prod_002",
		Name:            "Next-Level Wealth - Generational Wealth Series",
		Slug:            "next-level-wealth-generational-wealth-series",
		Price:           29.99,
		OriginalPrice:   34.99,
		Category:        CategoryWealthBuilding,
		Description:     "A strategic workbook for the middle of your financial journey",
		LongDescription: "Designed for those who have laid the groundwork and are ready to accelerate their wealth-building journey. This workbook provides mid-career strategies, investment planning guides, and portfolio diversification templates to help you reach the next financial milestone. Whether you are growing a nest egg or planning for early retirement, this volume bridges the gap between beginner and advanced wealth creation.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-2.svg",
		Includes: []string{
			"Mid-career wealth strategies",
			"Investment planning guides",
			"Financial milestone checklists",
			"Portfolio diversification templates",
			"Net worth tracker",
		},
		FileFormat:  []string{"PDF"},
		Featured:    false,
		Bestseller:  false,
		Tags:        []string{"wealth building", "investing", "mid-career", "financial planning", "workbook"},
		Rating:      4.8,
		ReviewCount: 98,
	},
	{
		ID:              "prod_003",
		Name:            "Generational Wealth Volume 1: A Workbook for Beginners",
		Slug:            "generational-wealth-volume-1-workbook-for-beginners",
		Price:           29.99,
		OriginalPrice:   39.99,
		Category:        CategoryWealthBuilding,
		Description:     "A step-by-step workbook to start building generational wealth",
		LongDescription: "The very first step on your generational wealth journey starts here. This beginner-friendly workbook walks you through foundational financial concepts, actionable budgeting strategies, and savings goal worksheets that make wealth creation approachable. If you have ever felt overwhelmed by personal finance, this is the guide that meets you where you are.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-3.svg",
		Includes: []string{
			"Beginner wealth frameworks",
			"Foundational financial planning",
			"Actionable steps for wealth creation",
			"Budget templates",
			"Savings goal worksheets",
		},
		FileFormat:  []string{"PDF"},
		Featured:    true,
		Bestseller:  false,
		Tags:        []string{"wealth building", "beginner", "budgeting", "savings", "workbook"},
		Rating:      4.9,
		ReviewCount: 215,
	},
	{
		ID:              "prod_004",
		Name:            "First-Time Homebuyer Workbook Volume 2 Digital Download",
		Slug:            "first-time-homebuyer-workbook-volume-2",
		Price:           29.99,
		OriginalPrice:   37.99,
		Category:        CategoryHomebuying,
		Description:     "From Closing Table through Move-In - complete homebuyer guide",
		LongDescription: "Picking up right where Volume 1 leaves off, this workbook guides you from the closing table through your first months as a homeowner. It covers post-purchase planning, moving logistics, home inspections, and everything you need to transition smoothly into your new home. Consider it your personal roadmap for the exciting (and sometimes overwhelming) journey after you get the keys.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-4.svg",
		Includes: []string{
			"Post-purchase planning",
			"Moving checklists",
			"New homeowner templates",
			"Home inspection guides",
			"Closing day preparation",
		},
		FileFormat:  []string{"PDF"},
		Featured:    false,
		Bestseller:  false,
		Tags:        []string{"homebuying", "closing", "move-in", "new homeowner", "workbook"},
		Rating:      4.8,
		ReviewCount: 87,
	},
	{
		ID:              "prod_005",
		Name:            "First-Time Homebuyer Workbook Volume 1",
		Slug:            "first-time-homebuyer-workbook-volume-1",
		Price:           29.99,
		OriginalPrice:   34.99,
		Category:        CategoryHomebuying,
		Description:     "From Credit Readiness to the Closing Table - 42 premium templates, guides, and checklists",
		LongDescription: "The ultimate companion for anyone preparing to buy their first home. This comprehensive workbook includes 42 premium templates that walk you through every stage, from repairing your credit and getting pre-approved to searching for the perfect home and making a winning offer. Thousands of first-time buyers have used this workbook to navigate the process with confidence.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-5.svg",
		Includes: []string{
			"Credit repair strategies",
			"Mortgage pre-approval guides",
			"Home search templates",
			"Offer worksheets",
			"Closing checklist",
			"42 premium templates included",
		},
		Templates:   templates(42),
		FileFormat:  []string{"PDF", "Excel"},
		Featured:    true,
		Bestseller:  true,
		Tags:        []string{"homebuying", "first-time buyer", "credit", "mortgage", "templates"},
		Rating:      4.9,
		ReviewCount: 312,
	},
	{
		ID:              "prod_006",
		Name:            "New Homeowner Starter Kit: Your First Year",
		Slug:            "new-homeowner-starter-kit-your-first-year",
		Price:           29.99,
		OriginalPrice:   34.99,
		Category:        CategoryHomebuying,
		Description:     "46 essential tools, checklists & templates for first-time homeowners",
		LongDescription: "Your first year as a homeowner comes with a steep learning curve, and this starter kit makes it manageable. With 46 essential tools, checklists, and templates, you will stay on top of seasonal maintenance, track warranties, plan improvements, and prepare for emergencies. Think of it as your homeownership survival guide for year one and beyond.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-6.svg",
		Includes: []string{
			"First-year maintenance checklists",
			"Seasonal home care guides",
			"Emergency preparedness templates",
			"Warranty tracking sheets",
			"Home improvement planner",
		},
		Templates:   templates(46),
		FileFormat:  []string{"PDF", "Excel"},
		Featured:    false,
		Bestseller:  false,
		Tags:        []string{"homeowner", "maintenance", "first year", "starter kit", "templates"},
		Rating:      4.7,
		ReviewCount: 156,
	},
	{
		ID:              "prod_007",
		Name:            "House Hacking Workbook: Live in One, Rent the Other",
		Slug:            "house-hacking-workbook-live-in-one-rent-the-other",
		Price:           29.99,
		OriginalPrice:   34.99,
		Category:        CategoryRealEstate,
		Description:     "A complete workbook for analyzing 2-4 unit properties",
		LongDescription: "House hacking is one of the fastest paths to real estate investing, and this workbook gives you every tool you need to get started. Learn how to analyze 2-4 unit properties, screen tenants, calculate rental income, and maximize your return on investment. Whether you are looking at duplexes or fourplexes, this workbook will help you live for free while building equity.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-7.svg",
		Includes: []string{
			"Property analysis spreadsheets",
			"Tenant screening templates",
			"Rental income calculators",
			"Investment ROI worksheets",
			"Lease agreement templates",
		},
		FileFormat:  []string{"PDF", "Excel"},
		Featured:    false,
		Bestseller:  false,
		Tags:        []string{"real estate", "house hacking", "rental", "investing", "multi-unit"},
		Rating:      4.8,
		ReviewCount: 94,
	},
	{
		ID:              "prod_008",
		Name:            "Emergency Home Binder INSTANT DOWNLOAD",
		Slug:            "emergency-home-binder-instant-download",
		Price:           32.99,
		OriginalPrice:   39.99,
		Category:        CategoryEmergencyPlanning,
		Description:     "Complete Family Emergency Planner - printable & editable 2026 Home Edition",
		LongDescription: "Be prepared for anything with this comprehensive emergency home binder. Featuring over 50 essential documents, this printable and editable planner helps you organize financial records, emergency contacts, medical information, insurance documents, evacuation plans, and more. The 2026 Home Edition is designed to keep your entire household organized and ready for the unexpected.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-8.svg",
		Includes: []string{
			"Financial records templates",
			"Emergency contacts organizer",
			"Medical information sheets",
			"Insurance document tracker",
			"Evacuation plans",
			"Home inventory sheets",
			"Password tracker",
			"50+ essential documents",
		},
		Templates:   templates(50),
		FileFormat:  []string{"PDF", "Word"},
		Featured:    true,
		Bestseller:  true,
		Tags:        []string{"emergency planning", "home binder", "family planner", "printable", "editable"},
		Rating:      4.9,
		ReviewCount: 428,
	},
	{
		ID:              "prod_009",
		Name:            "Landlording for Beginners INSTANT DOWNLOAD",
		Slug:            "landlording-for-beginners-instant-download",
		Price:           29.99,
		OriginalPrice:   34.99,
		Category:        CategoryRealEstate,
		Description:     "A workbook for aspiring real estate investors - complete analysis of 2-4 unit properties",
		LongDescription: "Step into the world of landlording with confidence using this beginner-friendly workbook. It covers everything from rental property analysis and cash flow calculations to tenant management and property maintenance. Designed specifically for aspiring investors eyeing 2-4 unit properties, this guide gives you the practical tools to make smart investment decisions from day one.",
		Author:          "Rubi",
		CoverImage:      "/images/products/product-9.svg",
		Includes: []string{
			"Rental property analysis tools",
			"Landlord legal guides",
			"Tenant management templates",
			"Cash flow calculators",
			"Property maintenance checklists",
		},
		FileFormat:  []string{"PDF", "Excel"},
		Featured:    false,
		Bestseller:  false,
		Tags:        []string{"real estate", "landlording", "beginner", "rental property", "investing"},
		Rating:      4.7,
		ReviewCount: 112,
	},
}
