package synthesis

import "pitch-workers/internal/models"

const (
	AspectRevenueStreams = "revenue_streams"
	AspectCostStructure  = "cost_structure"
	AspectProfitMargins  = "profit_margins"
	AspectScaling        = "scaling_factors"
)

// ProfitAspects is the render order of a synthesized profit model.
var ProfitAspects = []string{AspectRevenueStreams, AspectCostStructure, AspectProfitMargins, AspectScaling}

// Margin ranges below are fixed copy, not derived from the financials.
var profitTemplates = map[models.BusinessCategory]map[string][]string{
	models.CategoryTech: {
		AspectRevenueStreams: {
			"Subscription plans (SaaS) with monthly and annual billing",
			"Usage-based API and integration fees",
			"Enterprise licensing and custom deployments",
			"Premium support and onboarding services",
		},
		AspectCostStructure: {
			"Engineering and product team salaries",
			"Cloud hosting and third-party services",
			"Customer acquisition and digital marketing",
			"Security, compliance and tooling",
		},
		AspectProfitMargins: {
			"Year 1: -40% to -20% while building the product and first customers",
			"Year 2: 10% to 25% as recurring revenue compounds",
			"Year 3: 30% to 45% with high gross margins on software",
		},
		AspectScaling: {
			"Near-zero marginal cost per additional user",
			"Network effects and integrations deepen retention",
			"Expansion into adjacent verticals and geographies",
		},
	},
	models.CategoryManufacturing: {
		AspectRevenueStreams: {
			"Direct sales to B2B buyers and contractors",
			"Dealer and distributor network sales",
			"Bulk and long-term supply contracts",
			"After-sales service and spare parts",
		},
		AspectCostStructure: {
			"Raw materials and consumables",
			"Machinery depreciation and maintenance",
			"Labour, power and utilities",
			"Logistics and warehousing",
		},
		AspectProfitMargins: {
			"Year 1: -15% to 0% during plant ramp-up",
			"Year 2: 8% to 15% as capacity utilisation improves",
			"Year 3: 15% to 22% with economies of scale",
		},
		AspectScaling: {
			"Higher capacity utilisation spreads fixed costs",
			"Bulk procurement lowers raw material cost",
			"Additional production lines and product variants",
		},
	},
	models.CategoryAgriculture: {
		AspectRevenueStreams: {
			"Direct sale of produce to mandis and wholesalers",
			"Contract farming with processors and retailers",
			"Value-added and packaged products",
			"Farmer training and advisory services",
		},
		AspectCostStructure: {
			"Seeds, fertilizers and crop protection",
			"Land lease, irrigation and equipment",
			"Seasonal farm labour",
			"Transport, storage and cold chain",
		},
		AspectProfitMargins: {
			"Year 1: -10% to 5% across the first crop cycles",
			"Year 2: 10% to 18% with better yields and buyer linkages",
			"Year 3: 18% to 25% through value addition",
		},
		AspectScaling: {
			"Aggregating more farmers and acreage",
			"Processing and branding for higher realisation",
			"Government schemes and subsidies for expansion",
		},
	},
	models.CategoryGreenEnergy: {
		AspectRevenueStreams: {
			"Sale of power under long-term purchase agreements",
			"Installation and EPC contracts",
			"Annual maintenance contracts",
			"Carbon credits and green certificates",
		},
		AspectCostStructure: {
			"Panels, turbines and storage hardware",
			"Installation crews and engineering",
			"Financing and insurance costs",
			"Monitoring and maintenance",
		},
		AspectProfitMargins: {
			"Year 1: -25% to -5% due to upfront capital expenditure",
			"Year 2: 10% to 20% as installed capacity generates revenue",
			"Year 3: 20% to 35% on recurring energy and service income",
		},
		AspectScaling: {
			"Falling hardware costs improve project returns",
			"Policy incentives and net-metering adoption",
			"Portfolio growth across rooftops, farms and industries",
		},
	},
	models.CategoryHealthcare: {
		AspectRevenueStreams: {
			"Consultation and treatment fees",
			"Diagnostics and lab services",
			"Pharmacy and consumable sales",
			"Corporate and insurance tie-ups",
		},
		AspectCostStructure: {
			"Doctors, nurses and support staff",
			"Medical equipment and consumables",
			"Facility rent and maintenance",
			"Licensing, insurance and compliance",
		},
		AspectProfitMargins: {
			"Year 1: -20% to 0% while building patient volume",
			"Year 2: 12% to 20% with steady footfall",
			"Year 3: 20% to 30% from diagnostics and repeat care",
		},
		AspectScaling: {
			"Hub-and-spoke expansion to new locations",
			"Telemedicine extends reach at low cost",
			"Preventive care packages drive recurring revenue",
		},
	},
	models.CategoryEducation: {
		AspectRevenueStreams: {
			"Course fees and subscriptions",
			"Institutional licensing for schools and colleges",
			"Certification and assessment fees",
			"Corporate upskilling programs",
		},
		AspectCostStructure: {
			"Content creation and curriculum design",
			"Instructor and mentor compensation",
			"Platform hosting and maintenance",
			"Student acquisition and marketing",
		},
		AspectProfitMargins: {
			"Year 1: -30% to -10% while content library is built",
			"Year 2: 10% to 20% as enrolments grow",
			"Year 3: 25% to 35% on reusable content",
		},
		AspectScaling: {
			"Recorded content serves unlimited learners",
			"Regional language versions open new markets",
			"Partnerships with institutions bring cohorts at scale",
		},
	},
	models.CategoryEcommerce: {
		AspectRevenueStreams: {
			"Product sales margin",
			"Seller commissions and listing fees",
			"Delivery and convenience charges",
			"Sponsored listings and advertising",
		},
		AspectCostStructure: {
			"Inventory and procurement",
			"Performance marketing and discounts",
			"Warehousing and last-mile logistics",
			"Payment gateway and platform costs",
		},
		AspectProfitMargins: {
			"Year 1: -25% to -10% driven by acquisition spend",
			"Year 2: 5% to 12% as repeat purchases grow",
			"Year 3: 12% to 20% with better unit economics",
		},
		AspectScaling: {
			"Repeat customers lower acquisition cost",
			"Private label products raise margins",
			"Expansion to new categories and cities",
		},
	},
	models.CategoryGeneral: {
		AspectRevenueStreams: {
			"Core product or service sales",
			"Recurring service and maintenance plans",
			"Partnerships and referral income",
			"Premium and customised offerings",
		},
		AspectCostStructure: {
			"Team salaries and operations",
			"Setup, equipment and facilities",
			"Marketing and customer acquisition",
			"Administrative and compliance costs",
		},
		AspectProfitMargins: {
			"Year 1: -20% to 0% during launch",
			"Year 2: 10% to 18% as the customer base grows",
			"Year 3: 18% to 28% with operating leverage",
		},
		AspectScaling: {
			"Standardised processes enable replication",
			"Word-of-mouth and referrals reduce acquisition cost",
			"New locations and customer segments",
		},
	},
}
