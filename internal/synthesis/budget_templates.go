package synthesis

import (
	"github.com/shopspring/decimal"

	"pitch-workers/internal/models"
)

type lineItem struct {
	label    string
	fraction decimal.Decimal
}

type budgetSection struct {
	name  string
	items []lineItem
}

func pct(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}

// budgetTemplates allocate total funding per business category. Within one
// category the fractions add up to exactly 1.
var budgetTemplates = map[models.BusinessCategory][]budgetSection{
	models.CategoryTech: {
		{name: "product_development", items: []lineItem{
			{"Platform/App Development", pct(35)},
			{"UI/UX Design", pct(8)},
			{"Cloud Infrastructure & Hosting", pct(7)},
			{"QA & Testing", pct(5)},
		}},
		{name: "team_operations", items: []lineItem{
			{"Engineering Salaries", pct(12)},
			{"Office & Co-working Space", pct(3)},
			{"Tools & Software Licenses", pct(3)},
		}},
		{name: "marketing_sales", items: []lineItem{
			{"Digital Marketing", pct(8)},
			{"Sales & Partnerships", pct(4)},
			{"Content & Community", pct(3)},
		}},
		{name: "working_capital", items: []lineItem{
			{"Legal & Compliance", pct(3)},
			{"Contingency Reserve", pct(6)},
			{"Miscellaneous Expenses", pct(3)},
		}},
	},
	models.CategoryManufacturing: {
		{name: "equipment_infrastructure", items: []lineItem{
			{"Machinery & Equipment", pct(25)},
			{"Factory Setup & Civil Works", pct(10)},
			{"Installation & Commissioning", pct(5)},
		}},
		{name: "raw_materials_inventory", items: []lineItem{
			{"Raw Material Procurement", pct(12)},
			{"Inventory Buffer", pct(5)},
			{"Packaging Materials", pct(3)},
		}},
		{name: "operations_workforce", items: []lineItem{
			{"Skilled Labour", pct(10)},
			{"Utilities & Power", pct(5)},
			{"Quality Control", pct(3)},
			{"Maintenance", pct(2)},
		}},
		{name: "sales_working_capital", items: []lineItem{
			{"Distribution & Logistics", pct(6)},
			{"Sales & Dealer Network", pct(5)},
			{"Licenses & Certifications", pct(3)},
			{"Contingency Reserve", pct(6)},
		}},
	},
	models.CategoryAgriculture: {
		{name: "land_infrastructure", items: []lineItem{
			{"Land Lease & Preparation", pct(18)},
			{"Irrigation Systems", pct(10)},
			{"Storage & Warehousing", pct(7)},
		}},
		{name: "inputs_equipment", items: []lineItem{
			{"Seeds & Saplings", pct(8)},
			{"Fertilizers & Crop Protection", pct(7)},
			{"Farm Machinery", pct(10)},
		}},
		{name: "operations_labour", items: []lineItem{
			{"Farm Labour", pct(10)},
			{"Utilities & Fuel", pct(4)},
			{"Agronomy & Training", pct(3)},
			{"Crop Insurance", pct(3)},
		}},
		{name: "market_linkage", items: []lineItem{
			{"Transport & Cold Chain", pct(8)},
			{"Marketing & Buyer Network", pct(5)},
			{"Contingency Reserve", pct(7)},
		}},
	},
	models.CategoryGreenEnergy: {
		{name: "equipment_infrastructure", items: []lineItem{
			{"Solar Panels & Turbines", pct(30)},
			{"Inverters & Battery Storage", pct(12)},
			{"Installation & Grid Connection", pct(8)},
		}},
		{name: "project_development", items: []lineItem{
			{"Site Assessment & Permits", pct(5)},
			{"Engineering & Design", pct(5)},
			{"Environmental Clearances", pct(3)},
		}},
		{name: "operations_maintenance", items: []lineItem{
			{"Technical Staff", pct(8)},
			{"Remote Monitoring Systems", pct(4)},
			{"Maintenance & Spares", pct(4)},
		}},
		{name: "business_development", items: []lineItem{
			{"Sales & Channel Partners", pct(6)},
			{"Customer Financing Support", pct(5)},
			{"Marketing & Awareness", pct(3)},
			{"Contingency Reserve", pct(7)},
		}},
	},
	models.CategoryHealthcare: {
		{name: "medical_equipment", items: []lineItem{
			{"Diagnostic Equipment", pct(20)},
			{"Clinical Furniture & Fixtures", pct(6)},
			{"Medical Consumables", pct(6)},
		}},
		{name: "facility_setup", items: []lineItem{
			{"Clinic Fit-out", pct(12)},
			{"IT & Patient Records System", pct(6)},
			{"Licensing & Accreditation", pct(4)},
		}},
		{name: "clinical_staff", items: []lineItem{
			{"Doctors & Specialists", pct(14)},
			{"Nursing & Support Staff", pct(8)},
			{"Training & Certification", pct(3)},
		}},
		{name: "operations_outreach", items: []lineItem{
			{"Patient Outreach & Marketing", pct(6)},
			{"Insurance & Compliance", pct(5)},
			{"Utilities & Maintenance", pct(4)},
			{"Contingency Reserve", pct(6)},
		}},
	},
	models.CategoryEducation: {
		{name: "content_development", items: []lineItem{
			{"Curriculum Design", pct(15)},
			{"Video & Interactive Content", pct(12)},
			{"Assessment Tools", pct(5)},
		}},
		{name: "technology_platform", items: []lineItem{
			{"Learning Platform Development", pct(15)},
			{"Hosting & Devices", pct(5)},
			{"Platform Maintenance", pct(4)},
		}},
		{name: "faculty_operations", items: []lineItem{
			{"Instructors & Mentors", pct(12)},
			{"Academic Support", pct(5)},
			{"Administration", pct(4)},
		}},
		{name: "student_acquisition", items: []lineItem{
			{"Digital Marketing", pct(8)},
			{"School & College Partnerships", pct(5)},
			{"Scholarships & Pilot Programs", pct(4)},
			{"Contingency Reserve", pct(6)},
		}},
	},
	models.CategoryEcommerce: {
		{name: "platform_technology", items: []lineItem{
			{"Store & App Development", pct(15)},
			{"Payment & Security Integration", pct(5)},
			{"Hosting & Tools", pct(5)},
		}},
		{name: "inventory_sourcing", items: []lineItem{
			{"Initial Inventory", pct(18)},
			{"Supplier Onboarding", pct(4)},
			{"Packaging", pct(3)},
		}},
		{name: "marketing_acquisition", items: []lineItem{
			{"Performance Marketing", pct(15)},
			{"Influencer & Social Campaigns", pct(6)},
			{"Customer Retention Programs", pct(4)},
		}},
		{name: "fulfillment_operations", items: []lineItem{
			{"Warehousing", pct(8)},
			{"Logistics & Last-mile Delivery", pct(8)},
			{"Customer Support", pct(4)},
			{"Contingency Reserve", pct(5)},
		}},
	},
	models.CategoryGeneral: {
		{name: "setup_infrastructure", items: []lineItem{
			{"Office & Facility Setup", pct(12)},
			{"Equipment & Technology", pct(10)},
			{"Legal & Registration", pct(4)},
		}},
		{name: "product_service", items: []lineItem{
			{"Product/Service Development", pct(18)},
			{"Research & Prototyping", pct(6)},
			{"Quality Assurance", pct(4)},
		}},
		{name: "team_operations", items: []lineItem{
			{"Core Team Salaries", pct(14)},
			{"Training", pct(3)},
			{"Operations & Utilities", pct(4)},
		}},
		{name: "marketing_growth", items: []lineItem{
			{"Marketing & Branding", pct(10)},
			{"Sales & Distribution", pct(6)},
			{"Customer Support", pct(3)},
			{"Contingency Reserve", pct(6)},
		}},
	},
}
