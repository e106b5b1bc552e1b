package api

import (
	"net/http"
	"strings"
)

// Static filter lists served to the frontend dropdowns. Job data itself lives
// in the database; these are presentation vocabulary.
var jobCategories = []string{
	"Accounting - Finance", "Advertising", "Agriculture", "Airline - Aviation",
	"Architecture - Building", "Art - Photography - Journalism",
	"Automotive - Motor Vehicles - Parts", "Banking - Financial Services",
	"Biotechnology", "Broadcasting - Radio - TV", "Building Materials",
	"Chemical", "Computer Hardware", "Computer Software", "Construction",
	"Consulting", "Consumer Products", "Credit - Loan - Collections",
	"Defense - Aerospace", "Education - Teaching - Administration",
	"Electronics", "Employment - Recruiting - Staffing",
	"Energy - Utilities - Gas - Electric", "Entertainment", "Environmental",
	"Exercise - Fitness", "Fashion - Apparel - Textile", "Food",
	"Funeral - Cemetery", "Government - Civil Service",
	"Healthcare - Health Services", "Homebuilding", "Hospitality",
	"Hotel - Resort", "HVAC", "Import - Export", "Industrial", "Insurance",
	"Internet - ECommerce", "Landscaping", "Law Enforcement", "Legal",
	"Library Science", "Managed Care", "Manufacturing", "Medical Equipment",
	"Merchandising", "Military", "Mortgage", "Newspaper",
	"Not for Profit - Charitable", "Office Supplies - Equipment",
	"Oil Refining - Petroleum - Drilling", "Other Great Industries",
	"Packaging", "Pharmaceutical", "Printing - Publishing", "Public Relations",
	"Real Estate - Property Mgt", "Recreation", "Restaurant", "Retail",
	"Sales - Marketing", "Securities", "Security", "Semiconductor",
	"Social Services", "Telecommunications", "Training", "Transportation",
	"Travel", "Wireless", "IT Software", "Hardware",
}

var jobLocations = []string{
	"All India", "Agra", "Ahmedabad", "Amritsar", "Aurangabad", "Bengaluru",
	"Bhopal", "Bhubaneswar", "Chandigarh", "Chennai", "Coimbatore", "Dehradun",
	"Delhi", "Faridabad", "Ghaziabad", "Guwahati", "Gurugram", "Hyderabad",
	"Indore", "Jaipur", "Jamshedpur", "Jodhpur", "Kanpur", "Kochi", "Kolkata",
	"Lucknow", "Ludhiana", "Madurai", "Mangaluru", "Mumbai", "Mysuru",
	"Nagpur", "Nashik", "Noida", "Panaji", "Patna", "Puducherry", "Pune",
	"Raipur", "Rajkot", "Ranchi", "Surat", "Thane", "Thiruvananthapuram",
	"Udaipur", "Vadodara", "Varanasi", "Vijayawada", "Visakhapatnam", "Remote",
}

var jobTypes = []string{"In Office", "Remote", "Hybrid"}

// featuredCompany seeds; live job counts are overlaid per request.
type featuredCompany struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Logo   string  `json:"logo"`
	Rating float64 `json:"rating"`
	Jobs   int64   `json:"jobs"`
}

var featuredCompanySeed = []featuredCompany{
	{ID: "fc_webweavers", Name: "Web Weavers Inc.", Logo: "https://images.unsplash.com/photo-1552664730-d307ca884978?q=80&w=200&auto=format&fit=crop", Rating: 4.8},
	{ID: "fc_skyhigh", Name: "SkyHigh Cloud Services", Logo: "https://images.unsplash.com/photo-1522071820081-009f0129c71c?q=80&w=200&auto=format&fit=crop", Rating: 4.9},
	{ID: "fc_growthpro", Name: "GrowthPro Agency", Logo: "https://images.unsplash.com/photo-1517048676732-d65bc937f952?q=80&w=200&auto=format&fit=crop", Rating: 4.7},
	{ID: "fc_innovatex", Name: "InnovateX Solutions", Logo: "https://images.unsplash.com/photo-1551434678-e076c223a692?q=80&w=200&auto=format&fit=crop", Rating: 4.6},
	{ID: "fc_dataflow", Name: "DataFlow Systems", Logo: "https://images.unsplash.com/photo-1605379399642-870262d3d051?q=80&w=200&auto=format&fit=crop", Rating: 4.9},
	{ID: "fc_agilesprint", Name: "Agile Sprint Corp", Logo: "https://images.unsplash.com/photo-1573497620053-ea5300f94f21?q=80&w=200&auto=format&fit=crop", Rating: 4.7},
}

func (h *JobsHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"categories": jobCategories,
		"locations":  jobLocations,
		"jobTypes":   jobTypes,
	}, http.StatusOK)
}

func (h *JobsHandler) FeaturedCompanies(w http.ResponseWriter, r *http.Request) {
	counts, err := h.jobRepo.CompanyJobCounts(r.Context())
	if err != nil {
		logger.Error("featured companies", "err", err)
		writeError(w, "Server error fetching featured companies.", http.StatusInternalServerError)
		return
	}

	out := make([]featuredCompany, len(featuredCompanySeed))
	copy(out, featuredCompanySeed)
	for i := range out {
		out[i].Jobs = counts[strings.ToLower(out[i].Name)]
	}
	writeJSON(w, out, http.StatusOK)
}
