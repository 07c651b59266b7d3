package maturity

// DomainID identifies one assessed IT-governance area.
type DomainID string

const (
	StrategyGovernance DomainID = "strategy-governance"
	Cybersecurity      DomainID = "cybersecurity"
	RiskCompliance     DomainID = "risk-compliance"
	DataGovernance     DomainID = "data-governance"
	Infrastructure     DomainID = "infrastructure"
	ServiceDelivery    DomainID = "service-delivery"
	VendorManagement   DomainID = "vendor-management"
	LegalTechnology    DomainID = "legal-technology"
)

// Dimension is one of the five rating axes applied inside every domain.
type Dimension string

const (
	People      Dimension = "people"
	Process     Dimension = "process"
	Tooling     Dimension = "tooling"
	Data        Dimension = "data"
	Improvement Dimension = "improvement"
)

// MinRating and MaxRating bound a single answer; 0 means unanswered.
const (
	Unanswered = 0
	MinRating  = 1
	MaxRating  = 5
)

type DomainInfo struct {
	ID   DomainID `json:"id"`
	Name string   `json:"name"`
}

type DimensionInfo struct {
	ID   Dimension `json:"id"`
	Name string    `json:"name"`
}

type ScalePoint struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// catalog order is the iteration order everywhere (scores, ties, exports).
var domains = []DomainInfo{
	{StrategyGovernance, "IT Strategy & Governance"},
	{Cybersecurity, "Cybersecurity"},
	{RiskCompliance, "Risk & Compliance"},
	{DataGovernance, "Data Governance & Records Management"},
	{Infrastructure, "Infrastructure & Cloud Operations"},
	{ServiceDelivery, "Service Delivery & Support"},
	{VendorManagement, "Vendor & Contract Management"},
	{LegalTechnology, "Legal Technology & Innovation"},
}

var dimensions = []DimensionInfo{
	{People, "People"},
	{Process, "Process"},
	{Tooling, "Tooling"},
	{Data, "Data"},
	{Improvement, "Continual Improvement"},
}

var scale = []ScalePoint{
	{1, "Initial"},
	{2, "Developing"},
	{3, "Defined"},
	{4, "Managed"},
	{5, "Optimizing"},
}

// Domains returns the fixed domain set in catalog order.
func Domains() []DomainInfo {
	out := make([]DomainInfo, len(domains))
	copy(out, domains)
	return out
}

// DomainIDs returns only the ids, in catalog order.
func DomainIDs() []DomainID {
	out := make([]DomainID, len(domains))
	for i, d := range domains {
		out[i] = d.ID
	}
	return out
}

func Dimensions() []DimensionInfo {
	out := make([]DimensionInfo, len(dimensions))
	copy(out, dimensions)
	return out
}

func Scale() []ScalePoint {
	out := make([]ScalePoint, len(scale))
	copy(out, scale)
	return out
}

func IsDomain(id DomainID) bool {
	_, ok := domainIndex(id)
	return ok
}

func IsDimension(d Dimension) bool {
	for _, x := range dimensions {
		if x.ID == d {
			return true
		}
	}
	return false
}

// DomainName returns the display name, or the raw id for unknown domains.
func DomainName(id DomainID) string {
	if i, ok := domainIndex(id); ok {
		return domains[i].Name
	}
	return string(id)
}

func DimensionName(d Dimension) string {
	for _, x := range dimensions {
		if x.ID == d {
			return x.Name
		}
	}
	return string(d)
}

func domainIndex(id DomainID) (int, bool) {
	for i, d := range domains {
		if d.ID == id {
			return i, true
		}
	}
	return -1, false
}
