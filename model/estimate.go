package model

// Estimate statuses used as the "view" filter of the estimates endpoint.
const (
	EstimateStatusDraft    = "draft"
	EstimateStatusSent     = "sent"
	EstimateStatusApproved = "approved"
	EstimateStatusRejected = "rejected"
	EstimateStatusInvoiced = "invoiced"
)

type Estimate struct {
	URL           string         `json:"url,omitempty"`
	Reference     string         `json:"reference,omitempty"`
	Contact       string         `json:"contact,omitempty"`
	Project       string         `json:"project,omitempty"`
	Status        string         `json:"status,omitempty"`
	EstimateType  string         `json:"estimate_type,omitempty"`
	DatedOn       string         `json:"dated_on,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	NetValue      string         `json:"net_value,omitempty"`
	TotalValue    string         `json:"total_value,omitempty"`
	EstimateItems []EstimateItem `json:"estimate_items,omitempty"`
}

func (e Estimate) Identity() string { return e.URL }

func (e Estimate) Ref(relation string) string {
	switch relation {
	case RelContact:
		return e.Contact
	case RelProject:
		return e.Project
	default:
		return ""
	}
}

type EstimateItem struct {
	URL          string `json:"url,omitempty"`
	Position     int    `json:"position,omitempty"`
	ItemType     string `json:"item_type,omitempty"`
	Description  string `json:"description,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	Price        string `json:"price,omitempty"`
	SalesTaxRate string `json:"sales_tax_rate,omitempty"`
}
