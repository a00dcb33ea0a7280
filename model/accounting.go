package model

type Invoice struct {
	URL          string `json:"url,omitempty"`
	Reference    string `json:"reference,omitempty"`
	Contact      string `json:"contact,omitempty"`
	Project      string `json:"project,omitempty"`
	Status       string `json:"status,omitempty"`
	DatedOn      string `json:"dated_on,omitempty"`
	DueOn        string `json:"due_on,omitempty"`
	Currency     string `json:"currency,omitempty"`
	NetValue     string `json:"net_value,omitempty"`
	TotalValue   string `json:"total_value,omitempty"`
	PaidValue    string `json:"paid_value,omitempty"`
	DueValue     string `json:"due_value,omitempty"`
	PaymentTerms int    `json:"payment_terms_in_days,omitempty"`
}

func (i Invoice) Identity() string { return i.URL }

func (i Invoice) Ref(relation string) string {
	switch relation {
	case RelContact:
		return i.Contact
	case RelProject:
		return i.Project
	default:
		return ""
	}
}

type Bill struct {
	URL        string `json:"url,omitempty"`
	Reference  string `json:"reference,omitempty"`
	Contact    string `json:"contact,omitempty"`
	Project    string `json:"project,omitempty"`
	Status     string `json:"status,omitempty"`
	DatedOn    string `json:"dated_on,omitempty"`
	DueOn      string `json:"due_on,omitempty"`
	TotalValue string `json:"total_value,omitempty"`
	PaidValue  string `json:"paid_value,omitempty"`
	DueValue   string `json:"due_value,omitempty"`
	Comments   string `json:"comments,omitempty"`
}

func (b Bill) Identity() string { return b.URL }

func (b Bill) Ref(relation string) string {
	switch relation {
	case RelContact:
		return b.Contact
	case RelProject:
		return b.Project
	default:
		return ""
	}
}
