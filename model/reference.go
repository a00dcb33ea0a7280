package model

// CISBand is a Construction Industry Scheme deduction band. Bands have no URL;
// the band name identifies them.
type CISBand struct {
	Name              string `json:"name,omitempty"`
	DeductionRate     string `json:"deduction_rate,omitempty"`
	IncomeDescription string `json:"income_description,omitempty"`
	NominalCode       string `json:"nominal_code,omitempty"`
}

func (b CISBand) Identity() string { return b.Name }

func (b CISBand) Ref(string) string { return "" }

type SalesTaxRate struct {
	Name       string `json:"name,omitempty"`
	Country    string `json:"country,omitempty"`
	Percentage string `json:"percentage,omitempty"`
	ValidFrom  string `json:"valid_from,omitempty"`
}

func (r SalesTaxRate) Identity() string { return r.Country + "/" + r.Name }

func (r SalesTaxRate) Ref(string) string { return "" }
