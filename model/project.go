package model

// DefaultHoursPerDay applies to projects that do not set hours_per_day.
const DefaultHoursPerDay = 8

// Project statuses accepted by the "view" filter of the projects endpoint.
const (
	ProjectViewActive    = "active"
	ProjectViewCompleted = "completed"
	ProjectViewAll       = "all"
)

type Project struct {
	URL               string `json:"url,omitempty"`
	Name              string `json:"name,omitempty"`
	Contact           string `json:"contact,omitempty"`
	Status            string `json:"status,omitempty"`
	Currency          string `json:"currency,omitempty"`
	Budget            string `json:"budget,omitempty"`
	BudgetUnits       string `json:"budget_units,omitempty"`
	NormalBillingRate string `json:"normal_billing_rate,omitempty"`
	BillingPeriod     string `json:"billing_period,omitempty"`
	HoursPerDay       string `json:"hours_per_day,omitempty"`
	StartsOn          string `json:"starts_on,omitempty"`
	EndsOn            string `json:"ends_on,omitempty"`
}

func (p Project) Identity() string { return p.URL }

func (p Project) Ref(relation string) string {
	if relation == RelContact {
		return p.Contact
	}
	return ""
}

// Task billing periods.
const (
	BillingPeriodHour = "hour"
	BillingPeriodDay  = "day"
)

type Task struct {
	URL           string `json:"url,omitempty"`
	Project       string `json:"project,omitempty"`
	Name          string `json:"name,omitempty"`
	IsBillable    bool   `json:"is_billable"`
	BillingRate   string `json:"billing_rate,omitempty"`
	BillingPeriod string `json:"billing_period,omitempty"`
	Status        string `json:"status,omitempty"`
}

func (t Task) Identity() string { return t.URL }

func (t Task) Ref(relation string) string {
	if relation == RelProject {
		return t.Project
	}
	return ""
}

type Timeslip struct {
	URL     string `json:"url,omitempty"`
	User    string `json:"user,omitempty"`
	Project string `json:"project,omitempty"`
	Task    string `json:"task,omitempty"`
	DatedOn string `json:"dated_on,omitempty"`
	Hours   string `json:"hours,omitempty"`
	Comment string `json:"comment,omitempty"`
}

func (t Timeslip) Identity() string { return t.URL }

func (t Timeslip) Ref(relation string) string {
	switch relation {
	case RelUser:
		return t.User
	case RelProject:
		return t.Project
	case RelTask:
		return t.Task
	default:
		return ""
	}
}
