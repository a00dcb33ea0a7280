package freeagent

import (
	"github.com/goliatone/go-freeagent/cache"
	"github.com/goliatone/go-freeagent/rest"
)

// Business data slides on the short TTL; lookup tables keep the long fixed one.
var (
	ContactsEndpoint  = rest.NewEndpoint("contacts", cache.PolicyBusiness)
	ProjectsEndpoint  = rest.NewEndpoint("projects", cache.PolicyBusiness)
	TasksEndpoint     = rest.NewEndpoint("tasks", cache.PolicyBusiness)
	TimeslipsEndpoint = rest.NewEndpoint("timeslips", cache.PolicyBusiness)
	UsersEndpoint     = rest.NewEndpoint("users", cache.PolicyBusiness)
	EstimatesEndpoint = rest.NewEndpoint("estimates", cache.PolicyBusiness)
	InvoicesEndpoint  = rest.NewEndpoint("invoices", cache.PolicyBusiness)
	BillsEndpoint     = rest.NewEndpoint("bills", cache.PolicyBusiness)

	CISBandsEndpoint      = rest.NewEndpoint("cis_bands", cache.PolicyReference).WithCollectionKey("available_bands")
	SalesTaxRatesEndpoint = rest.NewEndpoint("sales_tax_rates", cache.PolicyReference)
)
