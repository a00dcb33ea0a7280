// Package revenue projects monthly revenue from estimate line items.
//
// Each priced line item is bucketed into the calendar month named in its
// description ("Consulting January 2024 retainer"). Items without such a
// token are left out; the heuristic is deliberate and only reported through
// debug logs and metrics.
package revenue

import (
	"context"
	"fmt"

	"github.com/goliatone/go-freeagent/dates"
	"github.com/goliatone/go-freeagent/enrich"
	"github.com/goliatone/go-freeagent/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DetailFetcher loads an estimate with its line items.
type DetailFetcher interface {
	EstimateDetail(ctx context.Context, estimateURL string) (model.Estimate, error)
}

// DetailFetcherFunc adapts a function to DetailFetcher.
type DetailFetcherFunc func(ctx context.Context, estimateURL string) (model.Estimate, error)

func (f DetailFetcherFunc) EstimateDetail(ctx context.Context, estimateURL string) (model.Estimate, error) {
	return f(ctx, estimateURL)
}

// Line is one priced estimate item attributed to a month. Project and Contact
// are nil when the references did not resolve.
type Line struct {
	Estimate    string
	Description string
	Project     *model.Project
	Contact     *model.Contact
	Amount      decimal.Decimal
}

// Projection groups lines by calendar month. Order inside a month follows the
// estimate and item order of the input.
type Projection map[dates.Month][]Line

// Months returns the months of the projection in chronological order.
func (p Projection) Months() []dates.Month {
	return dates.SortedMonths(p)
}

// Total sums the amounts of month.
func (p Projection) Total(month dates.Month) decimal.Decimal {
	total := decimal.Zero
	for _, line := range p[month] {
		total = total.Add(line.Amount)
	}
	return total
}

// SkipFunc receives estimates that were left out of a projection.
type SkipFunc func(estimateURL string, err error)

type Option func(*Projector)

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Projector) {
		p.logger = logger
	}
}

// WithSkipHandler registers fn to be called for every skipped estimate, in
// addition to the warning log.
func WithSkipHandler(fn SkipFunc) Option {
	return func(p *Projector) {
		p.onSkip = fn
	}
}

// Projector turns estimates into a monthly revenue projection.
type Projector struct {
	fetcher DetailFetcher
	logger  zerolog.Logger
	onSkip  SkipFunc
}

func NewProjector(fetcher DetailFetcher, opts ...Option) *Projector {
	p := &Projector{
		fetcher: fetcher,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("component", "revenue").Logger()
	return p
}

// ProjectMonthlyRevenue fetches the detail of every estimate, one at a time,
// and buckets its priced items by the month named in their description.
//
// A failed detail fetch skips that estimate: the failure is logged and passed
// to the skip handler, and the projection carries on. The only error returned
// is the context's, when it is cancelled between estimates.
func (p *Projector) ProjectMonthlyRevenue(ctx context.Context, estimates []model.Estimate, projects []model.Project, contacts []model.Contact) (Projection, error) {
	projectIndex := enrich.Index(projects)
	contactIndex := enrich.Index(contacts)

	projection := make(Projection)
	for _, summary := range estimates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		detail, err := p.fetcher.EstimateDetail(ctx, summary.URL)
		if err != nil {
			p.skip(summary.URL, err)
			continue
		}

		projectURL := detail.Project
		if projectURL == "" {
			projectURL = summary.Project
		}

		var (
			project *model.Project
			contact *model.Contact
		)
		if pr, ok := projectIndex[projectURL]; ok {
			project = &pr
			if c, ok := contactIndex[pr.Contact]; ok {
				contact = &c
			}
		}

		for _, item := range detail.EstimateItems {
			line, month, ok := p.lineFor(summary.URL, item)
			if !ok {
				continue
			}
			line.Project = project
			line.Contact = contact
			projection[month] = append(projection[month], line)
		}
	}

	return projection, nil
}

func (p *Projector) lineFor(estimateURL string, item model.EstimateItem) (Line, dates.Month, bool) {
	price, err := model.ParseAmount(item.Price)
	if err != nil {
		p.logger.Debug().Err(err).Str("estimate", estimateURL).Str("price", item.Price).Msg("estimate item has unreadable price")
		return Line{}, dates.Month{}, false
	}
	if !price.IsPositive() {
		return Line{}, dates.Month{}, false
	}

	month, ok := ExtractMonth(item.Description)
	if !ok {
		itemsWithoutMonthTotal.Inc()
		p.logger.Debug().Str("estimate", estimateURL).Str("description", item.Description).Msg("priced estimate item names no month")
		return Line{}, dates.Month{}, false
	}

	quantity, err := model.ParseAmount(item.Quantity)
	if err != nil {
		p.logger.Debug().Err(err).Str("estimate", estimateURL).Str("quantity", item.Quantity).Msg("estimate item has unreadable quantity")
		return Line{}, dates.Month{}, false
	}

	amount := price.Mul(quantity)
	if !amount.IsPositive() {
		return Line{}, dates.Month{}, false
	}

	return Line{
		Estimate:    estimateURL,
		Description: item.Description,
		Amount:      amount,
	}, month, true
}

func (p *Projector) skip(estimateURL string, err error) {
	estimatesSkippedTotal.Inc()
	p.logger.Warn().Err(err).Str("estimate", estimateURL).Msg("estimate skipped from revenue projection")
	if p.onSkip != nil {
		p.onSkip(estimateURL, fmt.Errorf("estimate %s: %w", estimateURL, err))
	}
}
