package freeagent

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goliatone/go-freeagent/dates"
	"github.com/goliatone/go-freeagent/enrich"
	"github.com/goliatone/go-freeagent/model"
	"github.com/goliatone/go-freeagent/revenue"
	"golang.org/x/sync/errgroup"
)

// ProjectsWithContacts returns the active projects, each with its contact.
// Projects and contacts are fetched concurrently.
func (c *Client) ProjectsWithContacts(ctx context.Context) ([]enrich.Project, error) {
	var (
		projects []model.Project
		contacts []model.Contact
		g        errgroup.Group
	)

	g.Go(func() (err error) {
		projects, err = c.Projects.ListAll(ctx, url.Values{"view": {model.ProjectViewActive}})
		return wrap("fetch projects", err)
	})
	g.Go(func() (err error) {
		contacts, err = c.Contacts.ListAll(ctx, nil)
		return wrap("fetch contacts", err)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("projects with contacts: %w", err)
	}

	return enrich.EnrichProjects(projects, contacts, nil), nil
}

// MonthlyRevenue projects revenue per calendar month from the line items of
// approved and draft estimates.
//
// Contacts with active projects, active projects and both estimate sets are
// fetched concurrently. Estimate details are then loaded one at a time; an
// estimate whose detail fails is skipped and reported to the skip handler.
func (c *Client) MonthlyRevenue(ctx context.Context) (revenue.Projection, error) {
	var (
		contacts []model.Contact
		projects []model.Project
		approved []model.Estimate
		drafts   []model.Estimate
		g        errgroup.Group
	)

	g.Go(func() (err error) {
		contacts, err = c.Contacts.ListAll(ctx, url.Values{"view": {"active_projects"}})
		return wrap("fetch contacts", err)
	})
	g.Go(func() (err error) {
		projects, err = c.Projects.ListAll(ctx, url.Values{"view": {model.ProjectViewActive}})
		return wrap("fetch projects", err)
	})
	g.Go(func() (err error) {
		approved, err = c.Estimates.ListAll(ctx, url.Values{"view": {model.EstimateStatusApproved}})
		return wrap("fetch approved estimates", err)
	})
	g.Go(func() (err error) {
		drafts, err = c.Estimates.ListAll(ctx, url.Values{"view": {model.EstimateStatusDraft}})
		return wrap("fetch draft estimates", err)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}

	estimates := make([]model.Estimate, 0, len(approved)+len(drafts))
	estimates = append(estimates, approved...)
	estimates = append(estimates, drafts...)

	opts := []revenue.Option{revenue.WithLogger(c.logger)}
	if c.onSkip != nil {
		opts = append(opts, revenue.WithSkipHandler(c.onSkip))
	}
	projector := revenue.NewProjector(revenue.DetailFetcherFunc(c.estimateDetail), opts...)

	return projector.ProjectMonthlyRevenue(ctx, estimates, projects, contacts)
}

func (c *Client) estimateDetail(ctx context.Context, estimateURL string) (model.Estimate, error) {
	return c.Estimates.Get(ctx, estimateURL, nil)
}

// BillingDetail reports hours and cost per ISO week for every active project
// between from and to, both days inclusive.
//
// Contacts, active projects and users are fetched concurrently, then tasks
// and the timeslips of the interval. Timeslips are enriched with task and
// user before they are attached to their project.
func (c *Client) BillingDetail(ctx context.Context, from, to time.Time) (*BillingReport, error) {
	var (
		contacts []model.Contact
		projects []model.Project
		users    []model.User
		stage1   errgroup.Group
	)

	stage1.Go(func() (err error) {
		contacts, err = c.Contacts.ListAll(ctx, nil)
		return wrap("fetch contacts", err)
	})
	stage1.Go(func() (err error) {
		projects, err = c.Projects.ListAll(ctx, url.Values{"view": {model.ProjectViewActive}})
		return wrap("fetch projects", err)
	})
	stage1.Go(func() (err error) {
		users, err = c.Users.ListAll(ctx, nil)
		return wrap("fetch users", err)
	})
	if err := stage1.Wait(); err != nil {
		return nil, fmt.Errorf("billing detail: %w", err)
	}

	var (
		tasks     []model.Task
		timeslips []model.Timeslip
		stage2    errgroup.Group
	)

	stage2.Go(func() (err error) {
		tasks, err = c.Tasks.ListAll(ctx, nil)
		return wrap("fetch tasks", err)
	})
	stage2.Go(func() (err error) {
		timeslips, err = c.Timeslips.ListAll(ctx, url.Values{
			"from_date": {dates.FormatDate(from)},
			"to_date":   {dates.FormatDate(to)},
		})
		return wrap("fetch timeslips", err)
	})
	if err := stage2.Wait(); err != nil {
		return nil, fmt.Errorf("billing detail: %w", err)
	}

	inRange := make([]model.Timeslip, 0, len(timeslips))
	for _, ts := range timeslips {
		day, err := dates.ParseDate(ts.DatedOn)
		if err != nil {
			c.logger.Debug().Err(err).Str("timeslip", ts.URL).Msg("timeslip without usable date")
			continue
		}
		if dates.InInterval(day, from, to) {
			inRange = append(inRange, ts)
		}
	}

	enrichedSlips := enrich.EnrichTimeslips(inRange, tasks, users)
	enrichedProjects := enrich.EnrichProjects(projects, contacts, enrichedSlips)

	report := &BillingReport{From: dates.Day(from), To: dates.Day(to)}
	for _, p := range enrichedProjects {
		report.Projects = append(report.Projects, c.projectBilling(p))
	}
	return report, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
