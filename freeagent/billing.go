package freeagent

import (
	"time"

	"github.com/goliatone/go-freeagent/dates"
	"github.com/goliatone/go-freeagent/enrich"
	"github.com/goliatone/go-freeagent/model"
	"github.com/shopspring/decimal"
)

// BillingReport is the result of Client.BillingDetail.
type BillingReport struct {
	From     time.Time
	To       time.Time
	Projects []ProjectBilling
}

// ProjectBilling totals one project. Weeks are in chronological order.
type ProjectBilling struct {
	Project enrich.Project
	Weeks   []WeekBilling
	Hours   decimal.Decimal
	Cost    decimal.Decimal
}

// WeekBilling totals the timeslips of one ISO week.
type WeekBilling struct {
	Week      dates.Week
	Timeslips []enrich.Timeslip
	Hours     decimal.Decimal
	Cost      decimal.Decimal
}

// Totals sums hours and cost over every project of the report.
func (r *BillingReport) Totals() (hours, cost decimal.Decimal) {
	hours, cost = decimal.Zero, decimal.Zero
	for _, p := range r.Projects {
		hours = hours.Add(p.Hours)
		cost = cost.Add(p.Cost)
	}
	return hours, cost
}

func (c *Client) projectBilling(p enrich.Project) ProjectBilling {
	out := ProjectBilling{Project: p, Hours: decimal.Zero, Cost: decimal.Zero}
	hoursPerDay := projectHoursPerDay(p.Project)

	weeks, undated := dates.PartitionByWeek(p.Timeslips, func(ts enrich.Timeslip) (time.Time, error) {
		return dates.ParseDate(ts.DatedOn)
	})
	for _, ts := range undated {
		c.logger.Debug().Str("timeslip", ts.URL).Msg("timeslip without usable date")
	}

	for _, week := range dates.SortedWeeks(weeks) {
		wb := WeekBilling{Week: week, Timeslips: weeks[week], Hours: decimal.Zero, Cost: decimal.Zero}
		for _, ts := range wb.Timeslips {
			hours, err := model.ParseAmount(ts.Hours)
			if err != nil {
				c.logger.Debug().Err(err).Str("timeslip", ts.URL).Str("hours", ts.Hours).Msg("timeslip with unreadable hours")
				continue
			}
			wb.Hours = wb.Hours.Add(hours)
			wb.Cost = wb.Cost.Add(timeslipCost(hours, ts.Task, hoursPerDay))
		}
		out.Hours = out.Hours.Add(wb.Hours)
		out.Cost = out.Cost.Add(wb.Cost)
		out.Weeks = append(out.Weeks, wb)
	}
	return out
}

// timeslipCost prices hours at the task's billing rate. Day rates are
// converted with the project's hours per day. Timeslips without a task, on a
// non-billable task or with an unreadable rate cost nothing.
func timeslipCost(hours decimal.Decimal, task *model.Task, hoursPerDay decimal.Decimal) decimal.Decimal {
	if task == nil || !task.IsBillable {
		return decimal.Zero
	}
	rate, err := model.ParseAmount(task.BillingRate)
	if err != nil {
		return decimal.Zero
	}
	if task.BillingPeriod == model.BillingPeriodDay {
		return hours.Div(hoursPerDay).Mul(rate)
	}
	return hours.Mul(rate)
}

func projectHoursPerDay(p model.Project) decimal.Decimal {
	h, err := model.ParseAmount(p.HoursPerDay)
	if err != nil || !h.IsPositive() {
		return decimal.NewFromInt(model.DefaultHoursPerDay)
	}
	return h
}
