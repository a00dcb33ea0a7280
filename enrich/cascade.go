package enrich

import "github.com/goliatone/go-freeagent/model"

// Timeslip is a timeslip with its task and user attached. Task and User are
// nil when the reference did not match a fetched record.
type Timeslip struct {
	model.Timeslip
	Task *model.Task
	User *model.User
}

// Project is a project with its contact and its enriched timeslips.
type Project struct {
	model.Project
	Contact   *model.Contact
	Timeslips []Timeslip
}

// Estimate is an estimate with its project and the project's contact.
type Estimate struct {
	model.Estimate
	Project *model.Project
	Contact *model.Contact
}

// EnrichTimeslips attaches task and user to each timeslip. This is the leaf
// level of the billing cascade and must run before EnrichProjects.
func EnrichTimeslips(timeslips []model.Timeslip, tasks []model.Task, users []model.User) []Timeslip {
	records := Enrich(Joinables(timeslips), map[string][]Joinable{
		model.RelTask: Joinables(tasks),
		model.RelUser: Joinables(users),
	})

	out := make([]Timeslip, len(records))
	for i, rec := range records {
		out[i] = Timeslip{
			Timeslip: rec.Primary.(model.Timeslip),
			Task:     related[model.Task](rec, model.RelTask),
			User:     related[model.User](rec, model.RelUser),
		}
	}
	return out
}

// EnrichProjects attaches each project's contact and the already enriched
// timeslips that belong to it.
func EnrichProjects(projects []model.Project, contacts []model.Contact, timeslips []Timeslip) []Project {
	records := Enrich(Joinables(projects), map[string][]Joinable{
		model.RelContact: Joinables(contacts),
	})

	byProject := make(map[string][]Timeslip)
	for _, ts := range timeslips {
		if ts.Timeslip.Project == "" {
			continue
		}
		byProject[ts.Timeslip.Project] = append(byProject[ts.Timeslip.Project], ts)
	}

	out := make([]Project, len(records))
	for i, rec := range records {
		p := rec.Primary.(model.Project)
		out[i] = Project{
			Project:   p,
			Contact:   related[model.Contact](rec, model.RelContact),
			Timeslips: append([]Timeslip(nil), byProject[p.URL]...),
		}
	}
	return out
}

// EnrichEstimates attaches the owning project of each estimate and that
// project's contact.
func EnrichEstimates(estimates []model.Estimate, projects []model.Project, contacts []model.Contact) []Estimate {
	projectIndex := Index(projects)
	contactIndex := Index(contacts)

	out := make([]Estimate, len(estimates))
	for i, e := range estimates {
		enriched := Estimate{Estimate: e}
		if p, ok := projectIndex[e.Project]; ok {
			enriched.Project = &p
			if c, ok := contactIndex[p.Contact]; ok {
				enriched.Contact = &c
			}
		}
		out[i] = enriched
	}
	return out
}

// related returns a pointer to a copy of the record joined under relation.
func related[T Joinable](rec Record, relation string) *T {
	j, ok := rec.Related(relation)
	if !ok {
		return nil
	}
	v, ok := j.(T)
	if !ok {
		return nil
	}
	return &v
}
