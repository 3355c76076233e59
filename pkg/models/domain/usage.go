package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeHours = errors.New("usage hours must not be negative")
	ErrSealed        = errors.New("usage aggregate is sealed")
)

// ProjectUsage holds the SU hours of one project in first-seen SU order.
type ProjectUsage struct {
	Project string
	suTypes []string
	hours   map[string]int64
}

func newProjectUsage(project string) *ProjectUsage {
	return &ProjectUsage{
		Project: project,
		hours:   make(map[string]int64),
	}
}

func (p *ProjectUsage) SUTypes() []string {
	return append([]string(nil), p.suTypes...)
}

func (p *ProjectUsage) Hours(suType string) int64 {
	return p.hours[suType]
}

func (p *ProjectUsage) add(suType string, hours int64) {
	if _, ok := p.hours[suType]; !ok {
		p.suTypes = append(p.suTypes, suType)
	}
	p.hours[suType] += hours
}

// UsageAggregate maps project -> SU type -> billable hours, remembering the
// order in which projects and SU types were first added.
// Add is the only mutation path; once sealed the aggregate is read-only.
type UsageAggregate struct {
	projects []*ProjectUsage
	index    map[string]*ProjectUsage
	sealed   bool
}

func NewUsageAggregate() *UsageAggregate {
	return &UsageAggregate{index: make(map[string]*ProjectUsage)}
}

// Add accumulates hours for a (project, SU type) pair, creating entries on demand.
func (a *UsageAggregate) Add(project, suType string, hours int64) error {
	if a.sealed {
		return ErrSealed
	}
	if hours < 0 {
		return fmt.Errorf("%w: project %q, su %q, hours %d", ErrNegativeHours, project, suType, hours)
	}

	pu, ok := a.index[project]
	if !ok {
		pu = newProjectUsage(project)
		a.index[project] = pu
		a.projects = append(a.projects, pu)
	}
	pu.add(suType, hours)
	return nil
}

// Merge folds other into a with the same additive rule as Add.
func (a *UsageAggregate) Merge(other *UsageAggregate) error {
	for _, pu := range other.projects {
		for _, su := range pu.suTypes {
			if err := a.Add(pu.Project, su, pu.hours[su]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *UsageAggregate) Seal() {
	a.sealed = true
}

func (a *UsageAggregate) Sealed() bool {
	return a.sealed
}

// Projects returns the project usages in first-seen order.
func (a *UsageAggregate) Projects() []*ProjectUsage {
	return append([]*ProjectUsage(nil), a.projects...)
}

func (a *UsageAggregate) Project(name string) (*ProjectUsage, bool) {
	pu, ok := a.index[name]
	return pu, ok
}

// Totals flattens the aggregate into nested maps, dropping ordering.
func (a *UsageAggregate) Totals() map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(a.projects))
	for _, pu := range a.projects {
		m := make(map[string]int64, len(pu.hours))
		for su, h := range pu.hours {
			m[su] = h
		}
		out[pu.Project] = m
	}
	return out
}
