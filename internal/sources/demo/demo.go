// Package demo provides offline source adapters backed by embedded fixture
// datasets. They satisfy the same contracts as the live adapters, so demo
// mode is a startup-time substitution rather than a conditional inside the
// live clients.
package demo

import (
	"context"
	"embed"
	"sync"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/dealsync/dealsync/internal/sources"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
	"github.com/dealsync/dealsync/pkg/records"
)

var (
	_ sources.OpportunitySource = (*Opportunities)(nil)
	_ sources.IssueSource       = (*Issues)(nil)
)

//go:embed data/*.yaml
var dataFS embed.FS

// fixtures holds the parsed embedded datasets, loaded once on first use.
var fixtures struct {
	once          sync.Once
	err           error
	opportunities []records.Opportunity
	issues        []records.Issue
}

func load() error {
	fixtures.once.Do(func() {
		fixtures.err = parse()
	})
	return fixtures.err
}

func parse() error {
	raw, err := dataFS.ReadFile("data/opportunities.yaml")
	if err != nil {
		return errors.NewConfigError("demo", "reading embedded opportunities", err)
	}
	var opps struct {
		Opportunities []records.Opportunity `yaml:"opportunities"`
	}
	if err := yaml.Unmarshal(raw, &opps); err != nil {
		return errors.NewConfigError("demo", "parsing embedded opportunities", err)
	}

	raw, err = dataFS.ReadFile("data/issues.yaml")
	if err != nil {
		return errors.NewConfigError("demo", "reading embedded issues", err)
	}
	var iss struct {
		Issues []records.Issue `yaml:"issues"`
	}
	if err := yaml.Unmarshal(raw, &iss); err != nil {
		return errors.NewConfigError("demo", "parsing embedded issues", err)
	}

	fixtures.opportunities = opps.Opportunities
	fixtures.issues = iss.Issues
	return nil
}

// Opportunities serves the embedded CRM fixture dataset.
type Opportunities struct{}

// NewOpportunities creates the demo CRM source.
func NewOpportunities() *Opportunities {
	return &Opportunities{}
}

// Name identifies the source in logs and error strings.
func (o *Opportunities) Name() string {
	return "salesforce"
}

// Connect parses the embedded dataset; there is no session to establish.
func (o *Opportunities) Connect(ctx context.Context) error {
	if err := load(); err != nil {
		return errors.WrapConnection(o.Name(), err)
	}
	logging.Ctx(ctx).Info().
		Str("source", o.Name()).
		Bool("demo", true).
		Msg("Connected to demo CRM dataset")
	return nil
}

// Fetch returns a fresh copy of the fixture opportunities. Callers may
// mutate the returned slice without affecting later runs.
func (o *Opportunities) Fetch(ctx context.Context) ([]records.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapFetch(o.Name(), err)
	}
	if err := load(); err != nil {
		return nil, errors.WrapFetch(o.Name(), err)
	}

	out := make([]records.Opportunity, len(fixtures.opportunities))
	copy(out, fixtures.opportunities)

	logging.Ctx(ctx).Info().
		Str("source", o.Name()).
		Bool("demo", true).
		Int("records", len(out)).
		Msg("Fetched opportunities from demo dataset")
	return out, nil
}

// LastModified reports the current time; fixtures carry no modification
// timestamps.
func (o *Opportunities) LastModified(ctx context.Context, id string) (utc.Time, error) {
	if err := load(); err != nil {
		return utc.Time{}, errors.WrapFetch(o.Name(), err)
	}
	for _, opp := range fixtures.opportunities {
		if opp.ID == id {
			return utc.Now(), nil
		}
	}
	return utc.Time{}, errors.ErrNotFound
}

// Issues serves the embedded tracker fixture dataset.
type Issues struct{}

// NewIssues creates the demo tracker source.
func NewIssues() *Issues {
	return &Issues{}
}

// Name identifies the source in logs and error strings.
func (i *Issues) Name() string {
	return "jira"
}

// Connect parses the embedded dataset; there is no session to establish.
func (i *Issues) Connect(ctx context.Context) error {
	if err := load(); err != nil {
		return errors.WrapConnection(i.Name(), err)
	}
	logging.Ctx(ctx).Info().
		Str("source", i.Name()).
		Bool("demo", true).
		Msg("Connected to demo tracker dataset")
	return nil
}

// Fetch returns a fresh copy of the fixture issues.
func (i *Issues) Fetch(ctx context.Context) ([]records.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapFetch(i.Name(), err)
	}
	if err := load(); err != nil {
		return nil, errors.WrapFetch(i.Name(), err)
	}

	out := make([]records.Issue, len(fixtures.issues))
	copy(out, fixtures.issues)

	logging.Ctx(ctx).Info().
		Str("source", i.Name()).
		Bool("demo", true).
		Int("records", len(out)).
		Msg("Fetched issues from demo dataset")
	return out, nil
}

// LastModified returns the issue's fixture update timestamp.
func (i *Issues) LastModified(ctx context.Context, key string) (utc.Time, error) {
	if err := load(); err != nil {
		return utc.Time{}, errors.WrapFetch(i.Name(), err)
	}
	for _, issue := range fixtures.issues {
		if issue.Key == key {
			return issue.Updated, nil
		}
	}
	return utc.Time{}, errors.ErrNotFound
}
