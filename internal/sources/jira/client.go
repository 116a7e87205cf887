// Package jira provides the live issue-tracker adapter backed by the Jira REST API.
package jira

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/utc"
	gojira "github.com/andygrunwald/go-jira"

	"github.com/dealsync/dealsync/internal/sources"
	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
	"github.com/dealsync/dealsync/pkg/records"
)

var _ sources.IssueSource = (*Client)(nil)

// DefaultJQL is the issue query used when none is configured.
const DefaultJQL = "project = SALES ORDER BY created DESC"

const sourceName = "jira"

// maxResults caps a single search; the pipelines this syncs are small.
const maxResults = 100

// searchFields is the field list requested from the search API.
var searchFields = []string{"summary", "status", "assignee", "priority", "created", "updated"}

// Config holds the credentials and query for the live Jira client.
type Config struct {
	URL      string // base URL, e.g. https://example.atlassian.net
	Email    string
	APIToken string
	JQL      string
}

// Configured reports whether enough settings are present to attempt a login.
func (c Config) Configured() bool {
	return c.URL != "" && c.Email != "" && c.APIToken != ""
}

// Client implements the sources.IssueSource contract against a live Jira site.
type Client struct {
	cfg Config

	mu  sync.RWMutex
	api *gojira.Client // set by Connect
}

// New creates a Jira source from config.
func New(cfg Config) *Client {
	if cfg.JQL == "" {
		cfg.JQL = DefaultJQL
	}
	return &Client{cfg: cfg}
}

// Name identifies the source in logs and error strings.
func (c *Client) Name() string {
	return sourceName
}

// Connect builds an authenticated client and verifies the credentials
// with a self lookup.
func (c *Client) Connect(ctx context.Context) error {
	if !c.cfg.Configured() {
		return errors.NewConnectionError(sourceName, errors.ErrNotConfigured)
	}

	tp := gojira.BasicAuthTransport{
		Username: c.cfg.Email,
		Password: c.cfg.APIToken,
	}
	httpClient := tp.Client()
	httpClient.Timeout = constants.DefaultHTTPTimeout

	api, err := gojira.NewClient(httpClient, c.cfg.URL)
	if err != nil {
		return errors.NewConnectionError(sourceName, err)
	}

	if _, _, err := api.User.GetSelfWithContext(ctx); err != nil {
		return errors.NewAuthenticationError(sourceName, "api_token", "credential check failed", err)
	}

	c.mu.Lock()
	c.api = api
	c.mu.Unlock()

	logging.Ctx(ctx).Info().Str("source", sourceName).Msg("Connected to Jira")
	return nil
}

// Fetch runs the configured JQL query and converts the result issues.
func (c *Client) Fetch(ctx context.Context) ([]records.Issue, error) {
	api := c.session()
	if api == nil {
		return nil, errors.NewFetchError(sourceName, errors.ErrNotConnected)
	}

	opts := &gojira.SearchOptions{
		MaxResults: maxResults,
		Fields:     searchFields,
	}

	found, _, err := api.Issue.SearchWithContext(ctx, c.cfg.JQL, opts)
	if err != nil {
		return nil, errors.NewFetchError(sourceName, err)
	}

	issues := make([]records.Issue, 0, len(found))
	for _, issue := range found {
		issues = append(issues, convertToIssue(issue))
	}

	logging.Ctx(ctx).Info().
		Str("source", sourceName).
		Int("issues", len(issues)).
		Msg("Fetched issues from Jira")
	return issues, nil
}

// LastModified fetches the issue's Updated timestamp.
func (c *Client) LastModified(ctx context.Context, key string) (utc.Time, error) {
	api := c.session()
	if api == nil {
		return utc.Time{}, errors.WrapFetch(sourceName, errors.ErrNotConnected)
	}

	issue, _, err := api.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		return utc.Time{}, errors.NewFetchError(sourceName, err)
	}
	if issue.Fields == nil {
		return utc.Time{}, errors.ErrNotFound
	}
	return utc.Time{Time: time.Time(issue.Fields.Updated)}, nil
}

// session returns the live API handle, or nil before a successful Connect.
func (c *Client) session() *gojira.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api
}

// convertToIssue maps a Jira issue onto the domain record.
func convertToIssue(issue gojira.Issue) records.Issue {
	rec := records.Issue{Key: issue.Key}

	fields := issue.Fields
	if fields == nil {
		return rec
	}

	rec.Summary = fields.Summary
	rec.Assignee = "Unassigned"
	rec.Priority = "None"

	if fields.Status != nil {
		rec.Status = fields.Status.Name
	}
	if fields.Assignee != nil {
		rec.Assignee = fields.Assignee.DisplayName
	}
	if fields.Priority != nil {
		rec.Priority = fields.Priority.Name
	}

	rec.Created = utc.Time{Time: time.Time(fields.Created)}
	rec.Updated = utc.Time{Time: time.Time(fields.Updated)}
	return rec
}
