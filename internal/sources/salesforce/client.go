// Package salesforce provides the live CRM adapter backed by the Salesforce API.
package salesforce

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"
	"github.com/simpleforce/simpleforce"

	"github.com/dealsync/dealsync/internal/sources"
	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
	"github.com/dealsync/dealsync/pkg/records"
)

var _ sources.OpportunitySource = (*Client)(nil)

// DefaultQuery is the SOQL used when none is configured: open opportunities
// with the fields the merge engine consumes.
const DefaultQuery = "SELECT Id, Name, Amount, StageName, CloseDate FROM Opportunity WHERE IsClosed = false"

const sourceName = "salesforce"

// timeLayout matches Salesforce datetime fields ("2024-01-15T10:30:00.000+0000").
const timeLayout = "2006-01-02T15:04:05.000-0700"

// Config holds the credentials and query for the live Salesforce client.
type Config struct {
	Username      string
	Password      string
	SecurityToken string
	Domain        string // "login" for production, "test" for sandboxes
	Query         string
}

// Configured reports whether enough settings are present to attempt a login.
func (c Config) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// loginURL builds the SOAP login endpoint from the configured domain.
func (c Config) loginURL() string {
	domain := c.Domain
	if domain == "" {
		domain = constants.DefaultSalesforceDomain
	}
	return fmt.Sprintf("https://%s.salesforce.com", domain)
}

// Client implements the sources.OpportunitySource contract against a live
// Salesforce org.
type Client struct {
	cfg Config

	mu  sync.RWMutex
	api *simpleforce.Client // set by Connect
}

// New creates a Salesforce source from config.
func New(cfg Config) *Client {
	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}
	return &Client{cfg: cfg}
}

// Name identifies the source in logs and error strings.
func (c *Client) Name() string {
	return sourceName
}

// Connect logs in with username, password, and security token.
func (c *Client) Connect(ctx context.Context) error {
	if !c.cfg.Configured() {
		return errors.NewConnectionError(sourceName, errors.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return errors.WrapConnection(sourceName, err)
	}

	api := simpleforce.NewClient(c.cfg.loginURL(), simpleforce.DefaultClientID, simpleforce.DefaultAPIVersion)
	if api == nil {
		return errors.NewConnectionError(sourceName, errors.New("client initialization failed"))
	}

	if err := api.LoginPassword(c.cfg.Username, c.cfg.Password, c.cfg.SecurityToken); err != nil {
		return errors.NewAuthenticationError(sourceName, "password", "login failed", err)
	}

	c.mu.Lock()
	c.api = api
	c.mu.Unlock()

	logging.Ctx(ctx).Info().Str("source", sourceName).Msg("Connected to Salesforce")
	return nil
}

// Fetch runs the configured SOQL query and converts the result rows.
func (c *Client) Fetch(ctx context.Context) ([]records.Opportunity, error) {
	api := c.session()
	if api == nil {
		return nil, errors.NewFetchError(sourceName, errors.ErrNotConnected)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapFetch(sourceName, err)
	}

	result, err := api.Query(c.cfg.Query)
	if err != nil {
		return nil, errors.NewFetchError(sourceName, err)
	}

	opportunities := make([]records.Opportunity, 0, len(result.Records))
	for _, record := range result.Records {
		opportunities = append(opportunities, convertToOpportunity(record))
	}

	logging.Ctx(ctx).Info().
		Str("source", sourceName).
		Int("records", len(opportunities)).
		Msg("Fetched opportunities from Salesforce")
	return opportunities, nil
}

// LastModified queries the record's LastModifiedDate.
func (c *Client) LastModified(ctx context.Context, id string) (utc.Time, error) {
	api := c.session()
	if api == nil {
		return utc.Time{}, errors.WrapFetch(sourceName, errors.ErrNotConnected)
	}
	if err := ctx.Err(); err != nil {
		return utc.Time{}, errors.WrapFetch(sourceName, err)
	}

	// Ids come from prior query results, but strip quotes anyway since SOQL
	// has no placeholder binding.
	id = strings.ReplaceAll(id, "'", "")
	q := fmt.Sprintf("SELECT LastModifiedDate FROM Opportunity WHERE Id = '%s'", id)

	result, err := api.Query(q)
	if err != nil {
		return utc.Time{}, errors.NewFetchError(sourceName, err)
	}
	if len(result.Records) == 0 {
		return utc.Time{}, errors.ErrNotFound
	}

	raw := result.Records[0].StringField("LastModifiedDate")
	ts, err := parseTime(raw)
	if err != nil {
		return utc.Time{}, errors.WrapFetch(sourceName, err)
	}
	return utc.Time{Time: ts}, nil
}

// session returns the live API handle, or nil before a successful Connect.
func (c *Client) session() *simpleforce.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api
}

// convertToOpportunity maps an SObject onto the domain record.
func convertToOpportunity(record simpleforce.SObject) records.Opportunity {
	opp := records.Opportunity{
		ID:        record.StringField("Id"),
		Name:      record.StringField("Name"),
		Stage:     record.StringField("StageName"),
		CloseDate: record.StringField("CloseDate"),
	}

	// Amount is numeric in the API payload and may be null.
	if amount, ok := record["Amount"].(float64); ok {
		opp.Amount = decimal.NewFromFloat(amount)
	}

	return opp
}

// parseTime handles Salesforce datetimes, falling back to RFC 3339.
func parseTime(raw string) (time.Time, error) {
	if ts, err := time.Parse(timeLayout, raw); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, raw)
}
