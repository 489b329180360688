package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ppiankov/artgraph/internal/model"
)

const (
	DefaultAPIURL    = "https://www.wikidata.org/w/api.php"
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"
)

// Pacer delays outbound requests per host
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// Options configures a Client
type Options struct {
	APIURL    string
	SPARQLURL string
	UserAgent string
	Timeout   time.Duration
	Proxy     func(*http.Request) (*url.URL, error)
	Pacer     Pacer
}

// Client talks to the knowledge-graph read API and its query service
type Client struct {
	http      *resty.Client
	apiURL    string
	sparqlURL string
	pacer     Pacer
}

// NewClient creates a new API client
func NewClient(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.SPARQLURL == "" {
		opts.SPARQLURL = DefaultSPARQLURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Proxy != nil {
		client.SetTransport(&http.Transport{Proxy: opts.Proxy})
	}

	return &Client{
		http:      client,
		apiURL:    opts.APIURL,
		sparqlURL: opts.SPARQLURL,
		pacer:     opts.Pacer,
	}
}

// GetEntity fetches one entity with wbgetentities
func (c *Client) GetEntity(ctx context.Context, id model.Identifier, props, languages []string) (*Entity, error) {
	const op = "wbgetentities"

	params := map[string]string{
		"action": op,
		"ids":    id.String(),
		"format": "json",
	}
	if len(props) > 0 {
		params["props"] = strings.Join(props, "|")
	}
	if len(languages) > 0 {
		params["languages"] = strings.Join(languages, "|")
	}

	var resp entitiesResponse
	if err := c.get(ctx, op, id.String(), c.apiURL, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, apiFailure(op, id.String(), resp.Error)
	}

	entity, ok := resp.Entities[id.String()]
	if !ok && len(resp.Entities) == 1 {
		// redirected items come back under their target id
		for _, e := range resp.Entities {
			entity = e
		}
	}
	if entity == nil {
		return nil, model.NewLookupError(op, id.String(), model.ReasonMalformed, errors.New("entity absent from response"))
	}
	if entity.Missing != nil {
		return nil, model.NewLookupError(op, id.String(), model.ReasonNotFound, nil)
	}

	return entity, nil
}

// GetClaims fetches the statements of one entity for one property with wbgetclaims.
// An entity without statements for the property yields an empty slice.
func (c *Client) GetClaims(ctx context.Context, id model.Identifier, property string) ([]Statement, error) {
	const op = "wbgetclaims"
	target := id.String() + "/" + property

	params := map[string]string{
		"action":   op,
		"entity":   id.String(),
		"property": property,
		"format":   "json",
	}

	var resp claimsResponse
	if err := c.get(ctx, op, target, c.apiURL, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, apiFailure(op, target, resp.Error)
	}

	statements := resp.Claims[property]
	if statements == nil {
		statements = []Statement{}
	}
	return statements, nil
}

// Query runs a SPARQL query and returns the result bindings
func (c *Client) Query(ctx context.Context, query string) ([]map[string]Binding, error) {
	const op = "sparql"

	params := map[string]string{
		"query":  query,
		"format": "json",
	}

	var resp sparqlResponse
	if err := c.get(ctx, op, c.sparqlURL, c.sparqlURL, params, &resp); err != nil {
		return nil, err
	}
	return resp.Results.Bindings, nil
}

func (c *Client) get(ctx context.Context, op, target, endpoint string, params map[string]string, out any) error {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, endpoint); err != nil {
			return model.NewLookupError(op, target, model.ReasonCancelled, err)
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("Accept", "application/json").
		Get(endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return model.NewLookupError(op, target, model.ReasonCancelled, ctx.Err())
		}
		return model.NewLookupError(op, target, model.ReasonTransport, err)
	}

	if res.IsError() {
		return model.NewLookupError(op, target, model.ReasonStatus, fmt.Errorf("HTTP %d", res.StatusCode()))
	}

	if err := json.Unmarshal(res.Body(), out); err != nil {
		return model.NewLookupError(op, target, model.ReasonMalformed, err)
	}
	return nil
}

func apiFailure(op, target string, e *apiError) error {
	err := fmt.Errorf("%s: %s", e.Code, e.Info)
	switch e.Code {
	case "no-such-entity", "missingtitle":
		return model.NewLookupError(op, target, model.ReasonNotFound, err)
	default:
		return model.NewLookupError(op, target, model.ReasonStatus, err)
	}
}
