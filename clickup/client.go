// Package clickup fetches a read-only snapshot of a ClickUp workspace
// hierarchy through the REST API v2.
package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clickupai/common"
	"clickupai/domain"
	"clickupai/utils"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	// PageSize is the number of tasks ClickUp returns per page.
	PageSize = 100

	maxErrorBodyBytes = 4 << 10
	tracerName        = "clickupai/clickup"
)

// Client implements WorkspaceFetcher against the ClickUp API. It holds no
// per-request state; the API key is passed to each call.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retry       utils.RetryPolicy
	concurrency int
	maxPages    int
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithConcurrency bounds the parallel sub-fetches of one FetchWorkspace call.
// Values below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(c *Client) { c.concurrency = max(n, 1) }
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.retry.MaxAttempts = n }
}

// WithRetryIntervals sets the exponential backoff bounds between attempts.
func WithRetryIntervals(initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		c.retry.InitialInterval = initial
		c.retry.MaxInterval = maxInterval
	}
}

// WithMaxTaskPages caps how many 100-task pages are read per list.
func WithMaxTaskPages(n int) Option {
	return func(c *Client) { c.maxPages = max(n, 1) }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: common.DefaultClickUpBaseURL,
		httpClient: &http.Client{
			Timeout:   common.DefaultClickUpTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry: utils.RetryPolicy{
			MaxAttempts:     common.DefaultClickUpMaxAttempts,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Retryable:       domain.IsRetryable,
			RetryAfter:      domain.RetryAfterOf,
		},
		concurrency: common.DefaultClickUpConcurrency,
		maxPages:    common.DefaultClickUpMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a client from the loaded config.
func NewFromConfig(cfg common.ClickUpConfig, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
		WithMaxAttempts(cfg.MaxAttempts),
		WithConcurrency(cfg.Concurrency),
		WithMaxTaskPages(cfg.MaxPages),
	}
	return New(append(base, opts...)...)
}

// FetchWorkspace returns the workspace tree visible to apiKey. An empty
// workspaceId selects the first workspace the key can access.
func (c *Client) FetchWorkspace(ctx context.Context, apiKey, workspaceId string) (domain.Workspace, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "clickup.FetchWorkspace")
	defer span.End()

	if strings.TrimSpace(apiKey) == "" {
		return domain.Workspace{}, &domain.ProviderError{Kind: domain.ErrAuth, Provider: domain.ProviderClickUp, Err: errors.New("API key is required")}
	}

	ws, err := c.resolveWorkspace(ctx, apiKey, workspaceId)
	if err != nil {
		return domain.Workspace{}, err
	}
	span.SetAttributes(attribute.String("clickup.workspace_id", ws.Id))

	var spaces spacesResponse
	if err := c.get(ctx, apiKey, fmt.Sprintf("/team/%s/space", url.PathEscape(ws.Id)), url.Values{"archived": {"false"}}, &spaces); err != nil {
		return domain.Workspace{}, fmt.Errorf("listing spaces: %w", err)
	}

	ws.Spaces = make([]domain.Space, len(spaces.Spaces))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, s := range spaces.Spaces {
		g.Go(func() error {
			fetched, err := c.fetchSpace(gctx, apiKey, s)
			if err != nil {
				return err
			}
			ws.Spaces[i] = fetched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Workspace{}, err
	}

	// Tasks are fetched in a second pass so that every list shares one
	// concurrency limit, whatever space or folder it belongs to.
	var lists []*domain.List
	for si := range ws.Spaces {
		for li := range ws.Spaces[si].Lists {
			lists = append(lists, &ws.Spaces[si].Lists[li])
		}
		for fi := range ws.Spaces[si].Folders {
			for li := range ws.Spaces[si].Folders[fi].Lists {
				lists = append(lists, &ws.Spaces[si].Folders[fi].Lists[li])
			}
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, l := range lists {
		g.Go(func() error {
			tasks, err := c.fetchTasks(gctx, apiKey, l.Id)
			if err != nil {
				return fmt.Errorf("listing tasks of list %s: %w", l.Id, err)
			}
			l.Tasks = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Workspace{}, err
	}

	log.Debug().Str("workspaceId", ws.Id).Int("spaces", len(ws.Spaces)).Int("lists", len(lists)).Msg("Fetched ClickUp workspace")
	return ws, nil
}

func (c *Client) resolveWorkspace(ctx context.Context, apiKey, workspaceId string) (domain.Workspace, error) {
	var teams teamsResponse
	if err := c.get(ctx, apiKey, "/team", nil, &teams); err != nil {
		return domain.Workspace{}, fmt.Errorf("listing workspaces: %w", err)
	}

	workspaceId = strings.TrimSpace(workspaceId)
	for _, t := range teams.Teams {
		if workspaceId == "" || t.Id == workspaceId {
			return domain.Workspace{Id: t.Id, Name: t.Name}, nil
		}
	}

	if workspaceId == "" {
		return domain.Workspace{}, &domain.ProviderError{Kind: domain.ErrNotFound, Provider: domain.ProviderClickUp, Err: errors.New("API key has no accessible workspaces")}
	}
	return domain.Workspace{}, &domain.ProviderError{Kind: domain.ErrNotFound, Provider: domain.ProviderClickUp, Err: fmt.Errorf("workspace %s is not accessible with this API key", workspaceId)}
}

func (c *Client) fetchSpace(ctx context.Context, apiKey string, s space) (domain.Space, error) {
	result := domain.Space{Id: s.Id, Name: s.Name}
	params := url.Values{"archived": {"false"}}

	var folders foldersResponse
	if err := c.get(ctx, apiKey, fmt.Sprintf("/space/%s/folder", url.PathEscape(s.Id)), params, &folders); err != nil {
		return domain.Space{}, fmt.Errorf("listing folders of space %s: %w", s.Id, err)
	}
	for _, f := range folders.Folders {
		df := domain.Folder{Id: f.Id, Name: f.Name}
		for _, l := range f.Lists {
			df.Lists = append(df.Lists, l.toDomain())
		}
		result.Folders = append(result.Folders, df)
	}

	var lists listsResponse
	if err := c.get(ctx, apiKey, fmt.Sprintf("/space/%s/list", url.PathEscape(s.Id)), params, &lists); err != nil {
		return domain.Space{}, fmt.Errorf("listing lists of space %s: %w", s.Id, err)
	}
	for _, l := range lists.Lists {
		result.Lists = append(result.Lists, l.toDomain())
	}

	return result, nil
}

func (c *Client) fetchTasks(ctx context.Context, apiKey, listId string) ([]domain.Task, error) {
	var tasks []domain.Task
	path := fmt.Sprintf("/list/%s/task", url.PathEscape(listId))
	for page := 0; page < c.maxPages; page++ {
		params := url.Values{
			"page":           {strconv.Itoa(page)},
			"include_closed": {"true"},
			"subtasks":       {"true"},
		}
		var resp tasksResponse
		if err := c.get(ctx, apiKey, path, params, &resp); err != nil {
			return nil, err
		}
		for _, t := range resp.Tasks {
			tasks = append(tasks, t.toDomain())
		}

		lastPage := len(resp.Tasks) < PageSize
		if resp.LastPage != nil {
			lastPage = *resp.LastPage
		}
		if lastPage {
			return tasks, nil
		}
	}
	log.Warn().Str("listId", listId).Int("maxPages", c.maxPages).Msg("Task page limit reached; remaining tasks are not included")
	return tasks, nil
}

// get performs an authenticated GET with bounded retry and decodes the JSON
// body into out.
func (c *Client) get(ctx context.Context, apiKey, path string, params url.Values, out validator) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	policy := c.retry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn().Err(err).Str("path", path).Int("attempt", attempt).Dur("delay", delay).Msg("Retrying ClickUp request")
	}

	_, err := utils.Retry(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.doGet(ctx, apiKey, endpoint, out)
	})
	return err
}

func (c *Client) doGet(ctx context.Context, apiKey, endpoint string, out validator) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	// Personal tokens are sent bare, without a "Bearer" prefix.
	req.Header.Set("Authorization", apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.ProviderError{Kind: domain.ErrTransient, Provider: domain.ProviderClickUp, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return statusError(resp, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.ProviderError{Kind: domain.ErrNotFound, Provider: domain.ProviderClickUp, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response shape: %w", err)}
	}
	if err := out.validate(); err != nil {
		return &domain.ProviderError{Kind: domain.ErrNotFound, Provider: domain.ProviderClickUp, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response shape: %w", err)}
	}
	return nil
}
