package clickup

import (
	"context"
	"net/http"
	"testing"
	"time"

	"clickupai/clickup/clickuptest"
	"clickupai/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "pk_test_123"

func newTestClient(srv *clickuptest.Server, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRetryIntervals(time.Millisecond, 2*time.Millisecond),
	}
	return New(append(base, opts...)...)
}

func TestFetchWorkspace(t *testing.T) {
	t.Parallel()
	fixture := clickuptest.ThreeSpaceWorkspace()
	srv := clickuptest.NewServer(t, testAPIKey, fixture)

	ws, err := newTestClient(srv).FetchWorkspace(context.Background(), testAPIKey, "9001")
	require.NoError(t, err)
	assert.Equal(t, fixture, ws)
}

func TestFetchWorkspace_DefaultsToFirstWorkspace(t *testing.T) {
	t.Parallel()
	first := clickuptest.ThreeSpaceWorkspace()
	second := domain.Workspace{Id: "42", Name: "Other"}
	srv := clickuptest.NewServer(t, testAPIKey, first, second)

	ws, err := newTestClient(srv).FetchWorkspace(context.Background(), testAPIKey, "")
	require.NoError(t, err)
	assert.Equal(t, "9001", ws.Id)

	ws, err = newTestClient(srv).FetchWorkspace(context.Background(), testAPIKey, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, "Other", ws.Name)
	assert.Empty(t, ws.Spaces)
}

func TestFetchWorkspace_SequentialMatchesParallel(t *testing.T) {
	t.Parallel()
	fixture := clickuptest.ThreeSpaceWorkspace()
	srv := clickuptest.NewServer(t, testAPIKey, fixture)

	sequential, err := newTestClient(srv, WithConcurrency(1)).FetchWorkspace(context.Background(), testAPIKey, "9001")
	require.NoError(t, err)
	parallel, err := newTestClient(srv, WithConcurrency(8)).FetchWorkspace(context.Background(), testAPIKey, "9001")
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestFetchWorkspace_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		apiKey      string
		workspaceId string
		faultPath   string
		fault       clickuptest.Fault
		wantErr     error
		wantCalls   int
	}{
		{
			name:        "invalid key",
			apiKey:      "pk_wrong",
			workspaceId: "9001",
			wantErr:     domain.ErrAuth,
			wantCalls:   1,
		},
		{
			name:        "unknown workspace",
			apiKey:      testAPIKey,
			workspaceId: "nope",
			wantErr:     domain.ErrNotFound,
			wantCalls:   1,
		},
		{
			name:        "forbidden",
			apiKey:      testAPIKey,
			workspaceId: "9001",
			faultPath:   "/team/9001/space",
			fault:       clickuptest.Fault{Status: http.StatusForbidden, Body: `{"err":"Team not authorized","ECODE":"OAUTH_027"}`},
			wantErr:     domain.ErrAuth,
		},
		{
			name:        "server errors exhaust retries",
			apiKey:      testAPIKey,
			workspaceId: "9001",
			faultPath:   "/team",
			fault:       clickuptest.Fault{Status: http.StatusBadGateway},
			wantErr:     domain.ErrTransient,
			wantCalls:   3,
		},
		{
			name:        "rate limit exhausts retries",
			apiKey:      testAPIKey,
			workspaceId: "9001",
			faultPath:   "/team",
			fault:       clickuptest.Fault{Status: http.StatusTooManyRequests, Headers: map[string]string{"Retry-After": "0"}},
			wantErr:     domain.ErrRateLimit,
			wantCalls:   3,
		},
		{
			name:        "malformed body",
			apiKey:      testAPIKey,
			workspaceId: "9001",
			faultPath:   "/team",
			fault:       clickuptest.Fault{Status: http.StatusOK, Body: `{"teams": "not a list"}`},
			wantErr:     domain.ErrNotFound,
			wantCalls:   1,
		},
		{
			name:        "missing ids",
			apiKey:      testAPIKey,
			workspaceId: "9001",
			faultPath:   "/team",
			fault:       clickuptest.Fault{Status: http.StatusOK, Body: `{"teams": [{"name": "no id"}]}`},
			wantErr:     domain.ErrNotFound,
			wantCalls:   1,
		},
		{
			name:        "task listing fails",
			apiKey:      testAPIKey,
			workspaceId: "9001",
			faultPath:   "/list/l3/task",
			fault:       clickuptest.Fault{Status: http.StatusNotFound},
			wantErr:     domain.ErrNotFound,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := clickuptest.NewServer(t, testAPIKey, clickuptest.ThreeSpaceWorkspace())
			if tt.faultPath != "" {
				srv.Fail(tt.faultPath, tt.fault)
			}

			_, err := newTestClient(srv).FetchWorkspace(context.Background(), tt.apiKey, tt.workspaceId)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotContains(t, err.Error(), tt.apiKey)

			if tt.wantCalls > 0 {
				path := tt.faultPath
				if path == "" {
					path = "/team"
				}
				assert.Equal(t, tt.wantCalls, srv.Calls(path))
			}
		})
	}
}

func TestFetchWorkspace_RecoversFromTransientFailure(t *testing.T) {
	t.Parallel()
	fixture := clickuptest.ThreeSpaceWorkspace()
	srv := clickuptest.NewServer(t, testAPIKey, fixture)
	srv.Fail("/space/s2/folder", clickuptest.Fault{Status: http.StatusServiceUnavailable, Times: 2})

	ws, err := newTestClient(srv).FetchWorkspace(context.Background(), testAPIKey, "9001")
	require.NoError(t, err)
	assert.Equal(t, fixture, ws)
	assert.Equal(t, 3, srv.Calls("/space/s2/folder"))
}

func TestFetchWorkspace_EmptyKey(t *testing.T) {
	t.Parallel()
	srv := clickuptest.NewServer(t, testAPIKey)

	_, err := newTestClient(srv).FetchWorkspace(context.Background(), "  ", "")
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Equal(t, 0, srv.Calls("*"))
}

func TestFetchWorkspace_Paginates(t *testing.T) {
	t.Parallel()
	fixture := domain.Workspace{
		Id:     "1",
		Name:   "Big",
		Spaces: []domain.Space{{Id: "s", Name: "S", Lists: []domain.List{clickuptest.LargeList("big", 250)}}},
	}
	srv := clickuptest.NewServer(t, testAPIKey, fixture)

	ws, err := newTestClient(srv).FetchWorkspace(context.Background(), testAPIKey, "1")
	require.NoError(t, err)
	assert.Len(t, ws.Spaces[0].Lists[0].Tasks, 250)
	assert.Equal(t, 3, srv.Calls("/list/big/task"))

	capped, err := newTestClient(srv, WithMaxTaskPages(2)).FetchWorkspace(context.Background(), testAPIKey, "1")
	require.NoError(t, err)
	assert.Len(t, capped.Spaces[0].Lists[0].Tasks, 200)
}

func TestFetchWorkspace_Canceled(t *testing.T) {
	t.Parallel()
	srv := clickuptest.NewServer(t, testAPIKey, clickuptest.ThreeSpaceWorkspace())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv).FetchWorkspace(ctx, testAPIKey, "9001")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchWorkspace_CanceledDuringRetryWait(t *testing.T) {
	t.Parallel()
	srv := clickuptest.NewServer(t, testAPIKey, clickuptest.ThreeSpaceWorkspace())
	srv.Fail("/team", clickuptest.Fault{Status: http.StatusBadGateway})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := newTestClient(srv, WithRetryIntervals(time.Hour, time.Hour)).FetchWorkspace(ctx, testAPIKey, "9001")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.ErrorKindCanceled, domain.KindOf(err))
	assert.Equal(t, 1, srv.Calls("/team"))
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()
	now := time.Unix(1_700_000_000, 0)

	h := http.Header{}
	assert.Zero(t, retryAfter(h, now))

	h.Set("X-RateLimit-Reset", "1700000030")
	assert.Equal(t, 30*time.Second, retryAfter(h, now))

	h.Set("Retry-After", "5")
	assert.Equal(t, 5*time.Second, retryAfter(h, now))

	h.Set("Retry-After", now.Add(2*time.Minute).UTC().Format(http.TimeFormat))
	assert.Equal(t, 2*time.Minute, retryAfter(h, now))

	h.Set("Retry-After", now.Add(-time.Minute).UTC().Format(http.TimeFormat))
	assert.Equal(t, 30*time.Second, retryAfter(h, now), "past date falls back to X-RateLimit-Reset")

	h.Set("Retry-After", "soon")
	assert.Equal(t, 30*time.Second, retryAfter(h, now))
}

func TestMillisUnmarshal(t *testing.T) {
	t.Parallel()
	var m millis
	require.NoError(t, m.UnmarshalJSON([]byte(`"1700000000000"`)))
	assert.Equal(t, millis(1700000000000), m)
	require.NoError(t, m.UnmarshalJSON([]byte(`1700000000001`)))
	assert.Equal(t, millis(1700000000001), m)
	require.NoError(t, m.UnmarshalJSON([]byte(`null`)))
	assert.Zero(t, m)
	assert.Error(t, m.UnmarshalJSON([]byte(`"soon"`)))
}
