package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkyai/milky-relay/internal/models"
)

// scriptedClient returns canned outcomes in order, then repeats the last.
type scriptedClient struct {
	vendor     models.Vendor
	configured bool
	script     []func() (string, error)
	calls      int
}

func (c *scriptedClient) Vendor() models.Vendor { return c.vendor }
func (c *scriptedClient) Configured() bool      { return c.configured }

func (c *scriptedClient) SendChat(ctx context.Context, messages []Message, providerID string) (string, error) {
	i := c.calls
	if i >= len(c.script) {
		i = len(c.script) - 1
	}
	c.calls++
	return c.script[i]()
}

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:    2,
		RetryBase:      time.Millisecond,
		RateLimitBase:  time.Millisecond,
		RequestTimeout: time.Second,
		CandidateDelay: time.Millisecond,
	}
}

func timeoutErr(v models.Vendor) error {
	return &Error{Kind: FailTimeout, Vendor: v, Cause: context.DeadlineExceeded}
}

func rateLimitErr(v models.Vendor) error {
	return &Error{Kind: FailRateLimited, Vendor: v, Status: 429}
}

func twoCandidates() []models.Descriptor {
	return []models.Descriptor{
		{Key: "a/primary", ProviderID: "a/primary", DisplayName: "Primary", Vendor: models.VendorOpenRouter},
		{Key: "b/backup", ProviderID: "b/backup", DisplayName: "Backup", Vendor: models.VendorGroq},
	}
}

func TestRouteFirstCandidateSucceeds(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){func() (string, error) { return "4", nil }}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "unused", nil }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	res, err := r.Route(context.Background(), nil, twoCandidates())

	require.NoError(t, err)
	assert.Equal(t, "4", res.Text)
	assert.Equal(t, "a/primary", res.Model.Key)
	assert.Equal(t, 1, or.calls)
	assert.Equal(t, 0, gq.calls)
}

func TestRouteRetriesThenFallsBack(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){
			func() (string, error) { return "", timeoutErr(models.VendorOpenRouter) },
			func() (string, error) { return "", timeoutErr(models.VendorOpenRouter) },
		}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "from backup", nil }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	res, err := r.Route(context.Background(), nil, twoCandidates())

	require.NoError(t, err)
	assert.Equal(t, "from backup", res.Text)
	// disclosure: the fallback model, not the requested one
	assert.Equal(t, "b/backup", res.Model.Key)
	assert.Equal(t, "Backup", res.Model.DisplayName)
	assert.Equal(t, 2, or.calls, "primary retried up to the bound")
}

func TestRouteCallCountBoundedByRetriesTimesCandidates(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){func() (string, error) { return "", timeoutErr(models.VendorOpenRouter) }}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "", timeoutErr(models.VendorGroq) }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	_, err := r.Route(context.Background(), nil, twoCandidates())

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, AllTimedOut, ex.Kind)
	assert.Equal(t, 2, or.calls)
	assert.Equal(t, 2, gq.calls)
	assert.Equal(t, 4, ex.Attempts)
}

func TestRouteAllRateLimited(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){func() (string, error) { return "", rateLimitErr(models.VendorOpenRouter) }}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "", rateLimitErr(models.VendorGroq) }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	_, err := r.Route(context.Background(), nil, twoCandidates())

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, AllRateLimited, ex.Kind)
}

func TestRouteFatalFailureNotRetried(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){
			func() (string, error) {
				return "", &Error{Kind: FailFatal, Vendor: models.VendorOpenRouter, Status: 400}
			},
		}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "recovered", nil }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	res, err := r.Route(context.Background(), nil, twoCandidates())

	require.NoError(t, err)
	assert.Equal(t, 1, or.calls, "fatal failures advance immediately")
	assert.Equal(t, "recovered", res.Text)
}

func TestRouteEmptyCompletionAdvancesWithoutRetry(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){func() (string, error) { return "", nil }}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "recovered", nil }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	res, err := r.Route(context.Background(), nil, twoCandidates())

	require.NoError(t, err)
	assert.Equal(t, 1, or.calls, "an empty 200 is not retried against the same provider")
	assert.Equal(t, "recovered", res.Text)
	assert.Equal(t, "b/backup", res.Model.Key)
}

func TestRouteUnconfiguredPrimaryIsImmediateError(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: false}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: true,
		script: []func() (string, error){func() (string, error) { return "unused", nil }}}

	r := NewRouter(fastPolicy(), nil, or, gq)
	_, err := r.Route(context.Background(), nil, twoCandidates())

	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, FailUnconfigured, le.Kind)
	assert.Equal(t, 0, gq.calls, "no silent substitution when the requested vendor is unconfigured")
}

func TestRouteSkipsUnconfiguredFallbacks(t *testing.T) {
	or := &scriptedClient{vendor: models.VendorOpenRouter, configured: true,
		script: []func() (string, error){func() (string, error) { return "", timeoutErr(models.VendorOpenRouter) }}}
	gq := &scriptedClient{vendor: models.VendorGroq, configured: false}
	co := &scriptedClient{vendor: models.VendorCohere, configured: true,
		script: []func() (string, error){func() (string, error) { return "third choice", nil }}}

	cands := append(twoCandidates(), models.Descriptor{
		Key: "c/last", ProviderID: "c/last", Vendor: models.VendorCohere,
	})

	r := NewRouter(fastPolicy(), nil, or, gq, co)
	res, err := r.Route(context.Background(), nil, cands)

	require.NoError(t, err)
	assert.Equal(t, "third choice", res.Text)
	assert.Equal(t, 0, gq.calls)
}

func TestExhaustionKindFromUnclassifiedError(t *testing.T) {
	assert.Equal(t, Unexpected, exhaustionKind(errors.New("boom")))
	assert.Equal(t, AllTimedOut, exhaustionKind(timeoutErr(models.VendorGroq)))
}
