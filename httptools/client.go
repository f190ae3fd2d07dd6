package httptools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/time/rate"

	"github.com/couchbase/tools-fixture/aprov"
	"github.com/couchbase/tools-fixture/log"
	"github.com/couchbase/tools-fixture/netutil"
	"github.com/couchbase/tools-fixture/retry"
)

// Client is a generalized client for sending and receiving http requests that wraps various functionality such as error
// handling, logging, rate limiting as well as request retrying.
type Client struct {
	client         *http.Client
	reqResLogLevel log.Level
	logger         log.WrappedLogger
	requestRetries int
	authProvider   aprov.Provider
	limiter        *rate.Limiter
}

// ClientOptions wraps all optional parameters for client creation.
type ClientOptions struct {
	// RequestRetries is the number of times a request should be attempted by 'Execute'.
	// Default is 3.
	RequestRetries int

	// ReqResLogLevel is the level at which each request/response is logged at.
	// Default is TRACE.
	ReqResLogLevel log.Level

	// Limiter, when supplied, is waited on before dispatching each request (including retries).
	Limiter *rate.Limiter
}

// NewClient creates a new generic REST client.
//
// Parameters:
//   - client: client is the base http client that should be used to send/receive requests.
//   - authProvider: authProvider is the authentication provider object that return the credentials required to send a
//     request to an endpoint.
//   - logger: logger is the passed Logger struct that implements the Log method for logger the user wants to use.
//   - options: options is an object that contains optional parameters for the client.
func NewClient(client *http.Client, authProvider aprov.Provider, logger log.Logger, options ClientOptions) *Client {
	if options.RequestRetries == 0 {
		options.RequestRetries = DefaultRequestRetries
	}

	return &Client{
		client:         client,
		reqResLogLevel: options.ReqResLogLevel,
		requestRetries: options.RequestRetries,
		authProvider:   authProvider,
		limiter:        options.Limiter,
		logger:         log.NewWrappedLogger(logger),
	}
}

// RequestRetries returns the number of times a request will be attempted for known failure cases.
func (c *Client) RequestRetries() int {
	return c.requestRetries
}

// Execute the given request to completion, using the provided context, reading the entire response body whilst
// honoring request level retries/timeout.
//
// NOTE: The response is returned alongside an unexpected status code error so that callers may inspect the body.
func (c *Client) Execute(ctx context.Context, request *Request) (*Response, error) {
	resp, err := c.Do(ctx, request) //nolint:bodyclose
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return c.complete(request, resp)
}

// ExecuteNoRetries the given request to completion, using the provided context, reading the entire response body
// without any retry logic; a transport failure is returned as is, so that the caller may decide whether to retry.
func (c *Client) ExecuteNoRetries(ctx context.Context, request *Request) (*Response, error) {
	resp, err := c.buildAndDo(retry.NewContext(ctx), request) //nolint:bodyclose
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return c.complete(request, resp)
}

// complete reads the body of the given response, before checking the status code.
func (c *Client) complete(request *Request, resp *http.Response) (*Response, error) {
	defer c.CleanupResp(resp)

	var (
		response = &Response{StatusCode: resp.StatusCode}
		err      error
	)

	response.Body, err = ReadBody(request.Method, request.Endpoint, resp.Body, resp.ContentLength)
	if err != nil {
		return response, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debugf("(REST) (%s) (%d) Response from '%s': %s", request.Method, response.StatusCode, request.Endpoint,
		Truncate(response.Body, DiagnosticLength))

	if request.isExpected(response.StatusCode) {
		return response, nil
	}

	return response, HandleResponseError(request.Method, request.Endpoint, response.StatusCode, response.Body)
}

// Do converts and executes the provided request returning the raw HTTP response. In general users should prefer to use
// the 'Execute' function which handles closing resources and returns more informative errors.
//
// NOTE: If the returned error is nil, the Response will contain a non-nil Body which the caller is expected to close.
func (c *Client) Do(ctx context.Context, request *Request) (*http.Response, error) {
	resp, err := c.newRetryer(request).DoWithContext(
		ctx,
		func(ctx *retry.Context) (*http.Response, error) { return c.buildAndDo(ctx, request) }, //nolint:bodyclose
	)

	if err == nil || (resp != nil && resp.StatusCode == request.ExpectedStatusCode) {
		return resp, nil
	}

	// The request failed, meaning the response won't be returned to the user, ensure it's cleaned up
	defer c.CleanupResp(resp)

	// Retries exhausted, convert the error into something more informative
	if retry.IsRetriesExhausted(err) {
		err = &RetriesExhaustedError{retries: c.requestRetries, err: enhanceError(errors.Unwrap(err), request, resp)}
	}

	return nil, err
}

// newRetryer returns a retryer which respects the retry parameters of the given request.
func (c *Client) newRetryer(request *Request) retry.Retryer[*http.Response] {
	shouldRetry := func(ctx *retry.Context, resp *http.Response, err error) bool {
		if resp != nil {
			return c.shouldRetryWithResponse(ctx, request, resp)
		}

		return c.shouldRetryWithError(ctx, request, err)
	}

	logRetry := func(ctx *retry.Context, resp *http.Response, err error) {
		msg := fmt.Sprintf("(REST) (Attempt %d) (%s) Retrying request to endpoint '%s'", ctx.Attempt(), request.Method,
			request.Endpoint)

		if err != nil {
			msg = fmt.Sprintf("%s: which failed due to error: %s", msg, err)
		} else {
			msg = fmt.Sprintf("%s: which failed with status code %d", msg, resp.StatusCode)
		}

		// We don't log at error level because we expect some requests to fail and be explicitly handled by the caller.
		c.logger.Warnf(msg)
	}

	return retry.NewRetryer(retry.RetryerOptions[*http.Response]{
		MaxRetries:  c.requestRetries,
		ShouldRetry: shouldRetry,
		Log:         logRetry,
		Cleanup:     c.CleanupResp,
	})
}

// buildAndDo is a convenience which prepares then performs the provided request.
func (c *Client) buildAndDo(ctx *retry.Context, request *Request) (*http.Response, error) {
	prep, err := c.prepare(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare request: %w", err)
	}

	resp, err := c.perform(ctx, prep, request.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}

	return resp, nil
}

// prepare converts the request into a raw HTTP request which can be dispatched to the service. Uses the same context
// meaning the request timeout is not reset by retries.
func (c *Client) prepare(ctx *retry.Context, request *Request) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, string(request.Method), request.Host+string(request.Endpoint),
		bytes.NewReader(request.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// If we received one or more non-nil query parameters ensure that they will be postfixed to the request URL.
	if len(request.QueryParameters) != 0 {
		req.URL.RawQuery = request.QueryParameters.Encode()
	}

	// Using 'Set' overwrites an existing values set in the header, set these values first to that the settings below
	// take precedence.
	for key, value := range request.Header {
		req.Header.Set(key, value)
	}

	SetAuthHeaders(req, req.URL.Host, c.authProvider)

	if request.ContentType != ContentTypeNone {
		req.Header.Set("Content-Type", string(request.ContentType))
	}

	req.Header.Set("Accept", string(ContentTypeJSON))

	return req, nil
}

// perform synchronously executes the provided request returning the response and any error that occurred during the
// process.
func (c *Client) perform(ctx *retry.Context, req *http.Request, timeout time.Duration) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
		}
	}

	c.logger.Log(c.reqResLogLevel, "(REST) (Attempt %d) (%s) Dispatching request to '%s'", ctx.Attempt(),
		req.Method, req.URL)

	client := c.client

	// We only use the custom timeout if it is bigger than the client one. This is so that it can be overridden via
	// environmental variables.
	if timeout == -1 || timeout > client.Timeout {
		client = NewHTTPClient(max(0, timeout), client.Transport)
	}

	resp, err := client.Do(req)
	if err == nil {
		c.logger.Log(c.reqResLogLevel, "(REST) (Attempt %d) (%s) (%d) Received response from '%s'", ctx.Attempt(),
			req.Method, resp.StatusCode, req.URL)

		return resp, nil
	}

	c.logger.Errorf("(REST) (Attempt %d) (%s) Failed to perform request to '%s': %s", ctx.Attempt(), req.Method,
		req.URL, err)

	return nil, HandleRequestError(req, err)
}

// shouldRetryWithError returns a boolean indicating whether the given error is retryable.
func (c *Client) shouldRetryWithError(ctx *retry.Context, request *Request, err error) bool {
	c.logger.Warnf("(REST) (Attempt %d) (%s) Request to endpoint '%s' failed due to error: %s", ctx.Attempt(),
		request.Method, request.Endpoint, err)

	return ShouldRetry(err)
}

// shouldRetryWithResponse returns a boolean indicating whether the given request is retryable.
// If the response contains a Retry-After field this will block for the duration of Retry-After and then return true.
func (c *Client) shouldRetryWithResponse(ctx *retry.Context, request *Request, resp *http.Response) bool {
	// We've got our expected status code, don't retry
	if resp.StatusCode == request.ExpectedStatusCode {
		return false
	}

	// Either this request can't be retried, or the user has explicitly stated that they don't want this status code
	// retried, don't retry.
	if !request.IsIdempotent() || slices.Contains(request.NoRetryOnStatusCodes, resp.StatusCode) {
		return false
	}

	temporary := netutil.IsTemporaryFailure(resp.StatusCode) ||
		slices.Contains(request.RetryOnStatusCodes, resp.StatusCode)
	if !temporary {
		return false
	}

	c.logger.Warnf("(REST) (Attempt %d) (%s) Request to endpoint '%s' failed with status code %d", ctx.Attempt(),
		request.Method, request.Endpoint, resp.StatusCode)

	// if we get a Retry-After in the response this will sleep for the amount of time specified in the response
	waitForRetryAfter(resp)

	return true
}

// CleanupResp drains the response body and ensures it's closed.
func (c *Client) CleanupResp(resp *http.Response) {
	if resp == nil {
		return
	}

	defer resp.Body.Close()

	_, err := io.Copy(io.Discard, resp.Body)
	if err == nil || errors.Is(err, http.ErrBodyReadAfterClose) {
		return
	}

	c.logger.Warnf("(REST) Failed to drain response body due to unexpected error: %s", err)
}
