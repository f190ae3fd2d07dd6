// Package fixture manages the lifecycle of the database used by a test run, creating a uniquely named database before
// the tests and deleting it afterwards, and exposes the document operations used by tests to make assertions.
package fixture

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/couchbase/tools-fixture/cloudant/credential"
	"github.com/couchbase/tools-fixture/cloudant/docclient"
	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/httptools"
	"github.com/couchbase/tools-fixture/log"
	"github.com/couchbase/tools-fixture/netutil"
)

const (
	endpointDatabase  httptools.Endpoint = "/%s"
	endpointDocument  httptools.Endpoint = "/%s/%s"
	endpointBulkDocs  httptools.Endpoint = "/%s/_bulk_docs"
	endpointIndex     httptools.Endpoint = "/%s/_index"
	attachmentContent                    = string(httptools.ContentTypeText)
)

// Manager provisions fixture databases and performs document operations against them. Every operation issues its
// requests using the credential it's given, so a single manager may be shared by tests using different accounts.
type Manager struct {
	options   ManagerOptions
	client    *http.Client
	limiter   *rate.Limiter
	connector docclient.Connector
	logger    log.WrappedLogger
}

// NewManager returns a manager using the given options, see 'ManagerOptions' for the defaults.
func NewManager(options ManagerOptions) (*Manager, error) {
	err := options.defaults()
	if err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	manager := &Manager{
		options: options,
		client: httptools.NewHTTPClient(
			options.ClientTimeout,
			netutil.NewHTTPTransport(options.TLSConfig, options.HTTPTimeouts),
		),
		logger: log.NewWrappedLogger(options.Logger),
	}

	if options.RequestsPerSecond > 0 {
		manager.limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), options.RequestsPerSecond)
	}

	manager.connector = options.Connector
	if manager.connector == nil {
		manager.connector = &docclient.Kivik{AccountURL: manager.userAccountURL, Client: manager.client}
	}

	return manager, nil
}

// Close releases the idle connections of the shared transport.
func (m *Manager) Close() {
	m.client.CloseIdleConnections()
}

// AccountURL returns the URL requests for the given credential are sent to.
func (m *Manager) AccountURL(cred credential.Credential) string {
	return m.userAccountURL(cred.User)
}

func (m *Manager) userAccountURL(user string) string {
	if m.options.BaseURL != "" {
		return m.options.BaseURL
	}

	return fmt.Sprintf("https://%s:%d", credential.New(user, "", "").Host(), m.options.Port)
}

// restClient returns a client which authenticates using the given credential.
func (m *Manager) restClient(cred credential.Credential) *httptools.Client {
	return httptools.NewClient(m.client, cred.Provider(m.options.UserAgent), m.options.Logger, httptools.ClientOptions{
		RequestRetries: m.options.RequestRetries,
		Limiter:        m.limiter,
	})
}

// execute sends the given request for the credential, the request is attempted once unless 'retries' is true.
func (m *Manager) execute(
	ctx context.Context, cred credential.Credential, request *httptools.Request, retries bool,
) (*httptools.Response, error) {
	request.Host = m.AccountURL(cred)

	client := m.restClient(cred)
	if retries {
		return client.Execute(ctx, request)
	}

	return client.ExecuteNoRetries(ctx, request)
}

// parse decodes the body of the given response as a single document.
func parse(response *httptools.Response) (docgen.Document, error) {
	doc, err := docgen.ParseDocument(string(response.Body))
	if err != nil {
		return nil, &MalformedResponseError{Status: response.StatusCode, Body: response.Body, err: err}
	}

	return doc, nil
}

// withDatabase connects to the account of the credential and opens its database, the connection is closed once the
// given function returns.
func (m *Manager) withDatabase(
	ctx context.Context, cred credential.Credential, fn func(db docclient.Database) error,
) error {
	conn, err := m.connector.Connect(ctx, cred.User, cred.Password)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	defer func() {
		if err := conn.Close(); err != nil {
			m.logger.Warnf("(Fixture) Failed to close connection: %s", err)
		}
	}()

	db, err := conn.Open(ctx, cred.DBName, false)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cred.DBName, err)
	}

	return fn(db)
}
