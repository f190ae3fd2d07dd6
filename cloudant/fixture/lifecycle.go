package fixture

import (
	"context"
	"fmt"
	"net/http"

	"github.com/couchbase/tools-fixture/cloudant/credential"
	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/httptools"
	"github.com/couchbase/tools-fixture/log"
	"github.com/couchbase/tools-fixture/retry"
)

// SetUp creates the database of the given credential, after first deleting any database left behind by an aborted
// run. A database which already exists is treated as successfully created.
//
// NOTE: Creation is attempted up to 'SetUpPolicy.MaxAttempts' times, pausing only after transport faults.
func (m *Manager) SetUp(ctx context.Context, cred credential.Credential) error {
	err := cred.Validate()
	if err != nil {
		return err
	}

	dbName := log.UserDataValue(cred.DBName)

	// The outcome is purposely ignored, the database won't exist for a fresh run
	_, _ = m.DeleteTestDatabase(ctx, cred, "")

	policy := m.options.SetUpPolicy

	retryer := retry.NewRetryer(retry.RetryerOptions[Classification]{
		Algorithm:  retry.AlgorithmFixed,
		MaxRetries: policy.MaxAttempts,
		MinDelay:   policy.Delay,
		Sleep:      policy.Sleep,
		ShouldRetry: func(_ *retry.Context, class Classification, _ error) bool {
			return !class.Done()
		},
		ShouldBackoff: func(_ *retry.Context, class Classification, _ error) bool {
			return class == TransientFailure
		},
		Log: func(ctx *retry.Context, class Classification, err error) {
			m.logger.Warnf("(Fixture) (Attempt %d) Retrying create of database %s which was classified as %s: %v",
				ctx.Attempt(), dbName, class, err)
		},
	})

	class, err := retryer.DoWithContext(ctx, func(ctx *retry.Context) (Classification, error) {
		return m.createAttempt(ctx, cred)
	})
	if err != nil {
		m.logger.Errorf("(Fixture) Failed to create database %s: %s", dbName, err)
		return &SetUpError{DBName: cred.DBName, err: err}
	}

	m.logger.Infof("(Fixture) Database %s is ready (%s)", dbName, class)

	return nil
}

// createAttempt makes a single attempt at creating the database, returning an error unless it now exists.
func (m *Manager) createAttempt(ctx context.Context, cred credential.Credential) (Classification, error) {
	outcome, err := m.CreateTestDatabase(ctx, cred, false)

	class := Classify(outcome, err)
	if class.Done() {
		return class, nil
	}

	if err == nil {
		err = &UnexpectedStatusError{
			Method:   httptools.MethodPut,
			Endpoint: endpointDatabase.Format(cred.DBName),
			Status:   outcome.StatusCode,
			Body:     outcome.Raw,
		}
	}

	if class == FatalFailure {
		return class, retry.NewAbortRetriesError(err)
	}

	return class, err
}

// UnsetUp deletes the database of the given credential. The outcome is logged, but never returned; a failure to clean
// up must not fail a test.
func (m *Manager) UnsetUp(ctx context.Context, cred credential.Credential) {
	body, err := m.DeleteTestDatabase(ctx, cred, "")
	if err != nil {
		m.logger.Warnf("(Fixture) Failed to delete database %s: %s", log.UserDataValue(cred.DBName), err)
		return
	}

	m.logger.Infof("(Fixture) Deleted database %s: %s", log.UserDataValue(cred.DBName),
		truncate(body.String()))
}

// CreateTestDatabase makes a single attempt at creating the database of the given credential. When
// 'failIfCannotCreate' is true a status other than 201/202 returns an 'UnexpectedStatusError'.
func (m *Manager) CreateTestDatabase(
	ctx context.Context, cred credential.Credential, failIfCannotCreate bool,
) (*Outcome, error) {
	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	request := &httptools.Request{
		Method:             httptools.MethodPut,
		Endpoint:           endpointDatabase.Format(cred.DBName),
		ExpectedStatusCode: httptools.AnyStatusCode,
	}

	response, err := m.execute(ctx, cred, request, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	m.logger.Debugf("(Fixture) Create database %s returned status %d: %s", log.UserDataValue(cred.DBName),
		response.StatusCode, httptools.Truncate(response.Body, httptools.DiagnosticLength))

	body, err := parse(response)
	if err != nil {
		return &Outcome{StatusCode: response.StatusCode, Raw: response.Body}, err
	}

	outcome := &Outcome{StatusCode: response.StatusCode, Body: body, Raw: response.Body}

	if failIfCannotCreate && response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusAccepted {
		return outcome, &UnexpectedStatusError{
			Method:   request.Method,
			Endpoint: request.Endpoint,
			Status:   response.StatusCode,
			Body:     response.Body,
		}
	}

	return outcome, nil
}

// DeleteTestDatabase makes a single attempt at deleting a database, returning the parsed response. A non-empty 'dbName'
// overrides the database of the credential.
//
// NOTE: Failures reported by the service (e.g. 'not_found') are returned in the body, not as an error.
func (m *Manager) DeleteTestDatabase(
	ctx context.Context, cred credential.Credential, dbName string,
) (docgen.Document, error) {
	if dbName != "" {
		cred = cred.WithDBName(dbName)
	}

	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	response, err := m.execute(ctx, cred, &httptools.Request{
		Method:             httptools.MethodDelete,
		Endpoint:           endpointDatabase.Format(cred.DBName),
		ExpectedStatusCode: httptools.AnyStatusCode,
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to delete database: %w", err)
	}

	m.logger.Debugf("(Fixture) Delete database %s returned status %d: %s", log.UserDataValue(cred.DBName),
		response.StatusCode, httptools.Truncate(response.Body, httptools.DiagnosticLength))

	return parse(response)
}

// ReadTestDatabase returns the metadata of the database of the given credential, or the error body returned by the
// service e.g. when it doesn't exist.
func (m *Manager) ReadTestDatabase(ctx context.Context, cred credential.Credential) (docgen.Document, error) {
	response, err := m.ReadTestDatabaseResponse(ctx, cred, "")
	if err != nil {
		return nil, err
	}

	return parse(response)
}

// ReadTestDatabaseResponse returns the raw response to reading the metadata of a database. A non-empty 'dbName'
// overrides the database of the credential.
func (m *Manager) ReadTestDatabaseResponse(
	ctx context.Context, cred credential.Credential, dbName string,
) (*httptools.Response, error) {
	if dbName != "" {
		cred = cred.WithDBName(dbName)
	}

	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	response, err := m.execute(ctx, cred, &httptools.Request{
		Method:             httptools.MethodGet,
		Endpoint:           endpointDatabase.Format(cred.DBName),
		ExpectedStatusCode: httptools.AnyStatusCode,
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}

	return response, nil
}
