// Package credential resolves the account credentials and database name used by a test fixture.
package credential

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/couchbase/tools-fixture/aprov"
	"github.com/couchbase/tools-fixture/log"
)

// ServiceDomain is appended to the account user to derive the host of the account.
const ServiceDomain = "cloudant.com"

// Property names used by properties files, also used to name missing values in a 'ConfigurationError'.
const (
	PropertyUser     = "user"
	PropertyPassword = "password"
	PropertyDBName   = "dbname"
)

// Credential identifies an account and the database a fixture operates on; it's a value type, use 'WithDBName' to
// derive a credential for another database.
type Credential struct {
	User     string
	Password string
	DBName   string
}

// New returns a credential for the given account/database.
func New(user, password, dbName string) Credential {
	return Credential{User: user, Password: password, DBName: dbName}
}

// Host returns the host of the account e.g. 'user.cloudant.com'.
func (c Credential) Host() string {
	return c.User + "." + ServiceDomain
}

// WithDBName returns a copy of the credential for the given database.
func (c Credential) WithDBName(dbName string) Credential {
	c.DBName = dbName
	return c
}

// Validate returns a 'ConfigurationError' naming the first blank field.
func (c Credential) Validate() error {
	for _, field := range []struct{ name, value string }{
		{name: PropertyUser, value: c.User},
		{name: PropertyPassword, value: c.Password},
		{name: PropertyDBName, value: c.DBName},
	} {
		if strings.TrimSpace(field.value) == "" {
			return &ConfigurationError{Property: field.name}
		}
	}

	return nil
}

// Provider returns an auth provider which supplies this credential for every request.
func (c Credential) Provider(userAgent string) *aprov.Static {
	return &aprov.Static{UserAgent: userAgent, Username: c.User, Password: c.Password}
}

// String returns a representation of the credential which is safe to log; the password is masked and the user and
// database are tagged as user data.
func (c Credential) String() string {
	return log.MaskAndUserTagArguments(
		[]string{
			fmt.Sprintf("%s=%s", PropertyUser, c.User),
			fmt.Sprintf("%s=%s", PropertyPassword, c.Password),
			fmt.Sprintf("%s=%s", PropertyDBName, c.DBName),
		},
		[]string{PropertyUser, PropertyDBName},
		[]string{PropertyPassword},
	)
}

// UniqueDBName returns a database name which is unique to this run, the lower cased prefix followed by a hyphen and 32
// random hex characters.
func UniqueDBName(prefix string) string {
	return strings.ToLower(prefix) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewUnique resolves the username/password of the given service using the source, and combines them with a unique
// database name.
func NewUnique(source Source, service, prefix string) (Credential, error) {
	user, password, err := source.Lookup(service)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to lookup credentials for service '%s': %w", service, err)
	}

	cred := New(user, password, UniqueDBName(prefix))

	err = cred.Validate()
	if err != nil {
		return Credential{}, err
	}

	return cred, nil
}
