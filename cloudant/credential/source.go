package credential

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/couchbase/tools-fixture/envvar"
	"github.com/couchbase/tools-fixture/fsutil"
)

// ServicesEnvVar is the environment variable holding the service binding catalog of an application.
const ServicesEnvVar = "VCAP_SERVICES"

// ErrServiceNotFound is returned when the catalog contains no binding for the requested service.
var ErrServiceNotFound = errors.New("service not found")

// Source resolves the username/password of a named service.
type Source interface {
	Lookup(service string) (username, password string, err error)
}

// binding is a single bound service instance, only the fields used for a lookup are decoded.
type binding struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"credentials"`
}

// ServiceCatalog is a 'Source' backed by a service binding catalog in the 'VCAP_SERVICES' format, which maps a service
// label to its bound instances e.g. '{"cloudantNoSQLDB":[{"name":"db","credentials":{"username":"u",...}}]}'.
type ServiceCatalog struct {
	services map[string][]binding
}

var _ Source = (*ServiceCatalog)(nil)

// NewServiceCatalog parses the given catalog.
func NewServiceCatalog(data []byte) (*ServiceCatalog, error) {
	var services map[string][]binding

	err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &services)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service catalog: %w", err)
	}

	return &ServiceCatalog{services: services}, nil
}

// LoadServiceCatalog reads the catalog from the file at the given path.
func LoadServiceCatalog(path string) (*ServiceCatalog, error) {
	var services map[string][]binding

	err := fsutil.ReadJSONFile(path, &services)
	if err != nil {
		return nil, fmt.Errorf("failed to read service catalog: %w", err)
	}

	return &ServiceCatalog{services: services}, nil
}

// ServiceCatalogFromEnv reads the catalog from the 'VCAP_SERVICES' environment variable.
func ServiceCatalogFromEnv() (*ServiceCatalog, error) {
	data, ok := envvar.GetString(ServicesEnvVar)
	if !ok {
		return nil, &ConfigurationError{Property: ServicesEnvVar}
	}

	return NewServiceCatalog([]byte(data))
}

// Lookup returns the credentials of the first instance bound with the given label, or failing that, the first instance
// with the given name.
func (s *ServiceCatalog) Lookup(service string) (string, string, error) {
	instance, ok := s.find(service)
	if !ok {
		return "", "", fmt.Errorf("%w: '%s'", ErrServiceNotFound, service)
	}

	if instance.Credentials.Username == "" {
		return "", "", &ConfigurationError{Property: "credentials.username"}
	}

	if instance.Credentials.Password == "" {
		return "", "", &ConfigurationError{Property: "credentials.password"}
	}

	return instance.Credentials.Username, instance.Credentials.Password, nil
}

func (s *ServiceCatalog) find(service string) (binding, bool) {
	if instances := s.services[service]; len(instances) != 0 {
		return instances[0], true
	}

	// Map iteration order is random, visit the labels in a stable order so that duplicate names resolve consistently
	for _, label := range sortedKeys(s.services) {
		for _, instance := range s.services[label] {
			if instance.Name == service {
				return instance, true
			}
		}
	}

	return binding{}, false
}
