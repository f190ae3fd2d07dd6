package credential

import (
	"fmt"

	"github.com/magiconair/properties"
)

// FromProperties returns the credential described by the 'user', 'password' and 'dbname' properties.
func FromProperties(props *properties.Properties) (Credential, error) {
	cred := New(
		props.GetString(PropertyUser, ""),
		props.GetString(PropertyPassword, ""),
		props.GetString(PropertyDBName, ""),
	)

	err := cred.Validate()
	if err != nil {
		return Credential{}, err
	}

	return cred, nil
}

// LoadPropertiesFile reads a Java style properties file, returning the credential it describes.
func LoadPropertiesFile(path string) (Credential, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to load properties file: %w", err)
	}

	return FromProperties(props)
}

// PropertiesSource is a 'Source' backed by a properties file. A lookup for a service uses the '<service>.user' and
// '<service>.password' properties when they exist, otherwise 'user' and 'password'.
type PropertiesSource struct {
	Properties *properties.Properties
}

var _ Source = (*PropertiesSource)(nil)

// NewPropertiesSource loads the properties file at the given path.
func NewPropertiesSource(path string) (*PropertiesSource, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties file: %w", err)
	}

	return &PropertiesSource{Properties: props}, nil
}

func (p *PropertiesSource) Lookup(service string) (string, string, error) {
	get := func(key string) string {
		if value, ok := p.Properties.Get(service + "." + key); ok && service != "" {
			return value
		}

		return p.Properties.GetString(key, "")
	}

	user, password := get(PropertyUser), get(PropertyPassword)

	if user == "" {
		return "", "", &ConfigurationError{Property: PropertyUser}
	}

	if password == "" {
		return "", "", &ConfigurationError{Property: PropertyPassword}
	}

	return user, password, nil
}
