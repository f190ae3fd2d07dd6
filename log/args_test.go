package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserTagArguments(t *testing.T) {
	type test struct {
		name      string
		arguments []string
		expected  []string
	}

	tests := []*test{
		{
			name:      "NoArguments",
			arguments: []string{},
			expected:  []string{},
		},
		{
			name:      "NothingToTag",
			arguments: []string{"password=p", "port=443"},
			expected:  []string{"password=p", "port=443"},
		},
		{
			name:      "TagUserAndDatabase",
			arguments: []string{"user=u", "password=p", "dbname=test-db"},
			expected:  []string{"user=<ud>u</ud>", "password=p", "dbname=<ud>test-db</ud>"},
		},
		{
			name:      "NotKeyValue",
			arguments: []string{"user"},
			expected:  []string{"user"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, UserTagArguments(test.arguments, []string{"user", "dbname"}))
		})
	}
}

func TestMaskArguments(t *testing.T) {
	type test struct {
		name      string
		arguments []string
		expected  []string
	}

	tests := []*test{
		{
			name:      "NothingToMask",
			arguments: []string{"user=u"},
			expected:  []string{"user=u"},
		},
		{
			name:      "MaskPassword",
			arguments: []string{"user=u", "password=secret"},
			expected:  []string{"user=u", "password=*****"},
		},
		{
			name:      "CaseInsensitive",
			arguments: []string{"Password=secret"},
			expected:  []string{"Password=*****"},
		},
		{
			name:      "ValueContainsEquals",
			arguments: []string{"password=a=b"},
			expected:  []string{"password=*****"},
		},
		{
			name:      "EmptyNotMasked",
			arguments: []string{"password="},
			expected:  []string{"password="},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, MaskArguments(test.arguments, []string{"password"}))
		})
	}
}

func TestMaskAndUserTagArguments(t *testing.T) {
	require.Equal(t,
		"user=<ud>u</ud> password=***** dbname=<ud>db</ud>",
		MaskAndUserTagArguments(
			[]string{"user=u", "password=p", "dbname=db"},
			[]string{"user", "dbname"},
			[]string{"password"},
		),
	)
}
