package testutil

import (
	"context"

	"github.com/golang/mock/gomock"
)

// MatchContext matches any implementation of 'context.Context'.
var MatchContext gomock.Matcher = contextMatcher{}

type contextMatcher struct{}

func (contextMatcher) Matches(x any) bool {
	_, ok := x.(context.Context)
	return ok
}

func (contextMatcher) String() string {
	return "is a context.Context"
}
