package callerctx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
)

type contextKey string

// CallerKey stores the identified caller in context.
const CallerKey contextKey = "calling_package"

// RequestKey stores request in context.
const RequestKey contextKey = "http_request"

func WithCaller(ctx context.Context, caller callerauth.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func WithRequest(ctx context.Context, request *http.Request) context.Context {
	return context.WithValue(ctx, RequestKey, request)
}

func ShouldGetCaller(ctx context.Context) (callerauth.Caller, error) {
	contextValue := ctx.Value(CallerKey)
	if contextValue == nil {
		return callerauth.Caller{}, fmt.Errorf("%s not found in context", CallerKey)
	}

	caller, ok := contextValue.(callerauth.Caller)
	if !ok {
		return callerauth.Caller{}, fmt.Errorf("%s contains unexpected type %T", CallerKey, contextValue)
	}

	return caller, nil
}

func ShouldGetRequest(ctx context.Context) (*http.Request, error) {
	contextValue := ctx.Value(RequestKey)
	if contextValue == nil {
		return nil, fmt.Errorf("%s not found in context", RequestKey)
	}

	req, ok := contextValue.(*http.Request)
	if !ok {
		return nil, fmt.Errorf("%s contains unexpected type %T", RequestKey, contextValue)
	}

	return req, nil
}

// IsUnknownCaller reports whether the request came without a calling package.
func IsUnknownCaller(ctx context.Context) bool {
	caller, err := ShouldGetCaller(ctx)
	if err != nil {
		return true
	}
	return caller.Unknown()
}
