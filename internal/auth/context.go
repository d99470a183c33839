package auth

import "context"

type ctxKey string

const customerKey ctxKey = "auth_customer_id"

// ContextWithCustomer attaches the authenticated customer identifier.
func ContextWithCustomer(ctx context.Context, customerID string) context.Context {
	if customerID == "" {
		return ctx
	}
	return context.WithValue(ctx, customerKey, customerID)
}

// CustomerIDFromContext returns the authenticated customer identifier, if any.
func CustomerIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(customerKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
