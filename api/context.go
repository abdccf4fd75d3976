package api

import (
	"context"

	"github.com/rpupo63/agile-blog-backend/access"
)

type keyType string

const requesterKey keyType = "requester"

// ctxWithRequester adds the caller identity to the context
func ctxWithRequester(ctx context.Context, r access.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, r)
}

// requesterFromCtx retrieves the caller identity; absent means anonymous.
func requesterFromCtx(ctx context.Context) access.Requester {
	if v := ctx.Value(requesterKey); v != nil {
		if r, ok := v.(access.Requester); ok {
			return r
		}
	}
	return access.Anonymous()
}
