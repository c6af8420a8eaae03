package payments

import "context"

// Gateway is the card-authorization boundary. A returned error means the
// call never produced a readable gateway verdict (network or parse
// failure); declines come back as a response, not an error.
type Gateway interface {
	Authorize(ctx context.Context, req AuthorizationRequest) (AuthorizationResponse, error)
}
