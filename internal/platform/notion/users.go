package notion

import (
	"context"
	"net/http"
)

// Identity returns the integration behind the configured token. It is the
// cheapest authenticated call and doubles as a connectivity check.
func (c *Client) Identity(ctx context.Context) (AccountInfo, error) {
	var u userObject
	if err := c.call(ctx, "identity", http.MethodGet, "/users/me", nil, &u); err != nil {
		return AccountInfo{}, err
	}

	info := AccountInfo{ID: u.ID, Name: u.Name, Type: u.Type}
	if u.Bot != nil {
		info.WorkspaceName = u.Bot.WorkspaceName
	}
	return info, nil
}
