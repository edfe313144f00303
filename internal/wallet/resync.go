package wallet

import (
	"golang.org/x/sync/singleflight"
)

// coalescer merges concurrent resyncs for one account into a single
// in-flight fetch. A user action and a push event firing together produce
// one network traversal; the late caller waits for and shares the first
// caller's result.
type coalescer struct {
	group singleflight.Group
}

// do runs fetch under the account's key. shared reports whether the
// result came from another caller's in-flight fetch.
func (c *coalescer) do(account string, fetch func() ([]OwnedToken, error)) (tokens []OwnedToken, shared bool, err error) {
	v, err, shared := c.group.Do(account, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return nil, shared, err
	}
	tokens, _ = v.([]OwnedToken)
	return tokens, shared, nil
}
