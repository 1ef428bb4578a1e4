package identity

import (
	"log/slog"
	"time"
)

// Resolver maps an inbound identity token to a stable username, minting a
// fresh one when the token is absent or fails verification. Verification
// failure is deliberately treated like absence: the client silently receives
// a new anonymous identity instead of an authentication error.
type Resolver struct {
	secret []byte
	ttl    time.Duration
	log    *slog.Logger
}

func NewResolver(secret []byte, ttl time.Duration, log *slog.Logger) *Resolver {
	return &Resolver{secret: secret, ttl: ttl, log: log}
}

// Resolve returns the username for the request and, when a new identity was
// minted, the signed token the transport layer must hand back to the client.
// At most one token is issued per call; a valid token issues nothing.
func (r *Resolver) Resolve(rawToken string) (username string, issued string, err error) {
	if rawToken != "" {
		username, verr := VerifyToken(rawToken, r.secret)
		if verr == nil {
			return username, "", nil
		}
		r.log.Debug("identity token rejected, minting a new one", "error", verr)
	}

	username = MintUsername()
	issued, err = IssueToken(username, r.secret, r.ttl)
	if err != nil {
		return "", "", err
	}
	return username, issued, nil
}
