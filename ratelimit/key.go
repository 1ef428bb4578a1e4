package ratelimit

// Key builds the admission-control key from the client address and the
// resolved username. Both parts are included so a shared NAT address does
// not pool all identities into a single budget.
func Key(clientAddr, username string) string {
	return clientAddr + "|" + username
}
