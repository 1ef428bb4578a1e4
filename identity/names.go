// Package identity assigns stable pseudonyms to anonymous clients and signs
// them into long-lived tokens so a client keeps the same name across requests.
package identity

import (
	"fmt"
	"math/rand/v2"
	"regexp"
)

// Fixed pools: each minted name is Adjective-Noun-DDDD with every component
// drawn uniformly and independently.
var (
	adjectives = []string{
		"Swift", "Quiet", "Brave", "Clever", "Gentle",
		"Lucky", "Mellow", "Nimble", "Proud", "Witty",
	}
	nouns = []string{
		"Otter", "Falcon", "Badger", "Heron", "Lynx",
		"Marmot", "Osprey", "Puffin", "Stoat", "Wombat",
	}
)

var namePattern = regexp.MustCompile(`^[A-Z][a-z]+-[A-Z][a-z]+-\d{4}$`)

// MintUsername generates a fresh pseudonym such as "Swift-Otter-0482".
func MintUsername() string {
	return fmt.Sprintf("%s-%s-%04d",
		adjectives[rand.IntN(len(adjectives))],
		nouns[rand.IntN(len(nouns))],
		rand.IntN(10000),
	)
}

// IsWellFormed reports whether a username matches the minted pattern.
// Used to reject tokens that carry a tampered or foreign subject.
func IsWellFormed(username string) bool {
	return namePattern.MatchString(username)
}
