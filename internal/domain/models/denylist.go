package models

// BlockedNumber is a phone number known to be used by scammers
type BlockedNumber struct {
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// BlockedDomain is a host known to serve scam or phishing content
type BlockedDomain struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// BlockedMessage is a phrase whose presence marks a message as a known scam
type BlockedMessage struct {
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
}

// DenylistSeed bundles the reference data written at startup when absent
type DenylistSeed struct {
	Numbers  []BlockedNumber
	Domains  []BlockedDomain
	Messages []BlockedMessage
}
