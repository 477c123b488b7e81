package keyring

// Registration is the input of an account creation and its persisted form.
// It is never modified once an account was created from it.
type Registration struct {
	// PublicKeys of the other participants, hex encoded.
	PublicKeys []string `json:"publicKeys"`
	// PrivateKeys held locally, hex encoded seeds. Usually just one.
	PrivateKeys []string `json:"privateKeys"`
	// Threshold is the number of signatures required to authorize a
	// transaction.
	Threshold int `json:"thresHold"`
}

// Copy returns a deep copy of the registration.
func (r Registration) Copy() Registration {
	return Registration{
		PublicKeys:  copyStrings(r.PublicKeys),
		PrivateKeys: copyStrings(r.PrivateKeys),
		Threshold:   r.Threshold,
	}
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
