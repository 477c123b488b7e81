package keyring

// Serialize returns registrations of all accounts in registration order.
// Only the registration is persisted, addresses and key shards are derived
// again after Deserialize.
func (k *Keyring) Serialize() []Registration {
	return k.registry.Registrations()
}

// Deserialize replaces all accounts with pending accounts created from given
// registrations. Registrations are validated once the accounts are listed or
// used, not here.
func (k *Keyring) Deserialize(regs []Registration) {
	k.registry.Replace(regs)
	k.logger.Info("keyring loaded", "accounts", len(regs))
}
