package gateway

// Settings resolves store-scoped gateway configuration. Every lookup takes
// the store identifier so a single deployment can serve multiple merchant
// stores; implementations return an error wrapping ErrConfiguration when a
// required value is absent for the requested scope.
type Settings interface {
	// PaymentCreateURL returns the gateway payment-creation endpoint.
	PaymentCreateURL(storeID string) (string, error)
	// MerchantSecret returns the shared secret used to key request digests.
	MerchantSecret(storeID string) (string, error)
	// AuthenticityToken returns the merchant token carried in the
	// Authorization header.
	AuthenticityToken(storeID string) (string, error)
	// AcceptedCurrencies returns the currency codes the store accepts.
	AcceptedCurrencies(storeID string) ([]string, error)
	// DefaultTransactionType returns the transaction type configured for
	// outbound payments (purchase or authorize).
	DefaultTransactionType(storeID string) (string, error)
}
