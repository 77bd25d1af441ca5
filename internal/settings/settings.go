package settings

// CartConfig is the admin-configured cart persistence policy. Guest carts are
// written locally only while PersistCart holds, and expire after
// CartExpirationDays (0 means never).
type CartConfig struct {
	PersistCart        bool `json:"persistCart"`
	CartExpirationDays int  `json:"cartExpirationDays"`
}

// DefaultCartConfig is the safe fallback used whenever the stored or fetched
// policy is unavailable. Cart usability must never depend on a settings read.
func DefaultCartConfig() CartConfig {
	return CartConfig{PersistCart: true, CartExpirationDays: 30}
}
