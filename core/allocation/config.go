package allocation

// Config defines allocation settings.
type Config struct {
	// Strategy is one of first, emptiest, fullest or random. Unknown values
	// fall back to first.
	Strategy string `json:"strategy"`
	// Seed feeds the random strategy. Zero seeds from the clock.
	Seed int64 `json:"seed"`
	// Rearrangement enables the small car relocation fallback. Nil means enabled.
	Rearrangement *bool `json:"rearrangement"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = string(StrategyFirst)
	}
	if c.Rearrangement == nil {
		on := true
		c.Rearrangement = &on
	}
}

// RearrangementEnabled reports whether the relocation fallback is on.
func (c Config) RearrangementEnabled() bool {
	return c.Rearrangement == nil || *c.Rearrangement
}
