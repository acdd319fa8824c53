package config

// Named is a predefined run configuration, grounded on the teacher's
// SOCNetworkConfig: a name, a human description, and the Config it
// expands to.
type Named struct {
	Name        string
	Description string
	Config      Config
}

// Predefined returns the built-in named configurations selected by the
// --preset flag of `moesisim run`, `bench` and `check`.
func Predefined() []Named {
	return []Named{
		{
			Name:        "small",
			Description: "4 cores, 64-line caches, 1024 words — the default spec.md worked-example geometry",
			Config:      Config{Cores: 4, LinesPer: 64, Words: 1024, WordSize: 4},
		},
		{
			Name:        "pair",
			Description: "2 cores, 16-line caches, 256 words — minimal geometry for two-core sharing tests",
			Config:      Config{Cores: 2, LinesPer: 16, Words: 256, WordSize: 4},
		},
		{
			Name:        "contended",
			Description: "8 cores, 8-line caches, 128 words — small, heavily aliased geometry for conflict-miss and atomic-RMW stress",
			Config:      Config{Cores: 8, LinesPer: 8, Words: 128, WordSize: 4},
		},
	}
}

// ByName returns a copy of the named config, or false if name is not
// one of the presets.
func ByName(name string) (Config, bool) {
	for _, n := range Predefined() {
		if n.Name == name {
			return n.Config, true
		}
	}
	return Config{}, false
}
