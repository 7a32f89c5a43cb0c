package personalization

// Config tunes the orchestrator.
type Config struct {
	LookbackDays int
	ProductLimit int
}

const (
	defaultLookbackDays = 14
	defaultProductLimit = 6
)

func (c Config) withDefaults() Config {
	if c.LookbackDays <= 0 {
		c.LookbackDays = defaultLookbackDays
	}
	if c.ProductLimit <= 0 {
		c.ProductLimit = defaultProductLimit
	}
	return c
}
