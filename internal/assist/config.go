package assist

// Config holds suggestion settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for metadata suggestions.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.2,
	}
}
