package config

import "fmt"

// Output formats accepted by OutputConfig.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// OutputConfig controls how allocation results are printed.
type OutputConfig struct {
	Format string `json:"format"`
	// View renders a lane bar chart after a text summary.
	View bool `json:"view"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = FormatText
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unknown format %s", c.Format)
	}
}
