package similarity

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
	"github.com/pmezard/go-difflib/difflib"
)

// Granularity selects the token unit the ratio is computed over.
type Granularity string

const (
	Words      Granularity = "word"
	Characters Granularity = "char"
)

// SimilarityConfig holds configuration for the similarity calculator.
type SimilarityConfig struct {
	Granularity Granularity
	// Precision rounds the ratio to this many decimals. Negative disables rounding.
	Precision int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() SimilarityConfig {
	return SimilarityConfig{
		Granularity: Words,
		Precision:   -1,
	}
}

// Validate checks if the configuration is valid.
func (c SimilarityConfig) Validate() error {
	if c.Granularity != Words && c.Granularity != Characters {
		return errors.New("granularity must be \"word\" or \"char\"")
	}
	if c.Precision > 15 {
		return errors.New("precision must be at most 15")
	}
	return nil
}

// Calculator scores normalized text pairs with a matching-block ratio.
type Calculator struct {
	config SimilarityConfig
	logger ports.Logger
}

// NewCalculator creates a new similarity calculator.
func NewCalculator(config SimilarityConfig, logger ports.Logger) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{config: config, logger: logger}, nil
}

// Score implements ports.SimilarityCalculator. The ratio is averaged over both
// argument orders so that Score(a, b) and Score(b, a) agree exactly.
func (c *Calculator) Score(a, b string) domain.Score {
	ta, tb := c.tokens(a), c.tokens(b)

	ratio := 1.0
	if a != b {
		forward := difflib.NewMatcherWithJunk(ta, tb, false, nil).Ratio()
		backward := difflib.NewMatcherWithJunk(tb, ta, false, nil).Ratio()
		ratio = (forward + backward) / 2
	}
	if c.config.Precision >= 0 {
		factor := math.Pow(10, float64(c.config.Precision))
		ratio = math.Round(ratio*factor) / factor
	}

	delta := LengthDelta(a, b)
	if c.logger != nil {
		c.logger.Debug("Computed similarity",
			"granularity", c.config.Granularity,
			"tokens_a", len(ta),
			"tokens_b", len(tb),
			"similarity", ratio,
			"length_delta_pct", delta,
		)
	}

	return domain.Score{Similarity: ratio, LengthDeltaPct: delta}
}

func (c *Calculator) tokens(s string) []string {
	if c.config.Granularity == Characters {
		out := make([]string, 0, len(s))
		for _, r := range s {
			out = append(out, string(r))
		}
		return out
	}
	return strings.Fields(s)
}

// LengthDelta returns |len(a) - len(b)| / max(len(a), len(b), 1) over runes.
func LengthDelta(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb, 1)
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(longest)
}
