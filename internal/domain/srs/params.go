package srs

import "github.com/phrazzld/essaylab-api/internal/domain"

// Quality bounds of a grading event.
const (
	MinQuality = 0
	MaxQuality = 5
)

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// MinEaseFactor is the floor applied after every ease update.
	MinEaseFactor float64

	// PassThreshold is the lowest quality that counts as a successful recall.
	PassThreshold int

	// FirstInterval and SecondInterval are used for repetition counts 0 and 1.
	// Later intervals grow by the ease factor.
	FirstInterval  int
	SecondInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	PassThreshold  int
	FirstInterval  int
	SecondInterval int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		PassThreshold:  3,
		FirstInterval:  1,
		SecondInterval: 6,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values keep the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassThreshold > 0 && config.PassThreshold <= MaxQuality {
		params.PassThreshold = config.PassThreshold
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	return params
}
