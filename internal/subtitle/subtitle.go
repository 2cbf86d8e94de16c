package subtitle

// DefaultMinCueDuration is the merge threshold in seconds.
const DefaultMinCueDuration = 3.0

// DefaultMaxLineChars is the standard subtitle line length.
const DefaultMaxLineChars = 42

// timed sentence, also the shape of a merged cue
type SentenceCue struct {
	Text  string
	Start float64
	End   float64
}

func (c SentenceCue) Duration() float64 {
	return c.End - c.Start
}

// final unit written to the SRT stream
type RenderedCue struct {
	Index int
	Start float64
	End   float64
	Lines []string
}

// complete subtitle track produced by a Builder
type Subtitle struct {
	Cues     []RenderedCue
	Language string

	// Sentences is the number of sentence cues before merging.
	Sentences int
	// Fallbacks counts sentences whose timing was synthesized.
	Fallbacks int
}

// pipeline configuration
type Options struct {
	// MinCueDuration in seconds; shorter runs are merged forward.
	MinCueDuration float64
	// MaxLineChars bounds each displayed line, counted in runes.
	MaxLineChars int
	// LanguageHint is the ISO code of the spoken language, if known.
	LanguageHint string
}

func DefaultOptions() Options {
	return Options{
		MinCueDuration: DefaultMinCueDuration,
		MaxLineChars:   DefaultMaxLineChars,
	}
}

// fills zero values with defaults
func (o Options) withDefaults() Options {
	if o.MinCueDuration <= 0 {
		o.MinCueDuration = DefaultMinCueDuration
	}
	if o.MaxLineChars <= 0 {
		o.MaxLineChars = DefaultMaxLineChars
	}
	return o
}
