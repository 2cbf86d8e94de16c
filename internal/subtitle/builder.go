package subtitle

import (
	"github.com/mgpai22/srtalign/internal/logging"
	"github.com/mgpai22/srtalign/internal/transcript"
)

// Builder runs the sentence, merge and wrap stages over a transcript.
type Builder struct {
	options   Options
	segmenter *Segmenter
	logger    *logging.Logger
}

// zero-valued options fall back to DefaultOptions
func NewBuilder(opts Options, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Builder{
		options:   opts.withDefaults(),
		segmenter: NewSegmenter(CountAligner{}),
		logger:    logger,
	}
}

// WithAligner swaps the word-to-sentence aligner.
func (b *Builder) WithAligner(aligner Aligner) *Builder {
	b.segmenter.Aligner = aligner
	return b
}

func (b *Builder) Options() Options {
	return b.options
}

// Build produces numbered, wrapped cues for the transcript.
func (b *Builder) Build(t *transcript.Transcript) *Subtitle {
	fallbacks := 0
	b.segmenter.OnFallback = func(text string) {
		fallbacks++
		b.logger.Debugw("sentence has no usable word timings",
			"text", text,
		)
	}
	defer func() { b.segmenter.OnFallback = nil }()

	sentences := b.segmenter.Segment(t)
	merged := MergeShortCues(sentences, b.options.MinCueDuration)
	cues := Render(merged, b.options.MaxLineChars)

	language := t.Language
	if language == "" {
		language = b.options.LanguageHint
	}

	b.logger.Debugw("built subtitle cues",
		"segments", len(t.Segments),
		"sentences", len(sentences),
		"cues", len(cues),
		"fallbacks", fallbacks,
	)

	return &Subtitle{
		Cues:      cues,
		Language:  language,
		Sentences: len(sentences),
		Fallbacks: fallbacks,
	}
}

// Render numbers cues from 1 and wraps their text.
func Render(cues []SentenceCue, maxLineChars int) []RenderedCue {
	rendered := make([]RenderedCue, len(cues))
	for i, cue := range cues {
		rendered[i] = RenderedCue{
			Index: i + 1,
			Start: cue.Start,
			End:   cue.End,
			Lines: WrapLines(cue.Text, maxLineChars),
		}
	}
	return rendered
}
