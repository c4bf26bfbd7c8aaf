package ingest

// Pipeline orchestrates the per-record flow:
// raw value → (optional markup stripping) → normalization → vocabulary encoding
type Pipeline struct {
	normalizer  *Normalizer
	vocabulary  *Vocabulary
	mode        Mode
	stripMarkup bool
}

// PipelineOption tweaks a Pipeline at construction.
type PipelineOption func(*Pipeline)

// WithMode selects binary or count encoding.
func WithMode(mode Mode) PipelineOption {
	return func(p *Pipeline) {
		p.mode = mode
	}
}

// WithMarkupStripping extracts HTML text before normalizing.
func WithMarkupStripping(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.stripMarkup = enabled
	}
}

// NewPipeline creates a pipeline with the given components
func NewPipeline(normalizer *Normalizer, vocabulary *Vocabulary, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		normalizer: normalizer,
		vocabulary: vocabulary,
		mode:       ModeBinary,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessedRecord is one record after normalization and encoding.
type ProcessedRecord struct {
	Tokens    TokenList
	Row       EncodedRow
	Unmatched []string
}

// Vocabulary returns the vocabulary the pipeline encodes against.
func (p *Pipeline) Vocabulary() *Vocabulary {
	return p.vocabulary
}

// Normalizer returns the pipeline's normalizer.
func (p *Pipeline) Normalizer() *Normalizer {
	return p.normalizer
}

// Mode returns the encoding mode.
func (p *Pipeline) Mode() Mode {
	return p.mode
}

// Process runs one raw value through the pipeline. Records are independent;
// nothing carries over between calls.
func (p *Pipeline) Process(in Input) ProcessedRecord {
	if p.stripMarkup && in.Present() {
		in = Text(StripMarkup(in.String()))
	}

	tokens := p.normalizer.Normalize(in)

	return ProcessedRecord{
		Tokens:    tokens,
		Row:       p.vocabulary.Encode(tokens, p.mode),
		Unmatched: p.vocabulary.Unmatched(tokens),
	}
}
