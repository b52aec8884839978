package domain

// Chunk is a retrievable unit of document text.
//
// IDs are integers assigned monotonically from zero in insertion order
// within a session and are never reused. Text is never empty or
// whitespace-only; TokenLen never exceeds the configured token budget.
type Chunk struct {
	// ID is the insertion-ordered identifier within the session.
	ID int

	// Text is the chunk content.
	Text string

	// CharLen is the text length in runes.
	CharLen int

	// TokenLen is the text length under the fixed tokenizer.
	TokenLen int
}

// Corpus is the ordered chunk sequence produced from one document.
//
// Concatenating the chunk texts (minus any injected overlap prefixes)
// reproduces the extracted document text modulo whitespace
// normalisation at chunk boundaries.
type Corpus []Chunk

// Texts returns the chunk texts in corpus order.
func (c Corpus) Texts() []string {
	texts := make([]string, len(c))
	for i, ch := range c {
		texts[i] = ch.Text
	}
	return texts
}

// TotalTokens returns the summed token length of all chunks.
func (c Corpus) TotalTokens() int {
	total := 0
	for _, ch := range c {
		total += ch.TokenLen
	}
	return total
}
