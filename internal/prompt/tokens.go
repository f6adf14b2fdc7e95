package prompt

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens for budget enforcement.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens with a BPE encoding (cl100k_base by default).
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding. Loading can fail when the BPE
// data is not cached locally; callers fall back to EstimateCounter.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// EstimateCounter approximates tokens as len/4, the usual rule of thumb for
// code-heavy English text. Deliberately conservative is not required here: the
// budget only bounds prompt size, it does not need exact token accounting.
type EstimateCounter struct{}

// Count returns the estimated token count for text.
func (EstimateCounter) Count(text string) int {
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}
