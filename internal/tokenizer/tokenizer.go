package tokenizer

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Tokenizer extracts noun surfaces from Japanese text with the bundled IPA
// dictionary, optionally extended by a user dictionary for newer vocabulary.
type Tokenizer struct {
	t *tokenizer.Tokenizer
}

func New(userDictPath string) (*Tokenizer, error) {
	var opts []tokenizer.Option
	if userDictPath != "" {
		ud, err := dict.NewUserDict(userDictPath)
		if err != nil {
			return nil, fmt.Errorf("load user dict: %w", err)
		}
		opts = append(opts, tokenizer.UserDict(ud))
	}
	t, err := tokenizer.New(ipa.Dict(), opts...)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{t: t}, nil
}

// Nouns returns the noun token surfaces of text in occurrence order,
// repeats included. A panic inside the lattice build surfaces as an error,
// which callers treat as a per-post tokenize failure.
func (t *Tokenizer) Nouns(text string) (surfaces []string, err error) {
	if t == nil || t.t == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			surfaces = nil
			err = fmt.Errorf("tokenize: %v", r)
		}
	}()
	tokens := t.t.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		features := tok.Features()
		if len(features) == 0 || features[0] != "名詞" {
			continue
		}
		surface := strings.TrimSpace(tok.Surface)
		if surface == "" {
			continue
		}
		out = append(out, surface)
	}
	return out, nil
}
