// Package vocab maps corpus tokens to dense integer codes.
//
// Codes follow the sorted order of the token strings and are only stable
// for one corpus: rebuild the vocabulary whenever the corpus changes and
// never keep raw codes across rebuilds.
package vocab

import (
	"os"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/jsphweid/chorale/corpus"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnknownToken = errors.New("token not in vocabulary")
var ErrUnknownCode = errors.New("code not in vocabulary")

type Vocabulary struct {
	codes  map[string]int
	tokens []string
}

func FromTokens(tokens []string) *Vocabulary {
	seen := make(map[string]bool)
	var unique []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	sort.Strings(unique)

	v := &Vocabulary{codes: make(map[string]int, len(unique)), tokens: unique}
	for i, t := range unique {
		v.codes[t] = i
	}
	return v
}

// Build collects the distinct tokens of every stream.
func Build(c *corpus.Corpus) *Vocabulary {
	return FromTokens(c.Tokens())
}

func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

func (v *Vocabulary) Code(token string) (int, error) {
	code, ok := v.codes[token]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownToken, "%q", token)
	}
	return code, nil
}

func (v *Vocabulary) Token(code int) (string, error) {
	if code < 0 || code >= len(v.tokens) {
		return "", errors.Wrapf(ErrUnknownCode, "%v", code)
	}
	return v.tokens[code], nil
}

// EncodeStreams maps every token of the corpus. A miss means the
// vocabulary was built from a different corpus and is fatal.
func (v *Vocabulary) EncodeStreams(c *corpus.Corpus) ([][]int, error) {
	res := make([][]int, len(c.Streams))
	for i, s := range c.Streams {
		ints := make([]int, len(s))
		for j, tok := range s {
			code, err := v.Code(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "stream %v offset %v", i, j)
			}
			ints[j] = code
		}
		res[i] = ints
	}
	return res, nil
}

// Save writes the forward (token -> code) and inverse (code -> token)
// mappings as two JSON objects with sorted keys.
func (v *Vocabulary) Save(encoderPath, decoderPath string) error {
	inverse := make(map[string]string, len(v.tokens))
	for code, tok := range v.tokens {
		inverse[strconv.Itoa(code)] = tok
	}
	if err := writeJSON(encoderPath, v.codes); err != nil {
		return err
	}
	return writeJSON(decoderPath, inverse)
}

func writeJSON(path string, data any) error {
	b, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "Could not encode %v", path)
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "Write failed for %v", path)
}

// Load reads both mappings and checks that they form a bijection.
func Load(encoderPath, decoderPath string) (*Vocabulary, error) {
	var forward map[string]int
	var inverse map[string]string
	if err := readJSON(encoderPath, &forward); err != nil {
		return nil, err
	}
	if err := readJSON(decoderPath, &inverse); err != nil {
		return nil, err
	}
	if len(forward) != len(inverse) {
		return nil, errors.Errorf("encoder has %v entries, decoder has %v", len(forward), len(inverse))
	}

	tokens := make([]string, len(inverse))
	filled := make([]bool, len(inverse))
	for key, tok := range inverse {
		code, err := strconv.Atoi(key)
		if err != nil || code < 0 || code >= len(tokens) || filled[code] {
			return nil, errors.Errorf("bad decoder code %q", key)
		}
		tokens[code] = tok
		filled[code] = true
	}
	for tok, code := range forward {
		if code < 0 || code >= len(tokens) || tokens[code] != tok {
			return nil, errors.Errorf("encoder entry %q=%v does not match decoder", tok, code)
		}
	}
	return &Vocabulary{codes: forward, tokens: tokens}, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "Could not read vocabulary")
	}
	return errors.Wrapf(json.Unmarshal(data, out), "Could not decode %v", path)
}
