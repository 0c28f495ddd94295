package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response limits.
const (
	MaxEntries          = 30
	MaxWordLength       = 80
	MaxDefinitionLength = 500
)

// VocabularyEntry is a single word chosen by the model.
type VocabularyEntry struct {
	Word       string `json:"word" validate:"required,max=80"`
	Definition string `json:"definition" validate:"required,max=500"`
	Example    string `json:"example,omitempty" validate:"max=500"`
}

// VocabularyResponse is the JSON document the model is instructed to return.
type VocabularyResponse struct {
	Vocabulary []VocabularyEntry `json:"vocabulary" validate:"required,min=1,max=30,dive"`
}

var validate = validator.New()

// ParseVocabularyResponse decodes raw model output. Unknown fields, trailing
// data and entries failing validation all yield ErrInvalidResponse. A
// surrounding markdown code fence is tolerated.
func ParseVocabularyResponse(raw []byte) (*VocabularyResponse, error) {
	body := stripCodeFence(raw)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var resp VocabularyResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON document", ErrInvalidResponse)
	}

	for i := range resp.Vocabulary {
		e := &resp.Vocabulary[i]
		e.Word = strings.TrimSpace(e.Word)
		e.Definition = strings.TrimSpace(e.Definition)
		e.Example = strings.TrimSpace(e.Example)
	}

	if err := validate.Struct(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

func stripCodeFence(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(body, []byte("```")) {
		return body
	}
	body = bytes.TrimPrefix(body, []byte("```"))
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	body = bytes.TrimSuffix(bytes.TrimSpace(body), []byte("```"))
	return bytes.TrimSpace(body)
}
