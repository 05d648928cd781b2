package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"document-qa/internal/models"
)

type questionsFile struct {
	Questions *[]string `json:"questions"`
}

// ParseQuestions reads a {"questions": [...]} upload. A missing key yields an
// empty list; anything else that is not a list of strings is a parsing error.
func ParseQuestions(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, models.NewParsingError("Error processing questions file", fmt.Errorf("no content"))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, models.NewParsingError("Error processing questions file", err)
	}
	if !utf8.Valid(data) {
		return nil, models.NewParsingError("Error processing questions file", fmt.Errorf("content is not valid utf-8"))
	}

	var qf questionsFile
	if err := json.Unmarshal(data, &qf); err != nil {
		return nil, models.NewParsingError("Error processing questions file", err)
	}
	if qf.Questions == nil {
		return []string{}, nil
	}
	return *qf.Questions, nil
}
