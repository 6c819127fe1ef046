package service

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/pkg/validator"
)

// AnswerPayload maps question numbers (as JSON object keys) to raw answer values
type AnswerPayload map[string]json.RawMessage

type answerFields struct {
	Answer         json.RawMessage `json:"answer"`
	DatetimeValue  json.RawMessage `json:"datetime_value"`
	DatetimeTitle  json.RawMessage `json:"datetime_title"`
	DatetimeAnswer json.RawMessage `json:"datetime_answer"`
}

// parseAnswers validates every entry before anything is written.
// With allowBareString a JSON string value is read as {"answer": value}.
// The result is ordered by question number.
func parseAnswers(payload AnswerPayload, allowBareString bool) ([]models.AnswerInput, error) {
	inputs := make([]models.AnswerInput, 0, len(payload))
	seen := make(map[int]bool, len(payload))

	for key, raw := range payload {
		question, err := validator.ParsePositiveInt("question number", key)
		if err != nil {
			return nil, invalidInput("invalid question number %q", key)
		}
		if seen[question] {
			return nil, invalidInput("duplicate question number %d", question)
		}
		seen[question] = true

		input, err := parseAnswerValue(question, raw, allowBareString)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].QuestionNumber < inputs[j].QuestionNumber
	})

	return inputs, nil
}

func parseAnswerValue(question int, raw json.RawMessage, allowBareString bool) (models.AnswerInput, error) {
	input := models.AnswerInput{QuestionNumber: question}
	trimmed := bytes.TrimSpace(raw)

	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		var fields answerFields
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return input, invalidInput("answer for question %d is not a valid object", question)
		}

		var err error
		if input.Answer, err = fieldText(question, "answer", fields.Answer); err != nil {
			return input, err
		}
		if input.DatetimeValue, err = fieldText(question, "datetime_value", fields.DatetimeValue); err != nil {
			return input, err
		}
		if input.DatetimeTitle, err = fieldText(question, "datetime_title", fields.DatetimeTitle); err != nil {
			return input, err
		}
		if input.DatetimeAnswer, err = fieldText(question, "datetime_answer", fields.DatetimeAnswer); err != nil {
			return input, err
		}
		return input, nil

	case allowBareString && len(trimmed) > 0 && trimmed[0] == '"':
		answer, err := fieldText(question, "answer", trimmed)
		if err != nil {
			return input, err
		}
		input.Answer = answer
		return input, nil

	default:
		return input, invalidInput("answer for question %d must be an object", question)
	}
}

// fieldText normalises one answer field. Absent, null and empty values become nil.
// Numbers and booleans are stored as their JSON text.
func fieldText(question int, name string, raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var text string
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, invalidInput("%s for question %d is not a valid string", name, question)
		}
	case '{', '[':
		return nil, invalidInput("%s for question %d must be a string", name, question)
	default:
		text = string(trimmed)
	}

	text = validator.SanitizeText(text)
	if text == "" {
		return nil, nil
	}
	return &text, nil
}
