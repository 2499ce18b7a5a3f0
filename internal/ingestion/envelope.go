package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
)

var callbackEnvelope = regexp.MustCompile(`(?s)google\.visualization\.Query\.setResponse\((.*)\);`)

type gvizResponse struct {
	Version string      `json:"version"`
	Status  string      `json:"status"`
	Errors  []gvizError `json:"errors"`
	Table   *gvizTable  `json:"table"`
}

type gvizError struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message"`
}

type gvizTable struct {
	Rows []gvizRow `json:"rows"`
}

type gvizRow struct {
	C []*Cell `json:"c"`
}

// unwrapEnvelope strips the callback wrapper. Without one, the text between
// the first '{' and the last '}' is taken as the document.
func unwrapEnvelope(body []byte) ([]byte, error) {
	if m := callbackEnvelope.FindSubmatch(body); m != nil && len(bytes.TrimSpace(m[1])) > 0 {
		return m[1], nil
	}

	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no JSON object in response")
	}
	return body[start : end+1], nil
}

// ParseGvizResponse decodes a visualization endpoint response into raw records.
// A successful response without a table yields no records and no error.
func ParseGvizResponse(body []byte) ([]RawRecord, error) {
	doc, err := unwrapEnvelope(body)
	if err != nil {
		return nil, payloadError(err)
	}

	var resp gvizResponse
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, payloadError(err)
	}

	if resp.Status == "error" {
		var detail string
		if len(resp.Errors) > 0 {
			detail = resp.Errors[0].DetailedMessage
		}
		return nil, sourceError(detail)
	}

	if resp.Table == nil || len(resp.Table.Rows) == 0 {
		return []RawRecord{}, nil
	}

	records := make([]RawRecord, len(resp.Table.Rows))
	for i, row := range resp.Table.Rows {
		records[i] = RawRecord(row.C)
	}
	return records, nil
}
