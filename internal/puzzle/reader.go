package puzzle

import (
	"bytes"
	"strconv"
)

func checkStatus(resp *Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}

// readJSON decodes a single JSON document with mapper.
func readJSON[T any](resp *Response, mapper func(*decoder, field) T) (T, error) {
	var zero T
	if err := checkStatus(resp); err != nil {
		return zero, err
	}
	root, err := parseRoot(resp.Body)
	if err != nil {
		return zero, err
	}
	d := &decoder{}
	v := mapper(d, root)
	if d.err != nil {
		return zero, d.err
	}
	return v, nil
}

// readNDJSONList decodes one JSON document per non-blank line. Any bad line
// fails the whole list.
func readNDJSONList[T any](resp *Response, mapper func(*decoder, field) T) ([]T, error) {
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	out := []T{}
	d := &decoder{}
	for _, line := range bytes.Split(resp.Body, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		path := "[" + strconv.Itoa(len(out)) + "]"
		root, err := parseRoot(line)
		if err != nil {
			return nil, &DecodeError{Path: path, Expected: "JSON document", Actual: "invalid JSON"}
		}
		root.path = path
		v := mapper(d, root)
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, v)
	}
	return out, nil
}
