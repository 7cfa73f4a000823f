package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// entryParam is the parameter field values are nested under
const entryParam = "form_entry"

// maxParamsBytes limits the size of a submitted entry
const maxParamsBytes = 1 << 20

var errMissingParam = errors.New("param is missing or the value is empty: " + entryParam)

// entryParams reads form_entry[<name>] values from a form body, or the
// form_entry object of a JSON body.
func entryParams(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxParamsBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return jsonEntryParams(r)
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	params := map[string]string{}
	for key, values := range r.PostForm {
		name, ok := strings.CutPrefix(key, entryParam+"[")
		if !ok || len(values) == 0 {
			continue
		}
		name, ok = strings.CutSuffix(name, "]")
		if !ok || name == "" {
			continue
		}
		// a check box posts a hidden default before its value
		params[name] = values[len(values)-1]
	}
	if len(params) == 0 {
		return nil, errMissingParam
	}
	return params, nil
}

func jsonEntryParams(r *http.Request) (map[string]string, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	var raw map[string]interface{}
	if nested, ok := body[entryParam]; ok {
		if err := json.Unmarshal(nested, &raw); err != nil {
			return nil, fmt.Errorf("%s must be an object", entryParam)
		}
	}
	if len(raw) == 0 {
		return nil, errMissingParam
	}

	params := make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
			params[name] = ""
		case string:
			params[name] = v
		case bool:
			if v {
				params[name] = "1"
			} else {
				params[name] = "0"
			}
		case float64:
			params[name] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("%s[%s] must be a scalar value", entryParam, name)
		}
	}
	return params, nil
}
