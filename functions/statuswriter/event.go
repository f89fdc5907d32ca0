package statuswriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

const (
	envBucketName = "BUCKET_NAME"

	keyRecords = "Records"
	keySns     = "Sns"
	keyMessage = "Message"

	keyResourceProperties = "ResourceProperties"
	keyAccountId          = "AccountId"
	keyToken              = "Token"
	keyRegion             = "Region"
	keyEventPublishTime   = "EventPublishTime"
	keyCanonicalUser      = "CanonicalUser"

	msgParseFail = "unable to parse event for " + keyResourceProperties
	msgShapeFail = keyResourceProperties + " must be a JSON object"
)

// ResourceProperties holds the caller supplied values which locate the
// status object and name the principal granted read access to it.
type ResourceProperties struct {
	AccountId        string `json:"AccountId"`
	Token            string `json:"Token"`
	Region           string `json:"Region"`
	EventPublishTime string `json:"EventPublishTime"`
	CanonicalUser    string `json:"CanonicalUser"`
}

// lookupFunc returns the value stored under key and whether it was found.
type lookupFunc func(key string) (interface{}, bool)

func mapLookup(m map[string]interface{}) lookupFunc {
	return func(key string) (interface{}, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func envLookup(key string) (interface{}, bool) {
	return os.LookupEnv(key)
}

// parseEvent digs ResourceProperties out of the first record of an SNS
// envelope. Keys are matched exactly and nothing past Records[0].Sns.Message
// is decoded. Decoding problems of any kind produce the same ErrParse error.
func parseEvent(raw json.RawMessage) (map[string]interface{}, error) {
	parseErr := HandlerErr{errType: ErrParse, msg: msgParseFail}

	rawRecords, ok := objectField(raw, keyRecords)
	if !ok {
		return nil, parseErr
	}
	var records []json.RawMessage
	if err := json.Unmarshal(rawRecords, &records); err != nil || len(records) == 0 {
		return nil, parseErr
	}

	rawSns, ok := objectField(records[0], keySns)
	if !ok {
		return nil, parseErr
	}
	rawMessage, ok := objectField(rawSns, keyMessage)
	if !ok {
		return nil, parseErr
	}
	var message string
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		return nil, parseErr
	}

	rawProps, ok := objectField(json.RawMessage(message), keyResourceProperties)
	if !ok {
		return nil, parseErr
	}
	if !isObject(rawProps) {
		return nil, HandlerErr{errType: ErrShape, msg: msgShapeFail}
	}

	var props map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(rawProps))
	dec.UseNumber()
	if err := dec.Decode(&props); err != nil {
		return nil, parseErr
	}

	return props, nil
}

// objectField returns the raw value stored under key when raw is a JSON
// object containing exactly that key.
func objectField(raw json.RawMessage, key string) (json.RawMessage, bool) {
	if !isObject(raw) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) != 0 && trimmed[0] == '{'
}

// newResourceProperties validates the required entries of props.
func newResourceProperties(props map[string]interface{}) (*ResourceProperties, error) {
	lookup := mapLookup(props)
	var result ResourceProperties
	for _, field := range []struct {
		key string
		dst *string
	}{
		{key: keyAccountId, dst: &result.AccountId},
		{key: keyToken, dst: &result.Token},
		{key: keyRegion, dst: &result.Region},
		{key: keyEventPublishTime, dst: &result.EventPublishTime},
		{key: keyCanonicalUser, dst: &result.CanonicalUser},
	} {
		v, err := requiredProperty(lookup, field.key)
		if err != nil {
			return nil, err
		}
		*field.dst = v
	}

	return &result, nil
}

// requiredProperty fetches name from lookup. Absent values and present but
// falsy values ("", 0, false, null, [], {}) are rejected alike.
func requiredProperty(lookup lookupFunc, name string) (string, error) {
	v, found := lookup(name)
	if !found || !truthy(v) {
		return "", HandlerErr{
			errType:  ErrMissingProperty,
			property: name,
			msg:      fmt.Sprintf("property '%s' must be defined", name),
		}
	}

	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case bool:
		return v
	case []interface{}:
		return len(v) != 0
	case map[string]interface{}:
		return len(v) != 0
	}
	return true
}
