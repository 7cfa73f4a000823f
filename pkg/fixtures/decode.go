package fixtures

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gorm.io/datatypes"
)

var jsonType = reflect.TypeOf(datatypes.JSON{})

// jsonColumnHook encodes nested attribute values destined for JSON columns.
func jsonColumnHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != jsonType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if from == jsonType {
			return data, nil
		}
		if b, ok := data.([]byte); ok {
			return datatypes.JSON(b), nil
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(raw), nil
	case reflect.String:
		return datatypes.JSON(data.(string)), nil
	}
	return data, nil
}

// decode assigns attrs to the fields of rec, keyed by their json names.
// Unknown keys are an error.
func decode(attrs map[string]any, rec any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           rec,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonColumnHook,
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(attrs)
}
