package fix

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ValidationOptions controls how strict DataDictionary validation is.
type ValidationOptions struct {
	// CheckFieldsOutOfOrder rejects header fields after the body and trailer
	// fields before it while parsing.
	CheckFieldsOutOfOrder bool `toml:"check_fields_out_of_order"`
	// CheckFieldsHaveValues rejects fields with an empty value.
	CheckFieldsHaveValues bool `toml:"check_fields_have_values"`
	// CheckUserDefinedFields validates tags >= 5000 like any other tag.
	CheckUserDefinedFields bool `toml:"check_user_defined_fields"`
	// AllowUnknownMessageFields accepts tags below 5000 that are unknown to
	// the dictionary or not defined for the message.
	AllowUnknownMessageFields bool `toml:"allow_unknown_message_fields"`
	// ValidateFieldFormats checks values against their declared FieldType.
	ValidateFieldFormats bool `toml:"validate_field_formats"`
	// PreserveMessageFieldsOrder makes dictionary aware parsing keep the
	// declared field order of the message body instead of numeric order.
	PreserveMessageFieldsOrder bool `toml:"preserve_message_fields_order"`
}

// DefaultValidationOptions returns the options used by NewDataDictionary.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		CheckFieldsOutOfOrder: true,
		CheckFieldsHaveValues: true,
		ValidateFieldFormats:  true,
	}
}

// DecodeValidationOptions reads options from TOML. Keys that are absent keep
// their default value; unknown keys are rejected.
func DecodeValidationOptions(data []byte) (ValidationOptions, error) {
	opts := DefaultValidationOptions()
	meta, err := toml.Decode(string(data), &opts)
	if err != nil {
		return ValidationOptions{}, fmt.Errorf("%w: decode validation options: %w", ErrConfig, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return ValidationOptions{}, fmt.Errorf("%w: unknown validation options: %s", ErrConfig, strings.Join(keys, ", "))
	}
	return opts, nil
}

// LoadValidationOptions reads options from a TOML file.
func LoadValidationOptions(path string) (ValidationOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationOptions{}, fmt.Errorf("%w: load validation options: %w", ErrConfig, err)
	}
	return DecodeValidationOptions(data)
}
