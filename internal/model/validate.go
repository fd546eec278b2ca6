package model

import (
	"fmt"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateProfilePayload validates a raw save payload against the profile
// JSON schema file. Checks stay at the presence/shape level; an empty
// profile is still a valid profile. Malformed JSON fails validation too.
func ValidateProfilePayload(schemaPath string, raw []byte) error {
	// Use an absolute canonical file:// path so loaders resolve the schema
	// on all platforms.
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	docLoader := gojsonschema.NewBytesLoader(raw)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}
