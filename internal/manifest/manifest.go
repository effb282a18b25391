// Package manifest defines the mod manifest schema and its validation.
//
// A manifest is any JSON file that deserializes into the Manifest shape
// and passes Validate. The extension alone is never enough; candidates
// that fail to read, decode or (in strict mode) validate are silently
// dropped by the discovery pipeline.
package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/bethropolis/bmt/internal/utils"
)

// Dependency names another mod this one requires.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Manifest describes a single mod.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Author       string       `json:"author,omitempty"`
	Description  string       `json:"description,omitempty"`
	GameVersion  string       `json:"gameVersion,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// ValidationError is one failed field rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the accumulated result of validating a manifest.
// It is non-empty whenever validation failed; sub-validations append into
// it rather than short-circuiting, so the caller sees every problem.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// versionRe accepts dotted numeric versions with an optional pre-release
// or build suffix, e.g. "1.0", "2.1.3", "1.0.0-beta.2".
var versionRe = regexp.MustCompile(`^\d+(\.\d+){0,2}([-+][0-9A-Za-z.-]+)?$`)

// Validate fans out the field validators and concatenates their results.
// A nil return means the manifest is semantically valid.
func (m *Manifest) Validate() ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, validateName("name", m.Name)...)
	errs = append(errs, validateVersion("version", m.Version)...)
	for i, dep := range m.Dependencies {
		field := fmt.Sprintf("dependencies[%d]", i)
		errs = append(errs, validateName(field+".name", dep.Name)...)
		if dep.Version != "" {
			errs = append(errs, validateVersion(field+".version", dep.Version)...)
		}
	}
	return errs
}

func validateName(field, name string) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(name) == "" {
		errs = append(errs, ValidationError{Field: field, Message: "must not be empty"})
	}
	return errs
}

func validateVersion(field, version string) ValidationErrors {
	var errs ValidationErrors
	if version == "" {
		errs = append(errs, ValidationError{Field: field, Message: "must not be empty"})
	} else if !versionRe.MatchString(version) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%q is not a valid version", version)})
	}
	return errs
}

// ParseAndValidate reads a manifest candidate and returns nil when it
// cannot be read, is not UTF-8, does not decode, or — in strict mode —
// fails validation. In lenient mode a structurally valid manifest is
// returned even when validation reported errors; callers are not expected
// to re-validate.
func ParseAndValidate(fs fsys.Filesystem, path string, strict bool, log utils.Logger) *Manifest {
	content, err := fs.ReadFile(path)
	if err != nil {
		log.Debug("manifest: cannot read %q: %v", path, err)
		return nil
	}
	if !utf8.Valid(content) {
		log.Debug("manifest: %q is not valid UTF-8", path)
		return nil
	}

	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		log.Debug("manifest: %q does not decode: %v", path, err)
		return nil
	}

	if errs := m.Validate(); len(errs) > 0 {
		if strict {
			log.Debug("manifest: %q failed validation: %v", path, errs.Error())
			return nil
		}
		log.Warn("manifest: %q has validation problems: %v", path, errs.Error())
	}

	return &m
}
