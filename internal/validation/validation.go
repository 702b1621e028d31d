// Package validation is the single source of truth for SWIFT record
// normalization and business-rule checks. Every entry point (direct API
// creation, CSV ingestion, persistence adapters) validates through it.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mlukasik/swift-registry/internal/model"
)

// Error kinds. A *Error unwraps to one of these so callers can match with
// errors.Is without inspecting messages.
var (
	ErrInvalidFormat       = fmt.Errorf("invalid SWIFT/BIC code format")
	ErrInvalidCountryCode  = fmt.Errorf("invalid country ISO code")
	ErrHeadquarterMismatch = fmt.Errorf("headquarter flag inconsistent with SWIFT code")
)

var (
	// SWIFT/BIC code format: 4 letters (bank code) + 2 letters (country code)
	// + 2 alphanumeric (location code) + optional 3 alphanumeric (branch code)
	swiftCodeRegex = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)

	// ISO 3166-1 alpha-2 country code format: 2 uppercase letters
	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Error carries the failed field and the human-readable reason alongside the
// error kind.
type Error struct {
	Kind   error
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NormalizeCode trims and uppercases a SWIFT code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeCountry trims and uppercases an ISO2 country code.
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Normalize returns a copy of rec with the code and country fields trimmed
// and uppercased and the free-text fields trimmed. Normalizing an already
// normalized record is a no-op.
func Normalize(rec model.SwiftRecord) model.SwiftRecord {
	rec.SwiftCode = NormalizeCode(rec.SwiftCode)
	rec.CountryISO2 = NormalizeCountry(rec.CountryISO2)
	rec.CountryName = strings.TrimSpace(rec.CountryName)
	rec.Address = strings.TrimSpace(rec.Address)
	rec.BankName = strings.TrimSpace(rec.BankName)
	return rec
}

// CheckCode validates the format of an already-normalized SWIFT code.
func CheckCode(code string) error {
	if code == "" {
		return &Error{Kind: ErrInvalidFormat, Field: "swiftCode", Reason: "SWIFT code cannot be empty"}
	}
	if len(code) != 8 && len(code) != 11 {
		return &Error{Kind: ErrInvalidFormat, Field: "swiftCode", Reason: "SWIFT code must be either 8 or 11 characters long"}
	}
	if !swiftCodeRegex.MatchString(code) {
		return &Error{Kind: ErrInvalidFormat, Field: "swiftCode", Reason: fmt.Sprintf("invalid SWIFT code format: %s", code)}
	}
	return nil
}

// CheckCountry validates an already-normalized ISO2 country code.
func CheckCountry(code string) error {
	if code == "" {
		return &Error{Kind: ErrInvalidCountryCode, Field: "countryISO2", Reason: "country code cannot be empty"}
	}
	if len(code) != 2 {
		return &Error{Kind: ErrInvalidCountryCode, Field: "countryISO2", Reason: "country ISO code must be exactly 2 characters"}
	}
	if !countryCodeRegex.MatchString(code) {
		return &Error{Kind: ErrInvalidCountryCode, Field: "countryISO2", Reason: "country ISO code must contain only letters"}
	}
	return nil
}

// CheckHeadquarter enforces the cross-field rule: a code is a headquarter
// exactly when it is 11 characters long and ends with "XXX". Both mismatch
// directions fail, each with its own message.
func CheckHeadquarter(code string, isHeadquarter bool) error {
	if model.HeadquarterCode(code) {
		if !isHeadquarter {
			return &Error{Kind: ErrHeadquarterMismatch, Field: "isHeadquarter", Reason: "SWIFT codes ending with XXX must be headquarters"}
		}
		return nil
	}
	if isHeadquarter {
		return &Error{Kind: ErrHeadquarterMismatch, Field: "isHeadquarter", Reason: "only SWIFT codes ending with XXX can be headquarters"}
	}
	return nil
}

// Validate normalizes rec and runs every rule, including the headquarter
// cross-check against the caller-supplied flag. On success the normalized
// record is returned; on failure no record is returned.
func Validate(rec model.SwiftRecord) (model.SwiftRecord, error) {
	rec = Normalize(rec)
	if err := CheckCode(rec.SwiftCode); err != nil {
		return model.SwiftRecord{}, err
	}
	if err := CheckCountry(rec.CountryISO2); err != nil {
		return model.SwiftRecord{}, err
	}
	if rec.CountryName == "" {
		return model.SwiftRecord{}, &Error{Kind: ErrInvalidCountryCode, Field: "countryName", Reason: "country name cannot be empty"}
	}
	if err := CheckHeadquarter(rec.SwiftCode, rec.IsHeadquarter); err != nil {
		return model.SwiftRecord{}, err
	}
	return rec, nil
}
