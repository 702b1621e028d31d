package model

// SwiftRecord is the canonical validated SWIFT/BIC entity shared by the API
// service and the upload service. The record store keys on SwiftCode.
type SwiftRecord struct {
	SwiftCode     string `json:"swiftCode" db:"swift_code"`
	BankName      string `json:"bankName,omitempty" db:"bank_name"`
	Address       string `json:"address" db:"address"`
	CountryISO2   string `json:"countryISO2" db:"country_iso_code"`
	CountryName   string `json:"countryName" db:"country_name"`
	IsHeadquarter bool   `json:"isHeadquarter" db:"is_headquarter"`
}

// HeadquarterCode reports whether an already-normalized SWIFT code denotes a
// headquarter entity: 11 characters with the literal "XXX" branch suffix.
func HeadquarterCode(code string) bool {
	return len(code) == 11 && code[8:] == "XXX"
}
