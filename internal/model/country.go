package model

// CountryMeta represents static per-country data from the directory service
type CountryMeta struct {
	Name       string
	Code       string // 2-letter cca2, empty when the directory has none
	Population int64
	Currency   *string
	Capital    *string
	Region     string
	FlagURL    string
}

// ID returns the stable option identifier: the country code, or the
// display name when no code is known.
func (m CountryMeta) ID() string {
	if m.Code != "" {
		return m.Code
	}
	return m.Name
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
