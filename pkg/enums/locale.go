package enums

// Locale enumerates the storefront display languages.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"
)

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// IsValid reports whether the locale is recognized.
func (l Locale) IsValid() bool {
	return l == LocaleEnglish || l == LocaleArabic
}
