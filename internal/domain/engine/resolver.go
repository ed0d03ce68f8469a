package engine

import "github.com/Victor-armando18/payload-mapper/internal/domain"

// ResolveCountry returns the first entry, in declaration order, whose country
// set contains the country.
func ResolveCountry(exprs []domain.CountryExpression, country string) (domain.CountryExpression, bool) {
	for _, ce := range exprs {
		if ce.Contains(country) {
			return ce, true
		}
	}
	return domain.CountryExpression{}, false
}
