package contracts

// Placeholder tokens embedded in contract templates. The set must match
// template authoring bit-exactly; every backend substitutes from the same map.
const (
	TokenContractNumber         = "{{contract_number}}"
	TokenContractDate           = "{{contract_date}}"
	TokenContractType           = "{{contract_type}}"
	TokenPromoterNameEN         = "{{promoter_name_en}}"
	TokenPromoterNameAR         = "{{promoter_name_ar}}"
	TokenPromoterEmail          = "{{promoter_email}}"
	TokenPromoterMobileNumber   = "{{promoter_mobile_number}}"
	TokenPromoterIDCardNumber   = "{{promoter_id_card_number}}"
	TokenPromoterPassportNumber = "{{promoter_passport_number}}"
	TokenFirstPartyNameEN       = "{{first_party_name_en}}"
	TokenFirstPartyNameAR       = "{{first_party_name_ar}}"
	TokenFirstPartyCRN          = "{{first_party_crn}}"
	TokenFirstPartyEmail        = "{{first_party_email}}"
	TokenFirstPartyPhone        = "{{first_party_phone}}"
	TokenSecondPartyNameEN      = "{{second_party_name_en}}"
	TokenSecondPartyNameAR      = "{{second_party_name_ar}}"
	TokenSecondPartyCRN         = "{{second_party_crn}}"
	TokenSecondPartyEmail       = "{{second_party_email}}"
	TokenSecondPartyPhone       = "{{second_party_phone}}"
	TokenJobTitle               = "{{job_title}}"
	TokenDepartment             = "{{department}}"
	TokenWorkLocation           = "{{work_location}}"
	TokenBasicSalary            = "{{basic_salary}}"
	TokenContractStartDate      = "{{contract_start_date}}"
	TokenContractEndDate        = "{{contract_end_date}}"
	TokenSpecialTerms           = "{{special_terms}}"
	TokenCurrency               = "{{currency}}"

	TokenPromoterIDCardImage   = "{{promoter_id_card_image}}"
	TokenPromoterPassportImage = "{{promoter_passport_image}}"
)

// ImageTokens lists the placeholder tokens that mark inline image anchors.
// Image substitution is best-effort: a token missing from a template is
// skipped, never a generation failure.
func ImageTokens() []string {
	return []string{TokenPromoterIDCardImage, TokenPromoterPassportImage}
}

// Replacements maps every text placeholder token to its value for the given
// contract data. Absent optional fields map to the empty string so templates
// never keep a dangling token.
func Replacements(d ContractData) map[string]string {
	return map[string]string{
		TokenContractNumber:         d.ContractNumber,
		TokenContractDate:           d.ContractDate,
		TokenContractType:           d.ContractType,
		TokenPromoterNameEN:         d.PromoterNameEN,
		TokenPromoterNameAR:         d.PromoterNameAR,
		TokenPromoterEmail:          d.PromoterEmail,
		TokenPromoterMobileNumber:   d.PromoterMobileNumber,
		TokenPromoterIDCardNumber:   d.PromoterIDCardNumber,
		TokenPromoterPassportNumber: d.PromoterPassportNumber,
		TokenFirstPartyNameEN:       d.FirstPartyNameEN,
		TokenFirstPartyNameAR:       d.FirstPartyNameAR,
		TokenFirstPartyCRN:          d.FirstPartyCRN,
		TokenFirstPartyEmail:        d.FirstPartyEmail,
		TokenFirstPartyPhone:        d.FirstPartyPhone,
		TokenSecondPartyNameEN:      d.SecondPartyNameEN,
		TokenSecondPartyNameAR:      d.SecondPartyNameAR,
		TokenSecondPartyCRN:         d.SecondPartyCRN,
		TokenSecondPartyEmail:       d.SecondPartyEmail,
		TokenSecondPartyPhone:       d.SecondPartyPhone,
		TokenJobTitle:               d.JobTitle,
		TokenDepartment:             d.Department,
		TokenWorkLocation:           d.WorkLocation,
		TokenBasicSalary:            d.FormattedSalary(),
		TokenContractStartDate:      d.ContractStartDate,
		TokenContractEndDate:        d.ContractEndDate,
		TokenSpecialTerms:           d.SpecialTerms,
		TokenCurrency:               d.Currency,
	}
}

// ImageURL returns the source image URL for an image token, or "" when the
// contract data has no document image for it.
func ImageURL(d ContractData, token string) string {
	switch token {
	case TokenPromoterIDCardImage:
		return d.PromoterIDCardURL
	case TokenPromoterPassportImage:
		return d.PromoterPassportURL
	default:
		return ""
	}
}
