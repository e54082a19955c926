package contracts

// TemplateDataMapper assembles the normalized ContractData record from the
// persisted contract, promoter and party rows immediately before a backend
// is invoked.
type TemplateDataMapper struct{}

func NewTemplateDataMapper() *TemplateDataMapper {
	return &TemplateDataMapper{}
}

// Map flattens the row graph into a ContractData value. Optional columns
// (passport number, document image URLs, special terms) become empty strings.
func (m *TemplateDataMapper) Map(contract *Contract, promoter *Promoter, first, second *Party) ContractData {
	return ContractData{
		ContractID:     contract.ID.String(),
		ContractNumber: contract.Number,
		ContractType:   contract.Type,
		ContractDate:   contract.CreatedAt.Format(dateLayout),

		PromoterNameEN:         promoter.NameEN,
		PromoterNameAR:         promoter.NameAR,
		PromoterEmail:          promoter.Email,
		PromoterMobileNumber:   promoter.MobileNumber,
		PromoterIDCardNumber:   promoter.IDCardNumber,
		PromoterPassportNumber: deref(promoter.PassportNumber),
		PromoterIDCardURL:      deref(promoter.IDCardURL),
		PromoterPassportURL:    deref(promoter.PassportURL),

		FirstPartyNameEN: first.NameEN,
		FirstPartyNameAR: first.NameAR,
		FirstPartyCRN:    first.CRN,
		FirstPartyEmail:  first.Email,
		FirstPartyPhone:  first.Phone,

		SecondPartyNameEN: second.NameEN,
		SecondPartyNameAR: second.NameAR,
		SecondPartyCRN:    second.CRN,
		SecondPartyEmail:  second.Email,
		SecondPartyPhone:  second.Phone,

		JobTitle:          contract.JobTitle,
		Department:        contract.Department,
		WorkLocation:      contract.WorkLocation,
		BasicSalary:       contract.BasicSalary,
		Currency:          contract.Currency,
		ContractStartDate: contract.StartDate.Format(dateLayout),
		ContractEndDate:   contract.EndDate.Format(dateLayout),
		SpecialTerms:      deref(contract.SpecialTerms),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
