package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validContractData() ContractData {
	return ContractData{
		ContractID:           "4f1c2a3e-0000-0000-0000-000000000001",
		ContractNumber:       "CN-2026-001",
		ContractType:         "employment",
		ContractDate:         "2026-01-15",
		PromoterNameEN:       "Jane Doe",
		PromoterNameAR:       "جين دو",
		PromoterEmail:        "jane@example.com",
		PromoterMobileNumber: "+97455512345",
		PromoterIDCardNumber: "28012345678",
		FirstPartyNameEN:     "Falcon Trading LLC",
		FirstPartyNameAR:     "شركة الصقر",
		FirstPartyCRN:        "CR-100200",
		SecondPartyNameEN:    "Desert Services WLL",
		SecondPartyNameAR:    "شركة الصحراء",
		SecondPartyCRN:       "CR-300400",
		JobTitle:             "Sales Promoter",
		Department:           "Retail",
		WorkLocation:         "Doha",
		BasicSalary:          4500.5,
		Currency:             "QAR",
		ContractStartDate:    "2026-02-01",
		ContractEndDate:      "2028-01-31",
	}
}

func TestContractDataValidate(t *testing.T) {
	t.Run("valid data passes", func(t *testing.T) {
		assert.NoError(t, validContractData().Validate())
	})

	t.Run("missing contract id", func(t *testing.T) {
		d := validContractData()
		d.ContractID = ""
		assert.Error(t, d.Validate())
	})

	t.Run("missing contract number", func(t *testing.T) {
		d := validContractData()
		d.ContractNumber = ""
		assert.Error(t, d.Validate())
	})

	t.Run("missing promoter name", func(t *testing.T) {
		d := validContractData()
		d.PromoterNameEN = ""
		assert.Error(t, d.Validate())
	})

	t.Run("negative salary", func(t *testing.T) {
		d := validContractData()
		d.BasicSalary = -1
		assert.Error(t, d.Validate())
	})

	t.Run("zero salary allowed", func(t *testing.T) {
		d := validContractData()
		d.BasicSalary = 0
		assert.NoError(t, d.Validate())
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		d := validContractData()
		d.ContractStartDate = "01/02/2026"
		assert.Error(t, d.Validate())
	})

	t.Run("empty dates allowed", func(t *testing.T) {
		d := validContractData()
		d.ContractDate = ""
		d.ContractEndDate = ""
		assert.NoError(t, d.Validate())
	})
}

func TestFormattedSalary(t *testing.T) {
	d := validContractData()
	assert.Equal(t, "4500.50", d.FormattedSalary())

	d.BasicSalary = 3000
	assert.Equal(t, "3000.00", d.FormattedSalary())

	d.BasicSalary = 0
	assert.Equal(t, "0.00", d.FormattedSalary())
}
