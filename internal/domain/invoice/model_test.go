package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/types"
)

func validInvoice() *Invoice {
	return &Invoice{
		TenantID:      1,
		InvoiceNumber: "ACM-202503-0001",
		Currency:      "USD",
		TaxRate:       decimal.NewFromInt(10),
		TotalAmount:   decimal.NewFromInt(110),
		TaxAmount:     decimal.NewFromInt(10),
		NetAmount:     decimal.NewFromInt(100),
		InvoiceStatus: types.InvoiceStatusDraft,
		InvoiceType:   types.InvoiceTypeSubscription,
		LineItems: []*LineItem{
			{
				Description: "Subscription fee",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(50),
				TotalPrice:  decimal.NewFromInt(100),
				TaxRate:     decimal.NewFromInt(10),
				TaxAmount:   decimal.NewFromInt(10),
				NetAmount:   decimal.NewFromInt(100),
			},
		},
	}
}

func TestInvoiceValidate(t *testing.T) {
	t.Run("valid invoice", func(t *testing.T) {
		if err := validInvoice().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("amounts within rounding tolerance", func(t *testing.T) {
		inv := validInvoice()
		inv.TotalAmount = decimal.NewFromFloat(110.009)
		if err := inv.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("amounts do not add up", func(t *testing.T) {
		inv := validInvoice()
		inv.TotalAmount = decimal.NewFromInt(120)
		if err := inv.Validate(); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("negative total", func(t *testing.T) {
		inv := validInvoice()
		inv.TotalAmount = decimal.NewFromInt(-1)
		if err := inv.Validate(); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("unknown invoice type", func(t *testing.T) {
		inv := validInvoice()
		inv.InvoiceType = "consulting"
		if err := inv.Validate(); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("line item total mismatch", func(t *testing.T) {
		inv := validInvoice()
		inv.LineItems[0].TotalPrice = decimal.NewFromInt(75)
		if err := inv.Validate(); err == nil {
			t.Fatal("expected validation error")
		}
	})
}
