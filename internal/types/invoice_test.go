package types

import (
	"testing"
	"time"
)

func TestInvoiceStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{name: "draft to sent", from: InvoiceStatusDraft, to: InvoiceStatusSent, want: true},
		{name: "draft to paid", from: InvoiceStatusDraft, to: InvoiceStatusPaid, want: true},
		{name: "draft to overdue", from: InvoiceStatusDraft, to: InvoiceStatusOverdue, want: true},
		{name: "sent to paid", from: InvoiceStatusSent, to: InvoiceStatusPaid, want: true},
		{name: "sent to overdue", from: InvoiceStatusSent, to: InvoiceStatusOverdue, want: true},
		{name: "sent to draft", from: InvoiceStatusSent, to: InvoiceStatusDraft, want: false},
		{name: "overdue to paid", from: InvoiceStatusOverdue, to: InvoiceStatusPaid, want: true},
		{name: "overdue to sent", from: InvoiceStatusOverdue, to: InvoiceStatusSent, want: false},
		{name: "paid to sent", from: InvoiceStatusPaid, to: InvoiceStatusSent, want: false},
		{name: "paid to overdue", from: InvoiceStatusPaid, to: InvoiceStatusOverdue, want: false},
		{name: "paid to paid is idempotent", from: InvoiceStatusPaid, to: InvoiceStatusPaid, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestInvoiceStatusIsDeletable(t *testing.T) {
	for _, status := range []InvoiceStatus{InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusOverdue} {
		if !status.IsDeletable() {
			t.Errorf("expected %s to be deletable", status)
		}
	}
	if InvoiceStatusPaid.IsDeletable() {
		t.Error("paid invoices must not be deletable")
	}
}

func TestBillingPeriodKey(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "mid month",
			at:   time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
			want: "202503",
		},
		{
			name: "single digit month is zero padded",
			at:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "202501",
		},
		{
			name: "non UTC time is normalized",
			at:   time.Date(2025, 4, 1, 2, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			want: "202503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BillingPeriodKey(tt.at); got != tt.want {
				t.Errorf("BillingPeriodKey(%v) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}
