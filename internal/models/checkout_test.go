package models

import (
	"testing"
	"time"
)

func TestCheckoutSession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		session CheckoutSession
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid vietqr session",
			session: CheckoutSession{
				CheckoutID: "chk-1",
				OrderID:    "ORD-20250101-000001",
				Amount:     900000,
				Provider:   ProviderVietQR,
				QRImageURL: "https://img.vietqr.io/chk-1.png",
			},
			wantErr: false,
		},
		{
			name: "valid momo session",
			session: CheckoutSession{
				CheckoutID: "chk-2",
				OrderID:    "ORD-20250101-000002",
				Amount:     1000000,
				Provider:   ProviderMomo,
				PayURL:     "https://payment.momo.vn/pay/chk-2",
			},
			wantErr: false,
		},
		{
			name: "missing checkout id",
			session: CheckoutSession{
				OrderID:  "ORD-20250101-000003",
				Amount:   100,
				Provider: ProviderMomo,
				PayURL:   "https://payment.momo.vn/pay/x",
			},
			wantErr: true,
			errMsg:  "checkout id is required",
		},
		{
			name: "momo without pay url",
			session: CheckoutSession{
				CheckoutID: "chk-4",
				OrderID:    "ORD-20250101-000004",
				Amount:     100,
				Provider:   ProviderMomo,
			},
			wantErr: true,
			errMsg:  "pay url is required for momo sessions",
		},
		{
			name: "vietqr without qr image",
			session: CheckoutSession{
				CheckoutID: "chk-5",
				OrderID:    "ORD-20250101-000005",
				Amount:     100,
				Provider:   ProviderVietQR,
			},
			wantErr: true,
			errMsg:  "qr image url is required for vietqr sessions",
		},
		{
			name: "unknown provider",
			session: CheckoutSession{
				CheckoutID: "chk-6",
				OrderID:    "ORD-20250101-000006",
				Amount:     100,
				Provider:   "paypal",
			},
			wantErr: true,
			errMsg:  "unknown payment provider",
		},
		{
			name: "non-positive amount",
			session: CheckoutSession{
				CheckoutID: "chk-7",
				OrderID:    "ORD-20250101-000007",
				Amount:     0,
				Provider:   ProviderVietQR,
				QRImageURL: "https://img.vietqr.io/chk-7.png",
			},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckoutSession_Expired(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := CheckoutSession{CreatedAt: created}

	if s.Expired(created.Add(14 * time.Minute)) {
		t.Error("session should still be payable inside the window")
	}
	if !s.Expired(created.Add(ConfirmationWindow + time.Second)) {
		t.Error("session should be expired past the window")
	}
	if got, want := s.Deadline(), created.Add(ConfirmationWindow); !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}
