package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestClient_CheckPairingInvariant(t *testing.T) {
	t.Parallel()

	therapistID := uuid.New()

	tests := []struct {
		name    string
		client  Client
		wantErr bool
	}{
		{"active unlinked", Client{Status: ClientStatusActive}, false},
		{"paired linked", Client{Status: ClientStatusPaired, TherapistID: &therapistID}, false},
		{"paired without link", Client{Status: ClientStatusPaired}, true},
		{"active with link", Client{Status: ClientStatusActive, TherapistID: &therapistID}, true},
		{"inactive with link", Client{Status: ClientStatusInactive, TherapistID: &therapistID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.client.CheckPairingInvariant()
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPairingInvariant() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTherapist_CheckPairingInvariant(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()

	tests := []struct {
		name      string
		therapist Therapist
		wantErr   bool
	}{
		{"unpaired unlinked", Therapist{}, false},
		{"paired linked", Therapist{IsPaired: true, ClientID: &clientID}, false},
		{"paired without link", Therapist{IsPaired: true}, true},
		{"unpaired with link", Therapist{ClientID: &clientID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.therapist.CheckPairingInvariant()
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPairingInvariant() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnums_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []ClientStatus{ClientStatusActive, ClientStatusPaired, ClientStatusInactive} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if ClientStatus("UNKNOWN").IsValid() {
		t.Error("UNKNOWN should not be a valid status")
	}

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.IsValid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Priority("URGENT").IsValid() {
		t.Error("URGENT should not be a valid priority")
	}
}
