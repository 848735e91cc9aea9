package handlers

import (
	"testing"
)

func TestConfirmationKey(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantAction string
		wantUserID int64
		wantOK     bool
	}{
		{"confirm", "confirm:123456789", "confirm", 123456789, true},
		{"cancel", "cancel:42", "cancel", 42, true},
		{"no separator", "confirm", "", 0, false},
		{"empty id", "confirm:", "", 0, false},
		{"not a number", "confirm:bob", "", 0, false},
		{"trailing junk", "confirm:12:34", "", 0, false},
		{"empty data", "", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, userID, ok := confirmationKey(tt.data)
			if ok != tt.wantOK {
				t.Fatalf("confirmationKey(%q) ok = %v, want %v", tt.data, ok, tt.wantOK)
			}
			if action != tt.wantAction || userID != tt.wantUserID {
				t.Errorf("confirmationKey(%q) = (%q, %d), want (%q, %d)",
					tt.data, action, userID, tt.wantAction, tt.wantUserID)
			}
		})
	}
}

// The buttons must carry the ID of the user who was asked, and the callback
// side must read that same ID back, or anyone in a group chat could answer
// (or expire) someone else's confirmation.
func TestConfirmationButtonsCarryUser(t *testing.T) {
	markup := confirmationKeyboard(99)
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("keyboard has %d rows, want one row of two buttons", len(markup.InlineKeyboard))
	}

	wantActions := []string{"confirm", "cancel"}
	for i, btn := range markup.InlineKeyboard[0] {
		if btn.CallbackData == nil {
			t.Fatalf("button %d has no callback data", i)
		}
		action, userID, ok := confirmationKey(*btn.CallbackData)
		if !ok {
			t.Fatalf("button %d data %q does not parse", i, *btn.CallbackData)
		}
		if action != wantActions[i] {
			t.Errorf("button %d action = %q, want %q", i, action, wantActions[i])
		}
		if userID != 99 {
			t.Errorf("button %d user = %d, want 99", i, userID)
		}
	}
}
