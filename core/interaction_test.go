package core

import "testing"

func TestInteractionValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Interaction
		wantErr bool
	}{
		{
			name: "valid view",
			in:   Interaction{UserID: "u1", ItemID: "i1", Type: InteractionView},
		},
		{
			name: "valid rating",
			in:   Interaction{UserID: "u1", ItemID: "i1", Type: InteractionRating, Rating: 5},
		},
		{
			name:    "missing user",
			in:      Interaction{ItemID: "i1", Type: InteractionView},
			wantErr: true,
		},
		{
			name:    "missing item",
			in:      Interaction{UserID: "u1", Type: InteractionView},
			wantErr: true,
		},
		{
			name:    "unknown type",
			in:      Interaction{UserID: "u1", ItemID: "i1", Type: "teleport"},
			wantErr: true,
		},
		{
			name:    "rating too low",
			in:      Interaction{UserID: "u1", ItemID: "i1", Type: InteractionRating, Rating: 0},
			wantErr: true,
		},
		{
			name:    "rating too high",
			in:      Interaction{UserID: "u1", ItemID: "i1", Type: InteractionRating, Rating: 6},
			wantErr: true,
		},
		{
			name: "rating field ignored for non-rating types",
			in:   Interaction{UserID: "u1", ItemID: "i1", Type: InteractionOrder, Rating: 99},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Validate() should return a validation error, got %v", err)
			}
		})
	}
}
