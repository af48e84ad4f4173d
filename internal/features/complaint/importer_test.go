package complaint

import "testing"

func TestTranslateLegacyStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"open", StatusPending},
		{"NEW", StatusPending},
		{"wip", StatusInProgress},
		{"  working  ", StatusInProgress},
		{"done", StatusResolved},
		{"fixed", StatusResolved},
		{"invalid", StatusRejected},
		{"archived", StatusClosed},
		{"closed", StatusClosed},
		{"something-else", StatusPending},
		{"", StatusPending},
	}

	for _, tt := range tests {
		if got := translateStatus(tt.input); got != tt.want {
			t.Errorf("translateStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTranslateLegacyCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"roads", CategoryRoad},
		{"Garbage", CategorySanitation},
		{"sewage", CategoryWater},
		{"streetlight", CategoryElectricity},
		{"POWER", CategoryElectricity},
		{"police", CategorySecurity},
		{"bus", CategoryTransport},
		{"water", CategoryWater},
		{"transport", CategoryTransport},
		// already a native value
		{"electricity", CategoryElectricity},
		// anything unknown lands in other
		{"zoning", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		if got := translateCategory(tt.input); got != tt.want {
			t.Errorf("translateCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
