package di_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sectrean/injex"
)

func Test_Lifetime(t *testing.T) {
	tests := []struct {
		lifetime di.Lifetime
		want     string
		valid    bool
	}{
		{lifetime: di.Singleton, want: "Singleton", valid: true},
		{lifetime: di.Transient, want: "Transient", valid: true},
		{lifetime: di.Scoped, want: "Scoped", valid: true},
		{lifetime: di.Lifetime(3), want: "Lifetime(3)"},
		{lifetime: di.Lifetime(99), want: "Lifetime(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lifetime.String())
			assert.Equal(t, tt.valid, tt.lifetime.IsValid())
		})
	}
}
