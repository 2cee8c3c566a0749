package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x@sub.domain.io"}
	for _, e := range valid {
		require.True(t, ValidEmail(e), e)
	}

	invalid := []string{"", "a@b", "a.com", "@b.com", "a @b.co", "a@ b.co"}
	for _, e := range invalid {
		require.False(t, ValidEmail(e), e)
	}
}
