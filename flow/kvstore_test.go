package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"history.node1", "history.node1"},
		{"kv.session", "kv.session"},
		{"kv.user/alice", "kv.user_alice"},
		{"with space", "with_space"},
		{"mixed:Chars=ok-fine_1.2", "mixed_Chars=ok-fine_1.2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeKey(tt.in))
	}
}
