package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodgram/internal/domain/user"
)

func TestCanMutate(t *testing.T) {
	rec := &Recipe{ID: 1, AuthorID: 10}

	tests := []struct {
		name     string
		identity *user.User
		want     bool
	}{
		{"anonymous", nil, false},
		{"author", &user.User{ID: 10, Role: user.RoleUser}, true},
		{"other user", &user.User{ID: 11, Role: user.RoleUser}, false},
		{"admin role", &user.User{ID: 11, Role: user.RoleAdmin}, true},
		{"superuser with ordinary role", &user.User{ID: 11, Role: user.RoleUser, IsSuperuser: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.identity, rec))
		})
	}
}

func TestCanReadIsUnrestricted(t *testing.T) {
	rec := &Recipe{ID: 1, AuthorID: 10}

	assert.True(t, CanRead(nil, rec))
	assert.True(t, CanRead(&user.User{ID: 99}, rec))
}
