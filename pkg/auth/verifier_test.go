package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsecureVerifier(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: userID.String() + ":dev@example.com"},
		{name: "missing email", token: userID.String() + ":", wantErr: true},
		{name: "no separator", token: userID.String(), wantErr: true},
		{name: "bad uuid", token: "nope:dev@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := InsecureVerifier{}.Verify(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, identity.UserID)
			assert.Equal(t, "dev@example.com", identity.Email)
		})
	}
}
