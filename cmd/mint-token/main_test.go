package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		refresh string
		ttl     time.Duration
		wantErr bool
	}{
		{name: "valid", userID: "user-1", ttl: time.Hour},
		{name: "email style id", userID: "ada@helm.dev", ttl: time.Hour},
		{name: "empty id", userID: "  ", ttl: time.Hour, wantErr: true},
		{name: "id with spaces", userID: "user 1", ttl: time.Hour, wantErr: true},
		{name: "zero ttl", userID: "user-1", ttl: 0, wantErr: true},
		{name: "ttl too long", userID: "user-1", ttl: 365 * 24 * time.Hour, wantErr: true},
		{name: "refresh without user id", refresh: "eyJ.token", ttl: time.Hour},
		{name: "refresh with user id", userID: "user-1", refresh: "eyJ.token", ttl: time.Hour, wantErr: true},
		{name: "refresh with bad ttl", refresh: "eyJ.token", ttl: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputs(tt.userID, tt.refresh, tt.ttl)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSplitRoles(t *testing.T) {
	assert.Equal(t, []string{"member", "admin"}, splitRoles(" member, admin ,,"))
	assert.Nil(t, splitRoles(""))
}
