package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID("not-an-id"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("zzzzzzzzzzzzzzzzzzzzzzzz"))
}

func TestPhoneNumberAcceptsStringAndNumber(t *testing.T) {
	var req CreateClientRequest
	require.NoError(t, json.Unmarshal([]byte(`{"phoneNumber": 123456789}`), &req))
	assert.Equal(t, PhoneNumber("123456789"), req.PhoneNumber)

	require.NoError(t, json.Unmarshal([]byte(`{"phoneNumber": "+55 11 9999"}`), &req))
	assert.Equal(t, PhoneNumber("+55 11 9999"), req.PhoneNumber)

	assert.Error(t, json.Unmarshal([]byte(`{"phoneNumber": true}`), &req))
}

func TestClientHasResetTicket(t *testing.T) {
	now := time.Now()
	token := "abc"
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Minute)

	c := &Client{}
	assert.False(t, c.HasResetTicket(now))

	c.ResetPasswordToken = &token
	assert.False(t, c.HasResetTicket(now), "token without expiry is not a ticket")

	c.ResetPasswordExpires = &later
	assert.True(t, c.HasResetTicket(now))

	c.ResetPasswordExpires = &earlier
	assert.False(t, c.HasResetTicket(now))
}

func TestClientJSONHidesSecrets(t *testing.T) {
	token := "secret-token"
	c := Client{ID: NewID(), Email: "a@x.com", PasswordHash: "$2a$10$hash", ResetPasswordToken: &token}

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
	assert.NotContains(t, string(out), "secret-token")
}
