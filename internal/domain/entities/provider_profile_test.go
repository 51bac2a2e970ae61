package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMSISDN(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "0712345678", want: "254712345678"},
		{in: "+254712345678", want: "254712345678"},
		{in: "254712345678", want: "254712345678"},
		{in: " 0712 345-678 ", want: "254712345678"},
		{in: "0112345678", want: "254112345678"},
		{in: "", err: true},
		{in: "07123", err: true},
		{in: "07123abc78", err: true},
		{in: "+2547123456789012345", err: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeMSISDN(tc.in, "")
			if tc.err {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProviderProfile_PayoutMSISDN(t *testing.T) {
	_, err := ProviderProfile{UserID: "cleaner-1"}.PayoutMSISDN("254")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	got, err := ProviderProfile{UserID: "cleaner-1", MpesaPhoneNumber: "0798765432"}.PayoutMSISDN("255")
	assert.NoError(t, err)
	assert.Equal(t, "255798765432", got)
}

func TestActor(t *testing.T) {
	b := Booking{ClientID: "client-1", ProviderID: "cleaner-1"}
	assert.True(t, Actor{ID: "client-1", Role: RoleClient}.OwnsAsClient(b))
	assert.False(t, Actor{ID: "client-1", Role: RoleCleaner}.OwnsAsClient(b))
	assert.True(t, Actor{ID: "cleaner-1", Role: RoleCleaner}.AssignedProvider(b))
	assert.False(t, Actor{ID: "", Role: RoleCleaner}.AssignedProvider(Booking{}))
	assert.True(t, Actor{ID: "x", Role: RoleAdmin}.IsAdmin())
}
