package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnums(t *testing.T) {
	assert.True(t, IsBookingStatus(StatusPending))
	assert.True(t, IsBookingStatus(StatusDeclined))
	assert.False(t, IsBookingStatus("pending"))
	assert.False(t, IsBookingStatus(""))

	assert.True(t, IsUnitStatus(UnitMaintenance))
	assert.False(t, IsUnitStatus("Sold"))

	assert.True(t, IsRole(RoleTenant))
	assert.False(t, IsRole("root"))

	assert.True(t, IsSenderType(SenderAdmin))
	assert.False(t, IsSenderType("tenant"))
}

func TestSenderForRole(t *testing.T) {
	assert.Equal(t, SenderAdmin, SenderForRole(RoleAdmin))
	assert.Equal(t, SenderUser, SenderForRole(RoleTenant))
	assert.Equal(t, SenderUser, SenderForRole(RoleUser))
}

func TestUserRecipient(t *testing.T) {
	assert.Equal(t, "user:42", UserRecipient(42))
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, UnitPatch{}.Empty())
	name := "Unit 1"
	assert.False(t, UnitPatch{Name: &name}.Empty())

	assert.True(t, ProfilePatch{}.Empty())
	assert.False(t, ProfilePatch{ContactNumber: &name}.Empty())
}

func TestUserJSONHidesPassword(t *testing.T) {
	data, err := json.Marshal(User{ID: 1, FirstName: "Ana", PasswordHash: "secret"})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"firstName":"Ana"`)
}

func TestBookingViewJSON(t *testing.T) {
	view := BookingView{
		Booking:   Booking{ID: 3, MeetingDate: "2025-01-10", Status: StatusPending},
		UnitName:  "Unit 9",
		UnitPrice: 1000,
	}
	data, err := json.Marshal(view)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2025-01-10", out["meeting_date"])
	assert.Equal(t, "Unit 9", out["unit_name"])
	assert.Equal(t, 1000.0, out["price"])
	assert.Equal(t, "Pending", out["status"])
}

func TestDefaultFAQs(t *testing.T) {
	faqs := DefaultFAQs()
	require.Len(t, faqs, 6)
	for i, faq := range faqs {
		assert.Equal(t, i+1, faq.ID)
		assert.NotEmpty(t, faq.Question)
		assert.NotEmpty(t, faq.Answer)
	}
}
