package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() *CheckoutForm {
	form := NewCheckoutForm()
	form.Set(FieldEmail, "jane@example.com")
	form.Set(FieldFirstName, "Jane")
	form.Set(FieldLastName, "Doe")
	form.Set(FieldAddress, "1 Main St")
	form.Set(FieldCity, "Springfield")
	form.Set(FieldZipCode, "12345")
	form.Set(FieldCardNumber, "4242 4242 4242 4242")
	form.Set(FieldExpiryDate, "12/27")
	form.Set(FieldCVV, "123")
	return form
}

func TestCheckoutFormSet(t *testing.T) {
	form := NewCheckoutForm()

	assert.True(t, form.Set(FieldEmail, "a@b.co"))
	assert.Equal(t, "a@b.co", form.Get(FieldEmail))

	assert.False(t, form.Set("unknownField", "value"))
	assert.Empty(t, form.Get("unknownField"))
}

func TestCheckoutFormValidate(t *testing.T) {
	t.Run("valid form has no errors", func(t *testing.T) {
		assert.Empty(t, validForm().Validate())
	})

	t.Run("empty form reports every field", func(t *testing.T) {
		fieldErrors := NewCheckoutForm().Validate()

		for _, field := range []string{
			FieldEmail, FieldFirstName, FieldLastName, FieldAddress,
			FieldCity, FieldZipCode, FieldCardNumber, FieldExpiryDate, FieldCVV,
		} {
			assert.Contains(t, fieldErrors, field)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		form := validForm()
		form.Set(FieldEmail, "not-an-email")

		fieldErrors := form.Validate()
		require.Contains(t, fieldErrors, FieldEmail)
		assert.Len(t, fieldErrors, 1)
	})

	t.Run("card number accepts spaces and dashes", func(t *testing.T) {
		form := validForm()
		form.Set(FieldCardNumber, "4242-4242-4242-4242")

		assert.Empty(t, form.Validate())
	})

	t.Run("card number length bounds", func(t *testing.T) {
		form := validForm()

		form.Set(FieldCardNumber, "411111111111") // 12 цифр
		assert.Contains(t, form.Validate(), FieldCardNumber)

		form.Set(FieldCardNumber, "41111111111111111111") // 20 цифр
		assert.Contains(t, form.Validate(), FieldCardNumber)

		form.Set(FieldCardNumber, "4111111111111") // 13 цифр
		assert.Empty(t, form.Validate())
	})

	t.Run("expiry must be MM/YY", func(t *testing.T) {
		form := validForm()

		for _, bad := range []string{"13/25", "00/25", "1/25", "12/2025", "1225"} {
			form.Set(FieldExpiryDate, bad)
			assert.Contains(t, form.Validate(), FieldExpiryDate, "expiry %q must be rejected", bad)
		}

		form.Set(FieldExpiryDate, "01/30")
		assert.Empty(t, form.Validate())
	})

	t.Run("cvv is three or four digits", func(t *testing.T) {
		form := validForm()

		form.Set(FieldCVV, "12")
		assert.Contains(t, form.Validate(), FieldCVV)

		form.Set(FieldCVV, "12345")
		assert.Contains(t, form.Validate(), FieldCVV)

		form.Set(FieldCVV, "1234")
		assert.Empty(t, form.Validate())
	})
}

func TestNewCheckoutSession(t *testing.T) {
	items := []LineItem{lineItem("a", 129999, 1)}

	session := NewCheckoutSession("session-1", items, Price(items))

	assert.Equal(t, CheckoutFormEntry, session.State)
	assert.Equal(t, int64(0), session.Attempt)
	assert.Len(t, session.Items, 1)
	assert.False(t, session.State.IsTerminal())
}

func TestCheckoutStateIsTerminal(t *testing.T) {
	assert.True(t, CheckoutCompleted.IsTerminal())
	assert.False(t, CheckoutIdle.IsTerminal())
	assert.False(t, CheckoutFormEntry.IsTerminal())
	assert.False(t, CheckoutSubmitting.IsTerminal())
	assert.False(t, CheckoutFailed.IsTerminal())
}
