package validator

import "testing"

type otpPayload struct {
	Code string `validate:"required,otpcode"`
}

type namePayload struct {
	FullName string `validate:"required,min=5,max=100,alphaspace"`
}

func TestOtpCodeRule(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	for _, code := range []string{"0000", "1234", "9999"} {
		if err := v.Validate(otpPayload{Code: code}); err != nil {
			t.Fatalf("code %q should pass: %v", code, err)
		}
	}

	for _, code := range []string{"", "123", "12345", "12a4", "１２３４", "-123"} {
		if err := v.Validate(otpPayload{Code: code}); err == nil {
			t.Fatalf("code %q should fail", code)
		}
	}
}

func TestAlphaSpaceRule(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if err := v.Validate(namePayload{FullName: "Jordan Example"}); err != nil {
		t.Fatalf("plain name should pass: %v", err)
	}

	for _, name := range []string{"Jo", "Jordan3 Example", "Jordan_Example"} {
		if err := v.Validate(namePayload{FullName: name}); err == nil {
			t.Fatalf("name %q should fail", name)
		}
	}
}

func TestValidationErrorFieldsAreSnakeCase(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(namePayload{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr V10ValidationError
	if !asValidationError(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %T", err)
	}
	if _, ok := verr.Values()["full_name"]; !ok {
		t.Fatalf("expected full_name key, got %v", verr.Values())
	}
}

func asValidationError(err error, target *V10ValidationError) bool {
	verr, ok := err.(V10ValidationError)
	if ok {
		*target = verr
	}
	return ok
}
