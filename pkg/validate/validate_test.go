package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/storefront/pkg/validate"
)

type signupInput struct {
	Username string  `json:"username" validate:"required,alpha_dash,min=3,max=60"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role"     validate:"nullable,in=customer,admin"`
	Website  string  `json:"website"  validate:"nullable,url"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(signupInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "secret123",
		Role:     "admin",
		Discount: 12.5,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{Username: "   "})
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if got := errs["email"]; got != "The email field is required." {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if _, ok := validate.Struct(in{Email: "not-an-email"})["email"]; !ok {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Price    float64 `json:"price"    validate:"gt=0"`
		Quantity int     `json:"quantity" validate:"required,gt=0,max=1000"`
	}
	errs := validate.Struct(in{Price: 0, Quantity: 1001})
	if errs["price"] != "The price must be greater than 0." {
		t.Errorf("price: %q", errs["price"])
	}
	if errs["quantity"] != "The quantity must not be greater than 1000." {
		t.Errorf("quantity: %q", errs["quantity"])
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,shipped,delivered,max=20"`
	}
	if errs := validate.Struct(in{Status: "shipped"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
	if _, ok := validate.Struct(in{Status: "lost"})["status"]; !ok {
		t.Error("expected status to be rejected")
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		HexCode string `json:"hexCode" validate:"nullable,hexcolor"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("empty nullable field should pass: %v", errs)
	}
	if _, ok := validate.Struct(in{HexCode: "red"})["hexCode"]; !ok {
		t.Error("expected hexcolor error")
	}
	if errs := validate.Struct(in{HexCode: "#1a2B3c"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestNilPointerOnlyFailsRequired(t *testing.T) {
	type in struct {
		Quantity    *int `json:"quantity"    validate:"gte=0"`
		NewQuantity *int `json:"newQuantity" validate:"required,gte=0"`
	}
	errs := validate.Struct(in{})
	if _, ok := errs["quantity"]; ok {
		t.Error("nil optional pointer should pass")
	}
	if _, ok := errs["newQuantity"]; !ok {
		t.Error("nil required pointer should fail")
	}

	neg := -1
	if _, ok := validate.Struct(in{Quantity: &neg})["quantity"]; !ok {
		t.Error("expected -1 to be rejected")
	}
}

func TestDiveKeysChildErrors(t *testing.T) {
	type line struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity"  validate:"required,gt=0"`
	}
	type order struct {
		Items []line `json:"items" validate:"required,min=1,dive"`
	}

	errs := validate.Struct(order{Items: []line{{ProductID: "p1", Quantity: 1}, {Quantity: -2}}})
	if _, ok := errs["items.1.productId"]; !ok {
		t.Errorf("expected items.1.productId, got %v", errs)
	}
	if _, ok := errs["items.1.quantity"]; !ok {
		t.Errorf("expected items.1.quantity, got %v", errs)
	}
	if _, ok := errs["items.0.quantity"]; ok {
		t.Error("first line is valid")
	}

	if got := validate.Struct(order{})["items"]; got != "The items field is required." {
		t.Errorf("items: %q", got)
	}
}

func TestURLRule(t *testing.T) {
	type in struct {
		Site string `json:"site" validate:"url"`
	}
	if errs := validate.Struct(in{Site: "https://shop.example.com"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
	if _, ok := validate.Struct(in{Site: "ftp://example.com"})["site"]; !ok {
		t.Error("expected ftp URL to be rejected")
	}
}

func TestUUIDRule(t *testing.T) {
	type in struct {
		ID string `json:"id" validate:"uuid"`
	}
	if errs := validate.Struct(in{ID: "3f1c4f9e-8a51-4c1a-9a57-1b2f0c9d7e11"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
	if _, ok := validate.Struct(in{ID: "42"})["id"]; !ok {
		t.Error("expected uuid error")
	}
}

func TestAlphaDashRule(t *testing.T) {
	type in struct {
		Username string `json:"username" validate:"alpha_dash"`
	}
	if errs := validate.Struct(in{Username: "jane-doe_2"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
	if _, ok := validate.Struct(in{Username: "jane doe"})["username"]; !ok {
		t.Error("expected alpha_dash error")
	}
}
