package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

type productInput struct {
	Name  string `form:"name"  validate:"required,max=20"`
	Code  string `form:"code"  validate:"nullable,max=5"`
	Price string `form:"price" validate:"required,numeric,gte=0"`
	Cost  string `form:"cost"  validate:"nullable,numeric,gte=0"`
	Stock string `form:"stock" validate:"required,integer,gte=0"`
}

func TestValidProduct(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Rice 5kg", Price: "45000", Stock: "12"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{Name: "   "})
	for _, f := range []string{"name", "price", "stock"} {
		if _, ok := errs[f]; !ok {
			t.Errorf("expected %s to be required, got %v", f, errs)
		}
	}
	if _, ok := errs["cost"]; ok {
		t.Error("nullable cost should not be reported")
	}
}

func TestNumericRules(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "abc", Cost: "-1", Stock: "1.5"})
	if errs["price"] != "The price field must be a number." {
		t.Errorf("price: %q", errs["price"])
	}
	if errs["cost"] != "The cost must be greater than or equal to 0." {
		t.Errorf("cost: %q", errs["cost"])
	}
	if errs["stock"] != "The stock field must be an integer." {
		t.Errorf("stock: %q", errs["stock"])
	}
}

func TestMaxLength(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Code: "TOO-LONG", Price: "1", Stock: "1"})
	if errs["code"] != "The code must not exceed 5 characters." {
		t.Errorf("code: %q", errs["code"])
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=Pending|Paid"`
		Qty    int    `json:"qty"    validate:"min=1,max=10"`
	}
	if errs := validate.Struct(in{Status: "Paid", Qty: 3}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors: %v", errs)
	}
	errs := validate.Struct(in{Status: "Lost", Qty: 11})
	if errs["status"] != "The selected status is invalid." {
		t.Errorf("status: %q", errs["status"])
	}
	if errs["qty"] != "The qty must not be greater than 10." {
		t.Errorf("qty: %q", errs["qty"])
	}
}
