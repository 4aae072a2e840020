package usecase

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

// CreateOrderInput is the request shape for CreateOrder.
type CreateOrderInput struct {
	BudgetCodeID int64              `json:"budget_code_id" validate:"required,gt=0"`
	Amount       decimal.Decimal    `json:"amount" validate:"gt=0"`
	Currency     string             `json:"currency" validate:"required,len=3,alpha"`
	Product      string             `json:"product" validate:"required,max=255"`
	Quantity     int                `json:"quantity" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal    `json:"unit_price" validate:"gte=0"`
	Supplier     *string            `json:"supplier" validate:"omitempty,max=255"`
	DeliveryDate *time.Time         `json:"delivery_date"`
	Priority     model.Priority     `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Status       *model.OrderStatus `json:"status"`
}

// UpdateOrderInput is the request shape for UpdateOrder. Status is not editable here.
type UpdateOrderInput struct {
	BudgetCodeID int64           `json:"budget_code_id" validate:"required,gt=0"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency     string          `json:"currency" validate:"required,len=3,alpha"`
	Product      string          `json:"product" validate:"required,max=255"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Supplier     *string         `json:"supplier" validate:"omitempty,max=255"`
	DeliveryDate *time.Time      `json:"delivery_date"`
	Priority     model.Priority  `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

func (in CreateOrderInput) fields() model.OrderFields {
	return orderFields(UpdateOrderInput{
		BudgetCodeID: in.BudgetCodeID,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Product:      in.Product,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Supplier:     in.Supplier,
		DeliveryDate: in.DeliveryDate,
		Priority:     in.Priority,
	})
}

func orderFields(in UpdateOrderInput) model.OrderFields {
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	return model.OrderFields{
		BudgetCodeID: in.BudgetCodeID,
		Amount:       in.Amount,
		Currency:     strings.ToUpper(in.Currency),
		Product:      strings.TrimSpace(in.Product),
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Supplier:     in.Supplier,
		DeliveryDate: in.DeliveryDate,
		Priority:     priority,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// amounts are compared as numbers
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(UpdateOrderInput)
		checkMoneyScale(sl, in.Amount, in.UnitPrice)
	}, UpdateOrderInput{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(CreateOrderInput)
		checkMoneyScale(sl, in.Amount, in.UnitPrice)
	}, CreateOrderInput{})
	return v
}

// moneyScale is the number of fractional digits a stored amount keeps.
const moneyScale = 2

func checkMoneyScale(sl validator.StructLevel, amount, unitPrice decimal.Decimal) {
	param := strconv.Itoa(moneyScale)
	if !amount.Equal(amount.Truncate(moneyScale)) {
		sl.ReportError(amount, "amount", "Amount", "scale", param)
	}
	if !unitPrice.Equal(unitPrice.Truncate(moneyScale)) {
		sl.ReportError(unitPrice, "unit_price", "UnitPrice", "scale", param)
	}
}

// validateInput runs struct rules and reports offending fields as ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domainErrors.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		out.Fields[fe.Field()] = reason
	}
	return out
}
