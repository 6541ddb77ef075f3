package sales

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// settlePayment aplica las reglas de cobro sobre el total de la venta y devuelve el pago y el cambio.
//   - Efectivo: cash por defecto es el total y debe cubrirlo; cambio = cash - total.
//   - Tarjeta: card por defecto es el total y debe ser exactamente el total.
//   - Mixto: cash + card = total, ambos mayores a cero.
func settlePayment(method string, in dto.PaymentRequest, total decimal.Decimal) (entity.PaymentDetails, decimal.Decimal, error) {
	cash := valueOr(in.CashAmount, decimal.Zero)
	card := valueOr(in.CardAmount, decimal.Zero)
	if cash.IsNegative() || card.IsNegative() {
		return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: los montos de pago no pueden ser negativos", domain.ErrInvalidInput)
	}

	switch method {
	case entity.PaymentEfectivo:
		cash = valueOr(in.CashAmount, total)
		if !card.IsZero() {
			return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: pago en efectivo no admite card_amount", domain.ErrInvalidInput)
		}
		if cash.LessThan(total) {
			return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: efectivo recibido %s menor al total %s", domain.ErrInvalidInput, cash, total)
		}
		return entity.PaymentDetails{CashAmount: cash, CardAmount: decimal.Zero, Reference: in.Reference}, cash.Sub(total), nil

	case entity.PaymentTarjeta:
		card = valueOr(in.CardAmount, total)
		if !cash.IsZero() {
			return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: pago con tarjeta no admite cash_amount", domain.ErrInvalidInput)
		}
		if !card.Equal(total) {
			return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: el cobro con tarjeta debe ser igual al total %s", domain.ErrInvalidInput, total)
		}
		return entity.PaymentDetails{CashAmount: decimal.Zero, CardAmount: card, Reference: in.Reference}, decimal.Zero, nil

	case entity.PaymentMixto:
		if !cash.IsPositive() || !card.IsPositive() {
			return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: pago mixto requiere cash_amount y card_amount mayores a cero", domain.ErrInvalidInput)
		}
		if !cash.Add(card).Equal(total) {
			return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: efectivo + tarjeta (%s) debe ser igual al total %s", domain.ErrInvalidInput, cash.Add(card), total)
		}
		return entity.PaymentDetails{CashAmount: cash, CardAmount: card, Reference: in.Reference}, decimal.Zero, nil
	}
	return entity.PaymentDetails{}, decimal.Zero, fmt.Errorf("%w: método de pago %q no soportado", domain.ErrInvalidInput, method)
}

func valueOr(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}
