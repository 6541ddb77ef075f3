// Package pdf genera el ticket de venta de punto de venta.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  HEADER: Negocio  │  Folio + Fecha         │
//	│  ───────────────────────────────────────  │
//	│  TABLA: Cant | Código | Descripción |      │
//	│         Precio | Subtotal                  │
//	│  ───────────────────────────────────────  │
//	│  TOTALES: Total / Pago / Cambio            │
//	│  FOOTER: QR con el folio                   │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-pos-api/internal/application/ports"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/pricing"
)

var _ ports.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa ports.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceiptPDF(_ context.Context, sale *entity.Sale, business *entity.Business) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Ticket de venta", true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, business))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(sale.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y folio + fecha (der).
func headerRow(sale *entity.Sale, business *entity.Business) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(business.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Ticket de venta", props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Folio "+shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea; bajo la descripción se indica el escalón de precio.
func tableDetailRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(9).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.TotalPieces),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				it.PieceCode,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(
				text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1}),
				text.New(pricing.Tier(it.PriceTier).Label(), props.Text{Size: 6, Top: 5, Left: 1, Color: colorGray}),
			),
			col.New(2).Add(text.New(
				"$"+formatMoney(it.AppliedPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: total, desglose del pago y cambio.
func totalsRow(sale *entity.Sale) core.Row {
	labels := []string{"Piezas:", "TOTAL:"}
	values := []string{fmt.Sprintf("%d", sale.TotalPieces), "$" + formatMoney(sale.TotalAmount)}
	if sale.Payment.CashAmount.IsPositive() {
		labels = append(labels, "Efectivo:")
		values = append(values, "$"+formatMoney(sale.Payment.CashAmount))
	}
	if sale.Payment.CardAmount.IsPositive() {
		labels = append(labels, "Tarjeta:")
		values = append(values, "$"+formatMoney(sale.Payment.CardAmount))
	}
	if sale.Change.IsPositive() {
		labels = append(labels, "Cambio:")
		values = append(values, "$"+formatMoney(sale.Change))
	}

	left := col.New(4)
	right := col.New(3)
	for i := range labels {
		top := float64(1 + 5*i)
		style := props.Text{Size: 8, Align: align.Right, Right: 2, Top: top, Style: fontstyle.Bold}
		value := props.Text{Size: 8, Align: align.Right, Right: 1, Top: top}
		if labels[i] == "TOTAL:" {
			style.Color, value.Color, value.Style = colorPrimary, colorPrimary, fontstyle.Bold
		}
		left.Add(text.New(labels[i], style))
		right.Add(text.New(values[i], value))
	}
	return row.New(float64(4 + 5*len(labels))).Add(
		col.New(5).Add(text.New("Pago: "+sale.PaymentMethod, props.Text{Size: 8, Top: 1, Color: colorGray})),
		left,
		right,
	)
}

// footerRow: QR con el folio completo para búsquedas y devoluciones.
func footerRow(sale *entity.Sale) core.Row {
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(sale.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Gracias por su compra", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 8, Left: 3, Color: colorPrimary,
			}),
			text.New("Folio: "+sale.ID, props.Text{Size: 6, Top: 16, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 1280 → "1,280.00", -5.5 → "-5.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
