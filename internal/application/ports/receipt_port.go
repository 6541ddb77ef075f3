package ports

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// ReceiptGenerator define el puerto de salida para el comprobante impreso de una venta.
// La aplicación solo conoce este contrato; el adaptador (Maroto) vive en infraestructura.
type ReceiptGenerator interface {
	// GenerateReceiptPDF devuelve los bytes del PDF del ticket de venta.
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, business *entity.Business) ([]byte, error)
}
