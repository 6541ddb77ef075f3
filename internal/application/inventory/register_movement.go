package inventory

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
)

// Adaptadores request HTTP -> caso de uso. businessID y userID vienen del JWT.

// TransferFromRequest adapta dto.TransferStockRequest.
func (uc *LedgerUseCase) TransferFromRequest(ctx context.Context, businessID, userID, productID string, in dto.TransferStockRequest) (*dto.ProductResponse, error) {
	return uc.Transfer(ctx, TransferInput{
		Target:       Target{BusinessID: businessID, UserID: userID, ProductID: productID, ExpectedVersion: in.ExpectedVersion},
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		Quantity:     in.Quantity,
	})
}

// AddLocationFromRequest adapta dto.AddLocationRequest.
func (uc *LedgerUseCase) AddLocationFromRequest(ctx context.Context, businessID, userID, productID string, in dto.AddLocationRequest) (*dto.ProductResponse, error) {
	return uc.AddLocation(ctx, AddLocationInput{
		Target:   Target{BusinessID: businessID, UserID: userID, ProductID: productID, ExpectedVersion: in.ExpectedVersion},
		Location: in.Location,
		Quantity: in.Quantity,
	})
}

// ReceiveFromRequest adapta dto.ReceiveStockRequest.
func (uc *LedgerUseCase) ReceiveFromRequest(ctx context.Context, businessID, userID, productID string, in dto.ReceiveStockRequest) (*dto.ProductResponse, error) {
	return uc.Receive(ctx, ReceiveInput{
		Target:   Target{BusinessID: businessID, UserID: userID, ProductID: productID},
		Location: in.Location,
		Quantity: in.Quantity,
		UnitCost: in.UnitCost,
	})
}

// ReduceFromRequest adapta dto.ReduceStockRequest.
func (uc *LedgerUseCase) ReduceFromRequest(ctx context.Context, businessID, userID, productID string, in dto.ReduceStockRequest) (*dto.ProductResponse, error) {
	return uc.Reduce(ctx, ReduceInput{
		Target:   Target{BusinessID: businessID, UserID: userID, ProductID: productID, ExpectedVersion: in.ExpectedVersion},
		Quantity: in.Quantity,
	})
}
