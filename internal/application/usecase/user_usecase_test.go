package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/infrastructure/memory"
)

const (
	bizUUID   = "11111111-1111-1111-1111-111111111111"
	otherUUID = "22222222-2222-2222-2222-222222222222"
)

func str(s string) *string { return &s }

func seedUsers(t *testing.T) (*usecase.UserUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()
	require.NoError(t, store.Businesses().Create(ctx, &entity.Business{ID: bizUUID, Name: "Uno", Status: "active", CreatedAt: now}))
	require.NoError(t, store.Businesses().Create(ctx, &entity.Business{ID: otherUUID, Name: "Dos", Status: "active", CreatedAt: now}))
	for _, u := range []*entity.User{
		{ID: "root", Username: "root", Email: "root@x", Role: entity.RoleSuperAdmin, Status: entity.UserStatusActive},
		{ID: "admin", Username: "admin", Email: "admin@x", Role: entity.RoleAdmin, BusinessID: bizUUID, Status: entity.UserStatusActive},
		{ID: "vend", Username: "vend", Email: "vend@x", Role: entity.RoleVendedor, BusinessID: bizUUID, Status: entity.UserStatusActive},
		{ID: "nuevo", Username: "nuevo", Email: "nuevo@x", Role: entity.RoleVendedor, Status: entity.UserStatusActive},
		{ID: "ajeno", Username: "ajeno", Email: "ajeno@x", Role: entity.RoleVendedor, BusinessID: otherUUID, Status: entity.UserStatusActive},
	} {
		u.CreatedAt = now
		require.NoError(t, store.Users().Create(ctx, u))
	}
	return usecase.NewUserUseCase(store.Users(), store.Businesses()), store
}

var (
	superAdmin = usecase.Actor{UserID: "root", Role: entity.RoleSuperAdmin}
	admin      = usecase.Actor{UserID: "admin", Role: entity.RoleAdmin, BusinessID: bizUUID}
)

func TestUserList_AdminSoloSuNegocio(t *testing.T) {
	uc, _ := seedUsers(t)
	ctx := context.Background()

	out, err := uc.List(ctx, admin, otherUUID, dto.PageRequest{})
	require.NoError(t, err)
	for _, u := range out.Items {
		assert.Equal(t, bizUUID, u.BusinessID)
	}
	assert.Len(t, out.Items, 2)

	all, err := uc.List(ctx, superAdmin, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
}

func TestUserGet_Visibilidad(t *testing.T) {
	uc, _ := seedUsers(t)
	ctx := context.Background()

	_, err := uc.GetByID(ctx, admin, "nuevo")
	assert.NoError(t, err)
	_, err = uc.GetByID(ctx, admin, "ajeno")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetByID(ctx, admin, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	me, err := uc.Me(ctx, "vend")
	require.NoError(t, err)
	assert.Equal(t, "vend", me.Username)
}

func TestUserUpdate_AsignacionPorAdmin(t *testing.T) {
	uc, _ := seedUsers(t)
	ctx := context.Background()

	res, err := uc.Update(ctx, admin, "nuevo", dto.UpdateUserRequest{
		Role:       str(entity.RoleComprador),
		Location:   str(" sucursal norte "),
		BusinessID: str(bizUUID),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleComprador, res.Role)
	assert.Equal(t, "SUCURSAL NORTE", res.Location)
	assert.Equal(t, bizUUID, res.BusinessID)

	_, err = uc.Update(ctx, admin, "vend", dto.UpdateUserRequest{BusinessID: str(otherUUID)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, admin, "vend", dto.UpdateUserRequest{Role: str(entity.RoleSistemas)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, admin, "vend", dto.UpdateUserRequest{Role: str(entity.RoleSuperAdmin)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, admin, "admin", dto.UpdateUserRequest{Status: str(entity.UserStatusInactive)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserUpdate_SuperAdmin(t *testing.T) {
	uc, _ := seedUsers(t)
	ctx := context.Background()

	res, err := uc.Update(ctx, superAdmin, "ajeno", dto.UpdateUserRequest{
		Role:   str(entity.RoleSistemas),
		Status: str(entity.UserStatusInactive),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSistemas, res.Role)
	assert.Equal(t, entity.UserStatusInactive, res.Status)

	_, err = uc.Update(ctx, superAdmin, "vend", dto.UpdateUserRequest{BusinessID: str("33333333-3333-3333-3333-333333333333")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(ctx, superAdmin, "vend", dto.UpdateUserRequest{Role: str("Gerente")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBusinessUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewBusinessUseCase(store.Businesses())
	ctx := context.Background()

	b, err := uc.Create(ctx, dto.CreateBusinessRequest{Name: "  Papelería Sol "})
	require.NoError(t, err)
	assert.Equal(t, "Papelería Sol", b.Name)
	assert.Equal(t, "active", b.Status)

	got, err := uc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateBusinessRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
