package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/retail-pos-api/internal/application/auth"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// Actor usuario autenticado que ejecuta la operación (tomado del JWT).
type Actor struct {
	UserID     string
	Role       string
	BusinessID string
}

// UserUseCase administración de usuarios: consulta y asignación de rol, ubicación, negocio y estado.
type UserUseCase struct {
	repo         repository.UserRepository
	businessRepo repository.BusinessRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, businessRepo repository.BusinessRepository) *UserUseCase {
	return &UserUseCase{repo: repo, businessRepo: businessRepo}
}

// Me devuelve el usuario autenticado.
func (uc *UserUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// GetByID obtiene un usuario. Un Administrador solo ve usuarios de su negocio o sin negocio.
func (uc *UserUseCase) GetByID(ctx context.Context, actor Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !canSee(actor, user) {
		return nil, domain.ErrForbidden
	}
	return auth.ToUserResponse(user), nil
}

// List lista usuarios. Administrador: solo su negocio. Super Administrador/Sistemas: todos o el negocio pedido.
func (uc *UserUseCase) List(ctx context.Context, actor Actor, businessID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	if actor.Role == entity.RoleAdmin {
		if err := RequireBusiness(actor.BusinessID); err != nil {
			return nil, err
		}
		businessID = actor.BusinessID
	}
	list, err := uc.repo.List(ctx, businessID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica cambios administrativos sobre un usuario.
// Solo un Super Administrador otorga Super Administrador; un Administrador tampoco otorga Sistemas
// ni mueve usuarios a otro negocio. Nadie cambia su propio rol ni su estado.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !canSee(actor, user) || !canManage(actor, user) {
		return nil, domain.ErrForbidden
	}
	if actor.UserID == user.ID && (in.Role != nil || in.Status != nil) {
		return nil, fmt.Errorf("%w: no puede cambiar su propio rol o estado", domain.ErrForbidden)
	}

	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		if !canGrant(actor.Role, *in.Role) {
			return nil, fmt.Errorf("%w: no puede otorgar el rol %s", domain.ErrForbidden, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Location != nil {
		user.Location = strings.ToUpper(strings.TrimSpace(*in.Location))
	}
	if in.BusinessID != nil {
		target := strings.TrimSpace(*in.BusinessID)
		if actor.Role == entity.RoleAdmin && target != actor.BusinessID {
			return nil, fmt.Errorf("%w: solo puede asignar su propio negocio", domain.ErrForbidden)
		}
		if target != "" {
			b, err := uc.businessRepo.GetByID(ctx, target)
			if err != nil {
				return nil, err
			}
			if b == nil {
				return nil, fmt.Errorf("%w: negocio %s", domain.ErrNotFound, target)
			}
		}
		user.BusinessID = target
	}
	if in.Status != nil {
		if *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

func canSee(actor Actor, user *entity.User) bool {
	switch actor.Role {
	case entity.RoleSuperAdmin, entity.RoleSistemas:
		return true
	case entity.RoleAdmin:
		return actor.BusinessID != "" && (user.BusinessID == actor.BusinessID || user.BusinessID == "")
	}
	return actor.UserID == user.ID
}

// canManage evita que un rol edite a otro de mayor jerarquía.
func canManage(actor Actor, user *entity.User) bool {
	switch actor.Role {
	case entity.RoleSuperAdmin:
		return true
	case entity.RoleSistemas:
		return user.Role != entity.RoleSuperAdmin
	case entity.RoleAdmin:
		return user.Role != entity.RoleSuperAdmin && user.Role != entity.RoleSistemas
	}
	return false
}

func canGrant(actorRole, role string) bool {
	switch actorRole {
	case entity.RoleSuperAdmin:
		return true
	case entity.RoleSistemas:
		return role != entity.RoleSuperAdmin
	case entity.RoleAdmin:
		return role != entity.RoleSuperAdmin && role != entity.RoleSistemas
	}
	return false
}
