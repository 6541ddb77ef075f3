// Package idempotency evita procesar dos veces la misma petición no idempotente (Idempotency-Key).
package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Store operaciones mínimas del almacén de claves (implementado por pkg/redis.Client).
type Store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Guard marca claves como tomadas con SETNX + TTL.
type Guard struct {
	store Store
	ttl   time.Duration
}

// NewGuard construye el guard; ttl debe ser positivo.
func NewGuard(store Store, ttl time.Duration) (*Guard, error) {
	if store == nil {
		return nil, errors.New("idempotency: store requerido")
	}
	if ttl <= 0 {
		return nil, errors.New("idempotency: ttl debe ser positivo")
	}
	return &Guard{store: store, ttl: ttl}, nil
}

// Acquire toma la clave. Devuelve false si ya fue tomada (petición en curso o ya procesada).
func (g *Guard) Acquire(ctx context.Context, scope, key string) (bool, error) {
	k, err := g.key(scope, key)
	if err != nil {
		return false, err
	}
	return g.store.SetNX(ctx, k, time.Now().UTC().Format(time.RFC3339), g.ttl)
}

// Release libera la clave para permitir reintentar una petición que falló.
func (g *Guard) Release(ctx context.Context, scope, key string) error {
	k, err := g.key(scope, key)
	if err != nil {
		return err
	}
	return g.store.Del(ctx, k)
}

func (g *Guard) key(scope, key string) (string, error) {
	key = strings.TrimSpace(key)
	if scope == "" || key == "" {
		return "", errors.New("idempotency: scope y key son requeridos")
	}
	return g.store.IdempotencyKey(scope, key), nil
}
