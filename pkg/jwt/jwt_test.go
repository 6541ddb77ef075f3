package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/retail-pos-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse(t *testing.T) {
	sub := jwt.Subject{UserID: "u-1", Username: "caja1", BusinessID: "b-1", Role: "Vendedor", Location: "TIENDA"}

	token, err := jwt.Generate(secret, sub, "retail-pos-api", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "caja1", claims.Username)
	assert.Equal(t, "b-1", claims.BusinessID)
	assert.Equal(t, "Vendedor", claims.Role)
	assert.Equal(t, "TIENDA", claims.Location)
	assert.Equal(t, "retail-pos-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, jwt.Subject{UserID: "u-1"}, "x", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate(secret, jwt.Subject{UserID: "u-1"}, "x", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", jwt.Subject{UserID: "u-1"}, "x", 60)
	assert.Error(t, err)

	_, err = jwt.Parse("", "cualquier")
	assert.Error(t, err)
}
