package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext_RoundTrip(t *testing.T) {
	user := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "test@nordcup.no",
		Roles:       []domain.UserRoleType{domain.RoleManager},
	}

	ctx := auth.WithUserContext(context.Background(), user)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, "Test User", got.DisplayName)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestUserContext_MustFromContext_Panics(t *testing.T) {
	assert.Panics(t, func() {
		auth.MustFromContext(context.Background())
	})
}

func TestUserContext_Roles(t *testing.T) {
	user := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleProduction},
	}

	assert.True(t, user.HasRole(domain.RoleProduction))
	assert.False(t, user.HasRole(domain.RoleAdmin))
	assert.True(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleProduction))
	assert.False(t, user.IsAdmin())
}

func TestUserContext_Permissions(t *testing.T) {
	cases := []struct {
		role          domain.UserRoleType
		manageOrders  bool
		updateProd    bool
	}{
		{domain.RoleAdmin, true, true},
		{domain.RoleManager, true, true},
		{domain.RoleSales, true, false},
		{domain.RoleProduction, false, true},
		{domain.RoleViewer, false, false},
		{domain.RoleAPIService, true, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			user := &auth.UserContext{Roles: []domain.UserRoleType{tc.role}}
			assert.Equal(t, tc.manageOrders, user.CanManageOrders())
			assert.Equal(t, tc.updateProd, user.CanUpdateProduction())
		})
	}
}

func TestUserContext_GetDisplayNameInitials(t *testing.T) {
	assert.Equal(t, "KN", (&auth.UserContext{DisplayName: "Kari Nordmann"}).GetDisplayNameInitials())
	assert.Equal(t, "K", (&auth.UserContext{DisplayName: "kari"}).GetDisplayNameInitials())
	assert.Equal(t, "", (&auth.UserContext{}).GetDisplayNameInitials())
}
