package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
)

func permRouter(claims *models.AdminClaims, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	})
	router.GET("/", gate, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequirePermission(t *testing.T) {
	cases := []struct {
		name   string
		claims *models.AdminClaims
		want   int
	}{
		{"granted", &models.AdminClaims{AdminID: "a1", Role: rbac.RoleOpasManager}, http.StatusNoContent},
		{"denied", &models.AdminClaims{AdminID: "a2", Role: rbac.RoleSupportAgent}, http.StatusForbidden},
		{"unknown role fails closed", &models.AdminClaims{AdminID: "a3", Role: "INTERN"}, http.StatusForbidden},
		{"missing claims", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := permRouter(tc.claims, RequirePermission(rbac.PermInventoryReceive))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}

func TestRequirePermissionAllMustHold(t *testing.T) {
	claims := &models.AdminClaims{AdminID: "a1", Role: rbac.RoleOpasManager}
	router := permRouter(claims, RequirePermission(rbac.PermInventoryReceive, rbac.PermAdminManage))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireRoles(t *testing.T) {
	gate := RequireRoles(rbac.RoleSuperAdmin, rbac.RolePriceManager)

	router := permRouter(&models.AdminClaims{AdminID: "a1", Role: rbac.RolePriceManager}, gate)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	router = permRouter(&models.AdminClaims{AdminID: "a2", Role: rbac.RoleSellerManager}, gate)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
