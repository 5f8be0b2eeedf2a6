package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/infrastructure/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id := uuid.New()
	router := gin.New()
	router.GET("/things/:id", func(c *gin.Context) {
		got, ok := parseID(c, "id", "thing")
		if !ok {
			return
		}
		c.String(http.StatusOK, got.String())
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid thing ID")
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"omitempty,email"`
	}

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req payload
		if !bindJSON(c, &req) {
			return
		}
		c.String(http.StatusOK, req.Name)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	w := post(`{"name":"Tea"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(`{"email":"not-an-email"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "Name", body.Errors[0].Field)
	assert.Contains(t, body.Errors[0].Message, "required")

	w = post(`{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaginationParams(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&per_page=10", nil)

	params := paginationParams(c)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.PerPage)
}

func TestIsSuperAdmin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, IsSuperAdmin(c))

	c.Set("user_roles", []string{database.RoleCashier, database.RoleSuperAdmin})
	assert.True(t, IsSuperAdmin(c))
	assert.Nil(t, GetUserID(c))
}
