package util

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 2,500", FormatCurrency(2500))
	assert.Equal(t, "R$ 13,591,643.7", FormatCurrency(13591643.701))
	assert.Equal(t, "R$ 0", FormatCurrency(0))
	assert.Equal(t, "R$ 999.99", FormatCurrency(999.99))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "22", FormatCount(22))
	assert.Equal(t, "99441", FormatCount(99441))
}

func TestFloatRoundOffWithPrecision(t *testing.T) {
	value, err := FloatRoundOffWithPrecision(2.667, 2)
	assert.Nil(t, err)
	assert.Equal(t, 2.67, value)
}

func TestUUID(t *testing.T) {
	id := GetUUID()
	assert.True(t, IsValidUUID(id))
	assert.False(t, IsValidUUID("not-a-uuid"))
}

func TestScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetScopeByKey(c, "requestId"))
	assert.Equal(t, "", GetScopeByKeyAsString(c, "requestId"))

	SetScope(c, "requestId", "abc")
	SetScope(c, "count", 3)
	assert.Equal(t, "abc", GetScopeByKeyAsString(c, "requestId"))
	assert.Equal(t, 3, GetScopeByKey(c, "count"))
	assert.Equal(t, "", GetScopeByKeyAsString(c, "count"))
}

func TestScopeReplacesForeignValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(SCOPES_KEY, "not a scope")

	assert.Nil(t, GetScopeByKey(c, "requestId"))
	assert.NotPanics(t, func() { SetScope(c, "requestId", "abc") })
	assert.Equal(t, "abc", GetScopeByKeyAsString(c, "requestId"))

	value, exists := c.Get(SCOPES_KEY)
	assert.True(t, exists)
	assert.Equal(t, Scope{"requestId": "abc"}, value)
}
