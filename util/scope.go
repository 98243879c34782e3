package util

import "github.com/gin-gonic/gin"

// Key of the request scope in the gin context.
const SCOPES_KEY = "scopes"

// Scope holds the values middlewares hand to the handlers of one request.
type Scope map[string]interface{}

// requestScope returns the scope of c. With create it is made on first use, and a value
// of another type stored under SCOPES_KEY is replaced.
func requestScope(c *gin.Context, create bool) Scope {
	if value, exists := c.Get(SCOPES_KEY); exists {
		if scope, ok := value.(Scope); ok {
			return scope
		}
	}
	if !create {
		return nil
	}

	scope := Scope{}
	c.Set(SCOPES_KEY, scope)
	return scope
}

func SetScope(c *gin.Context, key string, value interface{}) {
	requestScope(c, true)[key] = value
}

// GetScopeByKey returns nil when the key or the scope itself is absent.
func GetScopeByKey(c *gin.Context, key string) interface{} {
	return requestScope(c, false)[key]
}

func GetScopeByKeyAsString(c *gin.Context, key string) string {
	value, _ := GetScopeByKey(c, key).(string)
	return value
}
