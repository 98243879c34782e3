package middleware

import (
	"net/http"

	M "github.com/swastikanata/ecommerce-dashboard/model"
	U "github.com/swastikanata/ecommerce-dashboard/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const SCOPE_DATASETS = "datasets"

// SetScopeDatasets makes the loaded datasets available to handlers of the request.
func SetScopeDatasets(datasets *M.Datasets) gin.HandlerFunc {
	return func(c *gin.Context) {
		if datasets == nil {
			log.WithField("RequestId", U.GetScopeByKeyAsString(c, SCOPE_REQ_ID)).
				Error("Request failed. Datasets not loaded.")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Datasets not loaded."})
			return
		}
		U.SetScope(c, SCOPE_DATASETS, datasets)
		c.Next()
	}
}

// GetScopeDatasets returns the datasets set by SetScopeDatasets, nil when absent.
func GetScopeDatasets(c *gin.Context) *M.Datasets {
	datasets, _ := U.GetScopeByKey(c, SCOPE_DATASETS).(*M.Datasets)
	return datasets
}
