package handler

import (
	"net/http"

	C "github.com/swastikanata/ecommerce-dashboard/config"
	"github.com/swastikanata/ecommerce-dashboard/filestore"
	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports liveness, the row count of each loaded table and, for file
// managers that can list them, the files present in the data location.
func StatusHandler(datasets *M.Datasets, fileManager filestore.FileManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if datasets == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "Datasets not loaded."})
			return
		}

		payload := gin.H{
			"status": "ok",
			"rows": gin.H{
				"key_metrics":      len(datasets.KeyMetrics),
				"customer_summary": len(datasets.Customers),
				"order_summary":    len(datasets.Orders),
			},
		}
		if config := C.GetConfig(); config != nil {
			payload["env"] = config.Env
			payload["data_source"] = config.DataSource
		}
		if fileManager != nil {
			payload["location"] = fileManager.GetBucketName()
			if lister, ok := fileManager.(filestore.FileLister); ok {
				files := lister.ListFiles()
				if files == nil {
					files = []string{}
				}
				payload["files"] = files
			}
		}
		c.JSON(http.StatusOK, payload)
	}
}
