package filestore

import (
	"io"
)

// Dataset names, used to resolve file locations.
const (
	DatasetKeyMetrics      = "key_metrics"
	DatasetCustomerSummary = "customer_summary"
	DatasetOrderSummary    = "order_summary"
)

type FileManager interface {
	Get(dir, fileName string) (io.ReadCloser, error)
	GetDatasetFilePathAndName(dataset string) (string, string)
	GetBucketName() string
}

// FileLister is implemented by file managers that can enumerate their data location.
type FileLister interface {
	ListFiles() []string
}

// DefaultFileNames maps each dataset to its file name inside the data dir or bucket.
func DefaultFileNames() map[string]string {
	return map[string]string{
		DatasetKeyMetrics:      "key_metrics.csv",
		DatasetCustomerSummary: "customer_summary.csv",
		DatasetOrderSummary:    "order_summary.csv",
	}
}

// MergeFileNames returns the defaults with non-empty overrides applied.
func MergeFileNames(overrides map[string]string) map[string]string {
	names := DefaultFileNames()
	for dataset, name := range overrides {
		if name != "" {
			names[dataset] = name
		}
	}
	return names
}
