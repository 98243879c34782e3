package config

import (
	"fmt"
	"strings"

	"github.com/swastikanata/ecommerce-dashboard/filestore"
	serviceDisk "github.com/swastikanata/ecommerce-dashboard/services/disk"
	serviceGCS "github.com/swastikanata/ecommerce-dashboard/services/gcstorage"
	serviceS3 "github.com/swastikanata/ecommerce-dashboard/services/s3"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var initiated bool = false

const DEVELOPMENT = "development"

// Prefix of environment overrides, e.g. DASHBOARD_DATA_DIR.
const EnvPrefix = "dashboard"

const (
	DataSourceDisk = "disk"
	DataSourceGCS  = "gcs"
	DataSourceS3   = "s3"
)

type Configuration struct {
	AppName string `json:"app_name" ignored:"true"`
	Env     string `json:"env" envconfig:"ENV"`
	Port    int    `json:"port" envconfig:"PORT"`

	// One of disk, gcs or s3.
	DataSource   string `json:"data_source" envconfig:"DATA_SOURCE"`
	DataDir      string `json:"data_dir" envconfig:"DATA_DIR"`
	Bucket       string `json:"bucket" envconfig:"BUCKET"`
	BucketPrefix string `json:"bucket_prefix" envconfig:"BUCKET_PREFIX"`
	AWSRegion    string `json:"aws_region" envconfig:"AWS_REGION"`

	KeyMetricsFile      string `json:"key_metrics_file" envconfig:"KEY_METRICS_FILE"`
	CustomerSummaryFile string `json:"customer_summary_file" envconfig:"CUSTOMER_SUMMARY_FILE"`
	OrderSummaryFile    string `json:"order_summary_file" envconfig:"ORDER_SUMMARY_FILE"`

	// Optional yaml file replacing the embedded dashboard narrative.
	NarrativeFile string `json:"narrative_file" envconfig:"NARRATIVE_FILE"`
}

var configuration *Configuration = nil

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

// applyEnvOverrides replaces flag values with DASHBOARD_* environment variables when set.
func applyEnvOverrides(config *Configuration) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return errors.Wrap(err, "failed to read environment overrides")
	}
	return nil
}

func validate(config *Configuration) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port %d", config.Port)
	}

	config.DataSource = strings.ToLower(strings.TrimSpace(config.DataSource))
	switch config.DataSource {
	case DataSourceDisk:
		if config.DataDir == "" {
			return errors.New("data dir is required for disk data source")
		}
	case DataSourceGCS, DataSourceS3:
		if config.Bucket == "" {
			return fmt.Errorf("bucket is required for %s data source", config.DataSource)
		}
	default:
		return fmt.Errorf("unknown data source %q", config.DataSource)
	}
	return nil
}

func Init(config *Configuration) error {
	if initiated {
		return fmt.Errorf("Config already initialized")
	}
	if config == nil {
		return errors.New("nil configuration")
	}

	if err := applyEnvOverrides(config); err != nil {
		return err
	}
	if err := validate(config); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	configuration = config

	initLogging()
	log.WithFields(log.Fields{"config": configuration}).Info("Config initialized")

	initiated = true
	return nil
}

func GetConfig() *Configuration {
	return configuration
}

func IsDevelopment() bool {
	return configuration != nil && (strings.Compare(configuration.Env, DEVELOPMENT) == 0)
}

// DatasetFileNames maps each dataset to its configured file name. Empty names fall back
// to the defaults of filestore.
func (config *Configuration) DatasetFileNames() map[string]string {
	return filestore.MergeFileNames(map[string]string{
		filestore.DatasetKeyMetrics:      config.KeyMetricsFile,
		filestore.DatasetCustomerSummary: config.CustomerSummaryFile,
		filestore.DatasetOrderSummary:    config.OrderSummaryFile,
	})
}

// NewFileManager returns the file manager of the configured data source.
func NewFileManager(config *Configuration) (filestore.FileManager, error) {
	fileNames := config.DatasetFileNames()
	switch config.DataSource {
	case DataSourceDisk:
		return serviceDisk.New(config.DataDir, fileNames), nil
	case DataSourceGCS:
		driver, err := serviceGCS.New(config.Bucket, config.BucketPrefix, fileNames)
		if err != nil {
			log.WithError(err).Error("Failed to init gcs file manager.")
			return nil, err
		}
		return driver, nil
	case DataSourceS3:
		return serviceS3.New(config.Bucket, config.AWSRegion, config.BucketPrefix, fileNames), nil
	}
	return nil, fmt.Errorf("unknown data source %q", config.DataSource)
}
