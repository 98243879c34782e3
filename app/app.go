package main

import (
	"flag"
	"strconv"

	C "github.com/swastikanata/ecommerce-dashboard/config"
	H "github.com/swastikanata/ecommerce-dashboard/handler"
	mid "github.com/swastikanata/ecommerce-dashboard/middleware"
	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --env=development --port=8501 --data_source=disk --data_dir=dashboard
// ./app --env=production --data_source=gcs --bucket=ecommerce-extracts --bucket_prefix=olist
func main() {
	env := flag.String("env", "development", "")
	port := flag.Int("port", 8501, "")

	dataSource := flag.String("data_source", C.DataSourceDisk, "One of disk, gcs or s3.")
	dataDir := flag.String("data_dir", "dashboard", "Directory of the csv extracts for disk data source.")
	bucket := flag.String("bucket", "", "Bucket of the csv extracts for gcs and s3 data sources.")
	bucketPrefix := flag.String("bucket_prefix", "", "")
	awsRegion := flag.String("aws_region", "us-east-1", "")

	keyMetricsFile := flag.String("key_metrics_file", "", "Overrides key_metrics.csv")
	customerSummaryFile := flag.String("customer_summary_file", "", "Overrides customer_summary.csv")
	orderSummaryFile := flag.String("order_summary_file", "", "Overrides order_summary.csv")
	narrativeFile := flag.String("narrative_file", "", "Yaml narrative replacing the built-in one.")
	flag.Parse()

	config := &C.Configuration{
		AppName:             "dashboard_server",
		Env:                 *env,
		Port:                *port,
		DataSource:          *dataSource,
		DataDir:             *dataDir,
		Bucket:              *bucket,
		BucketPrefix:        *bucketPrefix,
		AWSRegion:           *awsRegion,
		KeyMetricsFile:      *keyMetricsFile,
		CustomerSummaryFile: *customerSummaryFile,
		OrderSummaryFile:    *orderSummaryFile,
		NarrativeFile:       *narrativeFile,
	}

	err := C.Init(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
		return
	}

	fileManager, err := C.NewFileManager(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize file manager.")
		return
	}

	// Loaded once. Handlers only read from it.
	datasets, err := M.LoadDatasets(fileManager)
	if err != nil {
		log.WithError(err).Fatal("Failed to load datasets.")
		return
	}

	narrative, err := H.LoadNarrative(config.NarrativeFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load narrative.")
		return
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mid.CustomCors())
	r.Use(mid.RequestIdGenerator())
	r.Use(mid.Logger())
	r.Use(mid.Recovery())

	H.InitRoutes(r, datasets, narrative, fileManager)
	log.WithField("port", C.GetConfig().Port).Info("Starting dashboard server.")
	r.Run(":" + strconv.Itoa(C.GetConfig().Port))
}
