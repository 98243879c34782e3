package disk

import (
	"io"
	"os"
	"path/filepath"

	"github.com/swastikanata/ecommerce-dashboard/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)
var _ filestore.FileLister = (*DiskDriver)(nil)

type DiskDriver struct {
	// Directory holding the dataset files.
	// Analogus to bucket name.
	baseDir   string
	fileNames map[string]string
}

func New(baseDir string, fileNames map[string]string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir, fileNames: filestore.MergeFileNames(fileNames)}
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(path, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     path,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	file, err := os.OpenFile(filepath.Join(path, fileName), os.O_RDONLY, 0444)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (dd *DiskDriver) GetBucketName() string {
	return dd.baseDir
}

func (dd *DiskDriver) GetDatasetFilePathAndName(dataset string) (string, string) {
	return dd.baseDir, dd.fileNames[dataset]
}

// ListFiles lists the files present in the data directory, for the status endpoint.
func (dd *DiskDriver) ListFiles() []string {
	var files []string
	entries, err := os.ReadDir(dd.baseDir)
	if err != nil {
		log.WithError(err).Errorln("Failed to read directory contents")
		return files
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dd.baseDir, entry.Name()))
	}
	return files
}
