// Package mediasync pulls table media from an S3 bucket into the local
// media directory. Cabinets in the field sync once at boot; everything the
// frontend draws afterwards comes from disk.
package mediasync

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog"
)

// FetchMissing downloads every object under bucket into mediaDir, keeping
// the bucket's <table>/<file> layout, and skips objects already present on
// disk with the same size. It returns the local paths it wrote. Individual
// object failures are logged and skipped; only listing or setup failures
// are fatal.
func FetchMissing(bucket, mediaDir string, log zerolog.Logger) ([]string, error) {
	if bucket == "" {
		log.Debug().Msg("no media bucket configured; skipping sync")
		return nil, nil
	}

	region := os.Getenv("AWS_DEFAULT_REGION")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if region == "" || accessKey == "" || secretKey == "" {
		return nil, errors.New("missing one or more required environment variables: AWS_DEFAULT_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, err
	}
	s3Client := s3.New(sess)

	if err := os.MkdirAll(mediaDir, os.ModePerm); err != nil {
		return nil, err
	}

	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}

	var written []string
	err = s3Client.ListObjectsV2Pages(listInput, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue
			}

			localPath := filepath.Join(mediaDir, filepath.FromSlash(*obj.Key))
			if upToDate(localPath, obj.Size) {
				continue
			}

			if path, ok := downloadObject(s3Client, bucket, *obj.Key, localPath, log); ok {
				written = append(written, path)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("bucket", bucket).Int("downloaded", len(written)).Msg("media sync completed")
	return written, nil
}

// upToDate reports whether the local file already matches the remote size.
func upToDate(localPath string, size *int64) bool {
	info, err := os.Stat(localPath)
	if err != nil {
		return false
	}
	return size != nil && info.Size() == *size
}

// downloadObject fetches one object to localPath, creating intermediate
// directories as needed.
func downloadObject(s3Client *s3.S3, bucket, key, localPath string, log zerolog.Logger) (string, bool) {
	result, err := s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("failed to download object")
		return "", false
	}
	defer result.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), os.ModePerm); err != nil {
		log.Warn().Str("path", localPath).Err(err).Msg("failed to create media subdirectory")
		return "", false
	}

	outFile, err := os.Create(localPath)
	if err != nil {
		log.Warn().Str("path", localPath).Err(err).Msg("failed to create file")
		return "", false
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, result.Body); err != nil {
		log.Warn().Str("path", localPath).Err(err).Msg("failed to write file")
		return "", false
	}
	return localPath, true
}
