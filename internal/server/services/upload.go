package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/common"
	sc "github.com/dmitrijs2005/campuswall/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Upload kinds and the key prefix each one is stored under.
const (
	UploadBoxPicture = api.UploadBoxPicture
	UploadAvatar     = api.UploadAvatar
	UploadBackground = api.UploadBackground
)

var uploadPrefixes = map[string]string{
	UploadBoxPicture: "boxes",
	UploadAvatar:     "avatars",
	UploadBackground: "backgrounds",
}

// PresignedURL is a time-limited URL for one object.
type PresignedURL struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// UploadService hands out presigned object storage URLs. Image bytes go
// straight from the client to the bucket and never pass through the server.
type UploadService struct {
	config *sc.Config
	now    func() time.Time
}

func NewUploadService(config *sc.Config) *UploadService {
	return &UploadService{config: config, now: time.Now}
}

// WithClock replaces the time source used for keys and expiry instants.
func (s *UploadService) WithClock(now func() time.Time) *UploadService {
	s.now = now
	return s
}

// StorageKey builds "<prefix>/<user>/<yyyy>/<mm>/<dd>/<uuid>" for kind.
func StorageKey(kind string, userID int64, d time.Time) (string, error) {
	prefix, ok := uploadPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown upload kind %q", common.ErrValidation, kind)
	}
	d = d.UTC()
	return fmt.Sprintf("%s/%d/%04d/%02d/%02d/%v", prefix, userID, d.Year(), d.Month(), d.Day(), uuid.New()), nil
}

func (s *UploadService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a fresh key for kind and a PUT URL for it.
func (s *UploadService) PresignUpload(ctx context.Context, userID int64, kind string) (*PresignedURL, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", common.ErrValidation)
	}
	now := s.now()
	key, err := StorageKey(kind, userID, now)
	if err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignValidityDuration))
	if err != nil {
		return nil, err
	}

	return &PresignedURL{Key: key, URL: req.URL, ExpiresAt: now.Add(s.config.PresignValidityDuration)}, nil
}

// PresignDownload returns a GET URL for a key previously handed out by
// PresignUpload.
func (s *UploadService) PresignDownload(ctx context.Context, key string) (*PresignedURL, error) {
	if !knownKey(key) {
		return nil, fmt.Errorf("%w: unknown object key", common.ErrValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignValidityDuration))
	if err != nil {
		return nil, err
	}

	return &PresignedURL{Key: key, URL: req.URL, ExpiresAt: s.now().Add(s.config.PresignValidityDuration)}, nil
}

func knownKey(key string) bool {
	if strings.Contains(key, "..") {
		return false
	}
	for _, prefix := range uploadPrefixes {
		if strings.HasPrefix(key, prefix+"/") {
			return true
		}
	}
	return false
}
