package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"afrikticket_backend/internals/configs"
)

type OSSStore struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
}

func NewOSSStoreFromEnv() (*OSSStore, error) {
	endpoint := strings.TrimSpace(configs.GetEnv("ALI_OSS_ENDPOINT"))
	ak := strings.TrimSpace(configs.GetEnv("ALI_OSS_ACCESS_KEY"))
	sk := strings.TrimSpace(configs.GetEnv("ALI_OSS_SECRET_KEY"))
	sts := strings.TrimSpace(configs.GetEnv("ALI_OSS_SECURITY_TOKEN"))
	bucketName := strings.TrimSpace(configs.GetEnv("ALI_OSS_BUCKET"))
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	log.Printf("[OSS] using bucket %s @ %s", bucketName, endpoint)

	return &OSSStore{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: strings.TrimRight(configs.GetEnv("ALI_OSS_PUBLIC_BASE"), "/"),
	}, nil
}

func (s *OSSStore) Put(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := joinKey(bucket, filename)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", err
	}
	return s.publicURL(key), nil
}

func (s *OSSStore) Delete(ctx context.Context, path string) error {
	key, err := s.keyFromURL(path)
	if err != nil {
		return err
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) publicURL(key string) string {
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func (s *OSSStore) keyFromURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if s.PublicBase != "" && strings.HasPrefix(publicURL, s.PublicBase+"/") {
		return strings.TrimPrefix(publicURL, s.PublicBase+"/"), nil
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}
