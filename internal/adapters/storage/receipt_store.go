package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"debo-loans/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const receiptContentType = "text/plain; charset=utf-8"

// ReceiptKey is the object key of a payment receipt
func ReceiptKey(receiptNumber string) string {
	return fmt.Sprintf("receipts/%s.txt", receiptNumber)
}

// MinIOReceiptStore stores receipt bodies in a MinIO bucket
type MinIOReceiptStore struct {
	mc       *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// NewMinIOReceiptStore creates the client and makes sure the bucket exists
func NewMinIOReceiptStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOReceiptStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinIOReceiptStore{mc: mc, bucket: cfg.Bucket, endpoint: cfg.Endpoint, useSSL: cfg.UseSSL}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinIOReceiptStore) ensureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("✅ Created bucket: %s", s.bucket)
	}
	return nil
}

// Put uploads body and returns the object URL
func (s *MinIOReceiptStore) Put(ctx context.Context, receiptNumber string, body []byte) (string, error) {
	key := ReceiptKey(receiptNumber)
	_, err := s.mc.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: receiptContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key), nil
}

// Remove deletes the receipt object
func (s *MinIOReceiptStore) Remove(ctx context.Context, receiptNumber string) error {
	return s.mc.RemoveObject(ctx, s.bucket, ReceiptKey(receiptNumber), minio.RemoveObjectOptions{})
}

// PlaceholderReceiptStore stores nothing and returns the object key as URL
type PlaceholderReceiptStore struct{}

func (PlaceholderReceiptStore) Put(ctx context.Context, receiptNumber string, body []byte) (string, error) {
	return ReceiptKey(receiptNumber), nil
}

func (PlaceholderReceiptStore) Remove(ctx context.Context, receiptNumber string) error {
	return nil
}
