package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	putInputs []*s3.PutObjectInput
	putBodies []string
	objects   []string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.putInputs = append(f.putInputs, in)
	f.putBodies = append(f.putBodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range f.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func newTestUploader(fake *fakeS3) *Uploader {
	return &Uploader{
		client:        fake,
		publicBaseURL: "https://cdn.example.com",
		logger:        slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	u := newTestUploader(fake)

	url, err := u.Upload(context.Background(), "post-images", "photo.PNG", bytes.NewReader([]byte("imagedata")))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if len(fake.putInputs) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(fake.putInputs))
	}
	in := fake.putInputs[0]
	if *in.Bucket != "post-images" {
		t.Errorf("Bucket = %q, want %q", *in.Bucket, "post-images")
	}
	if !strings.HasSuffix(*in.Key, ".png") {
		t.Errorf("Key = %q, want .png extension preserved (lowercased)", *in.Key)
	}
	if *in.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", *in.ContentType)
	}
	if fake.putBodies[0] != "imagedata" {
		t.Errorf("uploaded body = %q", fake.putBodies[0])
	}
	if want := "https://cdn.example.com/post-images/" + *in.Key; url != want {
		t.Errorf("Upload() url = %q, want %q", url, want)
	}
}

func TestUpload_UnknownExtension(t *testing.T) {
	fake := &fakeS3{}
	u := newTestUploader(fake)

	if _, err := u.Upload(context.Background(), "post-images", "blob", bytes.NewReader(nil)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if got := *fake.putInputs[0].ContentType; got != "application/octet-stream" {
		t.Errorf("ContentType = %q, want application/octet-stream", got)
	}
}

func TestUpload_UniqueKeys(t *testing.T) {
	fake := &fakeS3{}
	u := newTestUploader(fake)

	for i := 0; i < 2; i++ {
		if _, err := u.Upload(context.Background(), "b", "same.jpg", bytes.NewReader(nil)); err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
	}
	if *fake.putInputs[0].Key == *fake.putInputs[1].Key {
		t.Error("two uploads of the same filename produced the same key")
	}
}

func TestListPublicURLs(t *testing.T) {
	fake := &fakeS3{objects: []string{"2026/01/01/a.jpg", "2026/01/02/b.jpg"}}
	u := newTestUploader(fake)

	urls, err := u.ListPublicURLs(context.Background(), "wedding-gallery")
	if err != nil {
		t.Fatalf("ListPublicURLs() error = %v", err)
	}
	want := []string{
		"https://cdn.example.com/wedding-gallery/2026/01/01/a.jpg",
		"https://cdn.example.com/wedding-gallery/2026/01/02/b.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d", len(urls), len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}
