package vault

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
)

// fakeS3 is an in-memory stand-in for the S3 API. Multipart calls fail, so
// only bodies below the uploader part size are supported.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	bucket  string
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), bucket: bucket}
}

var errMultipart = errors.New("multipart not supported by fake")

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errMultipart
}

func vaults(t *testing.T) map[string]dashboard.Vault {
	t.Helper()
	fsv, err := NewFileSystemVault(filepath.Join(t.TempDir(), "vault"))
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	return map[string]dashboard.Vault{
		"memory":     NewMemoryVault(),
		"filesystem": fsv,
		"s3":         NewS3Vault(newFakeS3("reports"), "reports", "family/"),
	}
}

func put(t *testing.T, v dashboard.Vault, key, data string) {
	t.Helper()
	if err := v.Put(context.Background(), key, strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Put(%q) error = %v", key, err)
	}
}

func TestVault_Contract(t *testing.T) {
	for name, v := range vaults(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			put(t, v, "reports/p1/2026-10-10.json.age", "week one")
			put(t, v, "reports/p1/2026-10-17.json.age", "week two")
			put(t, v, "reports/p2/2026-10-17.json", "other parent")

			var buf bytes.Buffer
			if err := v.Get(ctx, "reports/p1/2026-10-17.json.age", &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != "week two" {
				t.Errorf("Get() = %q, want %q", buf.String(), "week two")
			}

			put(t, v, "reports/p1/2026-10-17.json.age", "replaced")
			buf.Reset()
			if err := v.Get(ctx, "reports/p1/2026-10-17.json.age", &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != "replaced" {
				t.Errorf("Get() after overwrite = %q, want %q", buf.String(), "replaced")
			}

			keys, err := v.List(ctx, "reports/p1/")
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			want := []string{"reports/p1/2026-10-10.json.age", "reports/p1/2026-10-17.json.age"}
			if strings.Join(keys, ",") != strings.Join(want, ",") {
				t.Errorf("List() = %v, want %v", keys, want)
			}

			empty, err := v.List(ctx, "reports/nobody/")
			if err != nil || len(empty) != 0 {
				t.Errorf("List(empty) = %v, %v", empty, err)
			}

			err = v.Get(ctx, "reports/p1/missing.json", io.Discard)
			if !errors.Is(err, dashboard.ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := v.ValidateSetup(ctx); err != nil {
				t.Errorf("ValidateSetup() error = %v", err)
			}
		})
	}
}

func TestVault_RejectsBadInput(t *testing.T) {
	for name, v := range vaults(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, key := range []string{"", "/abs", "a/../../etc", "a//b", "dir/"} {
				if err := v.Put(ctx, key, strings.NewReader("x"), 1); err == nil {
					t.Errorf("Put(%q) expected error", key)
				}
			}
			if err := v.Put(ctx, "k", strings.NewReader("abc"), 5); err == nil {
				t.Error("Put() with wrong size expected error")
			}
		})
	}
}

func TestFileSystemVault_Layout(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault(root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	put(t, v, "reports/p1/2026-10-17.json", "{}")

	if _, err := os.Stat(filepath.Join(root, "reports", "p1", "2026-10-17.json")); err != nil {
		t.Errorf("blob not stored at expected path: %v", err)
	}

	// Leftover temp files from an interrupted write are not listed.
	if err := os.WriteFile(filepath.Join(root, "reports", "p1", ".tmp-123"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	keys, _ := v.List(context.Background(), "")
	if len(keys) != 1 {
		t.Errorf("List() = %v, want one key", keys)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := NewFileSystemVault(root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error for missing root")
	}
}

func TestFileSystemVault_ValidateSetup_Writable(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault(root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.ValidateSetup(context.Background()); err != nil {
		t.Fatalf("ValidateSetup() error = %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("ValidateSetup() left %d file(s) in the root", len(entries))
	}

	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	if err := os.Chmod(root, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(root, 0755) })
	if err := v.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error for read-only root")
	}
}

func TestS3Vault_Prefix(t *testing.T) {
	fake := newFakeS3("reports")
	v := NewS3Vault(fake, "reports", "family/")
	put(t, v, "reports/p1/a.json", "{}")

	if _, ok := fake.objects["family/reports/p1/a.json"]; !ok {
		t.Errorf("object keys = %v, want prefixed key", fake.objects)
	}

	wrong := NewS3Vault(fake, "elsewhere", "")
	if err := wrong.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error for missing bucket")
	}
}

func TestNewVaultFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ReportsConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.ReportsConfig{Type: "memory"}},
		{name: "filesystem", cfg: config.ReportsConfig{Type: "filesystem", Root: t.TempDir()}},
		{name: "filesystem without root", cfg: config.ReportsConfig{Type: "filesystem"}, wantErr: true},
		{name: "s3 without bucket", cfg: config.ReportsConfig{Type: "s3"}, wantErr: true},
		{name: "unknown", cfg: config.ReportsConfig{Type: "ftp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVaultFromConfig(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVaultFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v == nil {
				t.Error("NewVaultFromConfig() returned nil vault")
			}
		})
	}
}
