package handlers

import (
	"context"
	"io"
	"sync"
)

type mockStorage struct {
	UploadImageFn func(folder, filename, contentType string) (string, error)
	DeleteFileFn  func(objectPath string) error

	mu              sync.Mutex
	DeleteFileCalls []string
	UploadFolders   []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadImage(_ context.Context, folder string, r io.Reader, filename, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.UploadFolders = append(m.UploadFolders, folder)
	m.mu.Unlock()
	if m.UploadImageFn != nil {
		return m.UploadImageFn(folder, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/" + folder + "/test_image.jpg", nil
}

func (m *mockStorage) DeleteFile(_ context.Context, objectPath string) error {
	m.mu.Lock()
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	m.mu.Unlock()
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
