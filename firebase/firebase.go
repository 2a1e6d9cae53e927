package firebase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type Config struct {
	// Credentials is either the service account JSON itself or a path to it.
	Credentials   string
	ProjectID     string
	StorageBucket string
}

// App gives access to the Firebase services the backend uses: Firestore for
// the catalog and orders, Storage for menu images.
type App struct {
	app    *firebase.App
	bucket string
	logger *zap.Logger
}

var filenamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := filenamePattern.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

func clientOptions(credentials string, logger *zap.Logger) []option.ClientOption {
	switch {
	case credentials == "":
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
		return nil
	case strings.HasPrefix(strings.TrimSpace(credentials), "{"):
		logger.Info("using Firebase credentials from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentials))}
	default:
		logger.Info("using Firebase credentials from file", zap.String("path", credentials))
		return []option.ClientOption{option.WithCredentialsFile(credentials)}
	}
}

func NewApp(ctx context.Context, cfg Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conf := &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}
	app, err := firebase.NewApp(ctx, conf, clientOptions(cfg.Credentials, logger)...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	logger.Info("firebase initialized", zap.String("project", cfg.ProjectID))
	return &App{app: app, bucket: cfg.StorageBucket, logger: logger}, nil
}

func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}
