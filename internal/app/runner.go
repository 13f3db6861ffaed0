package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/jsonplaceholder-client/internal/config"
	"github.com/samvad-hq/jsonplaceholder-client/internal/export"
	"github.com/samvad-hq/jsonplaceholder-client/internal/logger"
	"github.com/samvad-hq/jsonplaceholder-client/internal/storage"
	"github.com/samvad-hq/jsonplaceholder-client/pkg/jsondoc"
	"github.com/samvad-hq/jsonplaceholder-client/pkg/placeholder"
	"github.com/samvad-hq/jsonplaceholder-client/pkg/publishers"
)

// Runner wires the placeholder client with the export writer, the export
// ledger and result publishers, and executes the fixed run sequence.
type Runner struct {
	cfg    *config.Config
	client *placeholder.Client
	writer *export.Writer
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
	out    io.Writer
}

// NewRunner builds a runner from config. Console lines are written to out
// (stdout when nil).
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := placeholder.NewWithBaseURL(cfg.BaseURL, cfg.HTTPTimeout, placeholder.Options{
		TrimResponseLines: cfg.TrimResponseLines,
	})
	log.InfoObj("placeholder client configured", "client_config", map[string]any{
		"base_url":            cfg.BaseURL,
		"timeout_seconds":     int(cfg.HTTPTimeout.Seconds()),
		"trim_response_lines": cfg.TrimResponseLines,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Runner{
		cfg:    cfg,
		client: client,
		writer: export.NewWriter(cfg.OutputDir),
		store:  store,
		fanout: fanout,
		log:    log,
		out:    out,
	}, nil
}

// buildFanout loads the optional publishers file. No file means no publishers.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Client exposes the underlying placeholder client.
func (r *Runner) Client() *placeholder.Client { return r.client }

// Run creates the sample user, saves the comments of the configured user's
// last post and prints that user's open todos. The first failure aborts
// the remaining steps.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("runner is not initialized")
	}

	start := time.Now()
	userID := r.cfg.SampleUserID

	if _, err := r.CreateSampleUser(ctx); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if _, err := r.SaveCommentsOfLastPost(ctx, userID); err != nil {
		return fmt.Errorf("save comments of last post: %w", err)
	}
	if _, err := r.PrintOpenTodos(ctx, userID); err != nil {
		return fmt.Errorf("open todos: %w", err)
	}

	r.log.InfoObj("run completed", "run_meta", map[string]any{
		"user_id":    userID,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// CreateSampleUser posts the sample user and prints the created resource.
func (r *Runner) CreateSampleUser(ctx context.Context) (string, error) {
	user, err := LoadSampleUser(r.cfg.SampleUserFile)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode sample user: %w", err)
	}

	created, err := r.client.CreateUser(ctx, string(payload))
	if err != nil {
		return "", err
	}
	r.log.DebugObj("user created", "user", map[string]any{"username": user.Username})
	fmt.Fprintf(r.out, "Created User: %s\n", created)
	return created, nil
}

// SaveCommentsOfLastPost writes the comments of the user's highest-id post
// to user-{user}-post-{post}-comments.json and returns the file path.
func (r *Runner) SaveCommentsOfLastPost(ctx context.Context, userID int) (string, error) {
	res, err := r.client.LastPostComments(ctx, userID)
	if err != nil {
		return "", err
	}

	key := storage.ExportKey(res.UserID, res.PostID)
	if prev, found, err := r.store.LastExport(key); err != nil {
		r.log.WarnObj("export ledger lookup failed", "ledger_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	} else if found {
		r.log.InfoObj("overwriting previous export", "previous_export", prev)
	}

	data := []byte(res.Comments)
	path, err := r.writer.WriteComments(res.UserID, res.PostID, data)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(r.out, "Comments saved to %s\n", path)

	if err := r.store.RecordExport(storage.ExportRecord{
		UserID: res.UserID,
		PostID: res.PostID,
		Path:   path,
		Bytes:  len(data),
	}); err != nil {
		r.log.WarnObj("export ledger write failed", "ledger_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}

	evt := publishers.NewEvent(publishers.EventCommentsSaved, res.UserID)
	evt.PostID = res.PostID
	evt.File = path
	evt.Count = countElements(res.Comments)
	r.publish(ctx, evt)

	r.log.InfoObj("comments saved", "export", map[string]any{
		"user_id":  res.UserID,
		"post_id":  res.PostID,
		"path":     path,
		"comments": evt.Count,
	})
	return path, nil
}

// OpenTodos returns the user's open todos as a JSON array and publishes
// the result.
func (r *Runner) OpenTodos(ctx context.Context, userID int) (string, error) {
	open, err := r.client.OpenTodos(ctx, userID)
	if err != nil {
		return "", err
	}

	evt := publishers.NewEvent(publishers.EventOpenTodos, userID)
	evt.Count = countElements(open)
	evt.Payload = json.RawMessage(open)
	r.publish(ctx, evt)
	return open, nil
}

// PrintOpenTodos is OpenTodos followed by a console line.
func (r *Runner) PrintOpenTodos(ctx context.Context, userID int) (string, error) {
	open, err := r.OpenTodos(ctx, userID)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(r.out, "Open Todos for User %d: %s\n", userID, open)
	return open, nil
}

// publish fans evt out; failures are logged and never fail the operation.
func (r *Runner) publish(ctx context.Context, evt publishers.Event) {
	if r.fanout.Size() == 0 {
		return
	}
	delivered, err := r.fanout.Publish(ctx, evt)
	if err != nil {
		r.log.WarnObj("event publish failed", "publish_error", map[string]any{
			"kind":      evt.Kind,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	r.log.DebugObj("event published", "publish_result", map[string]any{
		"kind":      evt.Kind,
		"delivered": delivered,
	})
}

// Close releases the ledger and publisher connections.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// countElements reports the length of a JSON array, or 0 for anything else.
func countElements(raw string) int {
	doc, err := jsondoc.Parse([]byte(raw))
	if err != nil || doc.Kind() != jsondoc.Array {
		return 0
	}
	return doc.Len()
}
