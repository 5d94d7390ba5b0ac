package analyses

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/pkg/pagination"
	"github.com/JaimeStill/verdict/pkg/query"
	"github.com/JaimeStill/verdict/pkg/repository"
	"github.com/JaimeStill/verdict/pkg/storage"
)

type repo struct {
	db           *sql.DB
	storage      storage.System
	analyzer     Analyzer
	logger       *slog.Logger
	pagination   pagination.Config
	historyLimit int
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	analyzer Analyzer,
	logger *slog.Logger,
	pagination pagination.Config,
	historyLimit int,
) System {
	return &repo{
		db:           db,
		storage:      store,
		analyzer:     analyzer,
		logger:       logger.With("system", "analyses"),
		pagination:   pagination,
		historyLimit: historyLimit,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) Analyze(ctx context.Context, userID string, in analyst.Input) (*Outcome, error) {
	result, err := r.analyzer.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Outcome: result}
	if userID == "" {
		return out, nil
	}

	saved, err := r.Save(ctx, SaveCommand{UserID: userID, Input: in, Outcome: result})
	if err != nil {
		r.logger.Error("analysis not saved", "user", userID, "error", err)
		out.SaveError = ErrSaveFailed.Error()
		return out, nil
	}

	out.ID = &saved.ID
	out.Saved = true
	return out, nil
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Analysis, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("%w: user required", ErrInvalidForm)
	}
	if cmd.Outcome == nil || cmd.Outcome.Result == nil {
		return nil, fmt.Errorf("%w: result required", ErrInvalidForm)
	}

	id := uuid.New()
	in := cmd.Input

	var imageKey, imageMIME, videoKey, videoMIME *string
	if in.Image != nil {
		imageKey = optional(buildStorageKey(id, MediaImage))
		imageMIME = optional(in.ImageMIME())
	}
	if in.Video != nil {
		videoKey = optional(buildStorageKey(id, MediaVideo))
		videoMIME = optional(in.VideoMIME())
	}

	if err := r.uploadMedia(ctx, imageKey, imageMIME, in.Image, videoKey, videoMIME, in.Video); err != nil {
		r.compensate(imageKey, videoKey)
		return nil, fmt.Errorf("upload analysis media: %w", err)
	}

	metrics, err := encodeMetrics(in.Metrics)
	if err != nil {
		r.compensate(imageKey, videoKey)
		return nil, err
	}

	result, err := json.Marshal(cmd.Outcome.Result)
	if err != nil {
		r.compensate(imageKey, videoKey)
		return nil, fmt.Errorf("encode result: %w", err)
	}

	q := `
		INSERT INTO analyses(id, user_id, platform, platform_type, mode, post_text, image_key, image_mime_type, video_key, video_mime_type, metrics, decision, provider, model, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15::jsonb)
		RETURNING id, user_id, platform, platform_type, mode, post_text, image_key, image_mime_type, video_key, video_mime_type, metrics, decision, provider, model, result, created_at`

	mode := in.Mode
	if mode == "" {
		mode = analyst.ModePre
	}

	insertArgs := []any{
		id,
		cmd.UserID,
		optional(string(in.Platform)),
		optional(string(in.PlatformType)),
		string(mode),
		in.Text,
		imageKey,
		imageMIME,
		videoKey,
		videoMIME,
		metrics,
		string(cmd.Outcome.Result.Decision.Decision),
		cmd.Outcome.Provider,
		cmd.Outcome.Model,
		string(result),
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Analysis, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanAnalysis)
	})

	if err != nil {
		r.compensate(imageKey, videoKey)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis saved", "id", a.ID, "user", a.UserID, "decision", a.Decision)
	return &a, nil
}

func (r *repo) History(ctx context.Context, userID string) ([]Analysis, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		BuildPage(1, r.historyLimit)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return items, nil
}

func (r *repo) List(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		WhereSearch(page.Search, "PostText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, userID string, id uuid.UUID) (*Analysis, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereEquals("UserID", userID).
		BuildSingleOrNull()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Media(ctx context.Context, userID string, id uuid.UUID, kind MediaKind) (*storage.Blob, error) {
	a, err := r.Find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var key *string
	switch kind {
	case MediaImage:
		key = a.ImageKey
	case MediaVideo:
		key = a.VideoKey
	}
	if key == nil {
		return nil, ErrMediaNotFound
	}

	blob, err := r.storage.Download(ctx, *key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", kind, err)
	}
	return blob, nil
}

func (r *repo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	a, err := r.Find(ctx, userID, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM analyses WHERE id = $1 AND user_id = $2",
			id, userID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.deleteBlobs(ctx, a.ImageKey, a.VideoKey)

	r.logger.Info("analysis deleted", "id", id, "user", userID)
	return nil
}

func (r *repo) Purge(ctx context.Context, before time.Time) (int, error) {
	type keys struct {
		image *string
		video *string
	}

	purged, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]keys, error) {
		return repository.QueryMany(
			ctx, tx,
			"DELETE FROM analyses WHERE created_at < $1 RETURNING image_key, video_key",
			[]any{before},
			func(s repository.Scanner) (keys, error) {
				var k keys
				err := s.Scan(&k.image, &k.video)
				return k, err
			},
		)
	})
	if err != nil {
		return 0, fmt.Errorf("purge analyses: %w", err)
	}

	for _, k := range purged {
		r.deleteBlobs(ctx, k.image, k.video)
	}

	r.logger.Info("analyses purged", "count", len(purged), "before", before)
	return len(purged), nil
}

func (r *repo) uploadMedia(
	ctx context.Context,
	imageKey, imageMIME *string, image *analyst.Media,
	videoKey, videoMIME *string, video *analyst.Media,
) error {
	g, gctx := errgroup.WithContext(ctx)

	if imageKey != nil {
		g.Go(func() error {
			return r.storage.Upload(gctx, *imageKey, bytes.NewReader(image.Data), *imageMIME)
		})
	}
	if videoKey != nil {
		g.Go(func() error {
			return r.storage.Upload(gctx, *videoKey, bytes.NewReader(video.Data), *videoMIME)
		})
	}

	return g.Wait()
}

// compensate removes blobs written for a save that did not complete. It
// runs detached from the request so a cancelled request still cleans up.
func (r *repo) compensate(keys ...*string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, key := range keys {
		if key == nil {
			continue
		}
		err := r.storage.Delete(ctx, *key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("compensating blob delete failed", "key", *key, "error", err)
		}
	}
}

func (r *repo) deleteBlobs(ctx context.Context, keys ...*string) {
	for _, key := range keys {
		if key == nil {
			continue
		}
		if err := r.storage.Delete(ctx, *key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("blob delete failed after DB delete", "key", *key, "error", err)
		}
	}
}

func buildStorageKey(id uuid.UUID, kind MediaKind) string {
	return fmt.Sprintf("analyses/%s/%s", id, kind)
}

func encodeMetrics(m analyst.Metrics) (*string, error) {
	if !m.Any() {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	return optional(string(data)), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
